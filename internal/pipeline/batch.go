package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/colorcarbon/internal/model"
)

// DefaultBatchConcurrency is the number of targets analyzed at once.
const DefaultBatchConcurrency = 4

// BatchProcessor analyzes several targets of the same kind concurrently.
//
// Design decision: each target gets a fresh pipeline from the factory so
// step state never leaks between analyses, and per-site settings (cookies,
// headers) can be applied to the right target.
type BatchProcessor struct {
	// kind is the analysis kind created for each target.
	kind model.Kind

	// pipelineFactory creates a new pipeline for each target.
	pipelineFactory func(target string) *Pipeline

	// concurrency is the maximum number of concurrent analyses.
	concurrency int

	// targetTimeout bounds each analysis; zero means no bound.
	targetTimeout time.Duration

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent analyses.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithTargetTimeout bounds the time spent on each target. An analysis that
// runs out of time is marked TimedOut.
func WithTargetTimeout(d time.Duration) BatchOption {
	return func(b *BatchProcessor) {
		b.targetTimeout = d
	}
}

// NewBatchProcessor creates a BatchProcessor producing analyses of kind.
func NewBatchProcessor(kind model.Kind, pipelineFactory func(target string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		kind:            kind,
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch analyzes every target and returns the analyses in input
// order. A failed target is recorded in its analysis; only cancellation
// is returned as an error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.Analysis, error) {
	results := make([]*model.Analysis, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(analysis *model.Analysis, index int) {
		results[index] = analysis
	})
	return results, err
}

// ProcessBatchWithCallback analyzes every target and calls callback as each
// one completes. The callback runs on worker goroutines.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(analysis *model.Analysis, index int),
) error {
	bp.logger.Debug("starting batch processing",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			actx := gctx
			if bp.targetTimeout > 0 {
				var cancel context.CancelFunc
				actx, cancel = context.WithTimeout(gctx, bp.targetTimeout)
				defer cancel()
			}

			analysis := model.NewAnalysis(target, bp.kind)
			if err := bp.pipelineFactory(target).Execute(actx, analysis); err != nil {
				bp.logger.Debug("analysis failed", "source", target, "error", err)
			}

			callback(analysis, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch processing complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return err
}
