package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/colorcarbon/internal/config"
	"github.com/nao1215/colorcarbon/internal/database"
	"github.com/nao1215/colorcarbon/internal/model"
	"github.com/nao1215/colorcarbon/internal/pipeline"
	"github.com/nao1215/colorcarbon/internal/report"
)

// ErrNoReports is returned when every target failed or had no colors.
var ErrNoReports = errors.New("no target produced a carbon report")

// addOutputFlags registers the flags shared by scan and image.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Time limit for analyzing one target")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of targets analyzed at once")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write reports to the file path (creates directories if needed)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().Bool("no-save", false,
		"Do not save reports to the history database")
}

// applyOutputFlags copies the shared flags into cfg.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noSave
	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.LogJSON = getBoolFlag(cmd, "log-json")

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newReportWriter returns the writer for the configured format.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}

// teeReportWriter adds a terminal summary when a JSON or Markdown report
// goes to a file, so the run still shows its scores.
func teeReportWriter(cfg *config.Config, writer report.Writer, stdout io.Writer) report.Writer {
	if cfg.ReportFile == "" || (!cfg.JSONReport && !cfg.MarkdownReport) {
		return writer
	}
	return report.NewMultiWriter(writer, report.NewSimpleWriter(stdout, report.WithVerbose(cfg.Verbose)))
}

// openReportOutput returns the report destination and its closer.
func openReportOutput(cfg *config.Config, stdout io.Writer) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return stdout, func() error { return nil }, nil
	}

	if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

// batchSummary counts analysis outcomes.
type batchSummary struct {
	succeeded int
	empty     int
	failed    int
}

// runAnalyses analyzes every target with pipelines from factory, writes
// one report per target as each completes, and saves successful
// reports to the history database.
func runAnalyses(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	kind model.Kind,
	factory func(target string) *pipeline.Pipeline,
	logger *slog.Logger,
) error {
	stderr := cmd.ErrOrStderr()

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Debug("database opened", "path", db.Path())
	}

	out, closeOut, err := openReportOutput(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if err := closeOut(); err != nil {
			logger.Error("failed to close report file", "error", err)
		}
	}()
	writer := teeReportWriter(cfg, newReportWriter(cfg, out), cmd.OutOrStdout())

	bp := pipeline.NewBatchProcessor(kind, factory,
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithTargetTimeout(cfg.Timeout),
		pipeline.WithBatchLogger(logger),
	)

	fmt.Fprintf(stderr, "Analyzing %d %s target(s) (concurrency: %d)...\n",
		len(cfg.Targets), kind, cfg.Concurrency)
	startTime := time.Now()

	var (
		mu      sync.Mutex
		summary batchSummary
	)
	err = bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(analysis *model.Analysis, index int) {
		mu.Lock()
		defer mu.Unlock()

		switch {
		case analysis.Succeeded():
			summary.succeeded++
		case analysis.Empty:
			summary.empty++
		default:
			summary.failed++
		}

		fmt.Fprintf(stderr, "[%d/%d] %s: %s\n", index+1, len(cfg.Targets), analysis.Source, outcome(analysis))

		if _, err := writer.Write(analysis); err != nil {
			logger.Error("report failed", "source", analysis.Source, "error", err)
		}

		if err := saveReport(ctx, db, analysis, logger); err != nil {
			logger.Error("failed to save report", "source", analysis.Source, "error", err)
		}
	})

	fmt.Fprintf(stderr, "Done in %s: %d scored, %d without colors, %d failed\n",
		time.Since(startTime).Round(time.Millisecond), summary.succeeded, summary.empty, summary.failed)

	if err != nil {
		return err
	}
	if summary.succeeded == 0 {
		return ErrNoReports
	}
	return nil
}

// outcome returns the one-line status of an analysis.
func outcome(analysis *model.Analysis) string {
	if msg := report.StatusMessage(analysis); msg != "" {
		return msg
	}
	return fmt.Sprintf("score %s (%s)",
		report.FormatScore(analysis.Report.TotalScore), report.RatingLabel(analysis.Report.Rating))
}

// saveReport stores a successful analysis. A nil db or an analysis
// without a report is a no-op.
func saveReport(ctx context.Context, db *database.HistoryDB, analysis *model.Analysis, logger *slog.Logger) error {
	if db == nil || !analysis.Succeeded() {
		return nil
	}

	// Saving must not be skipped because the analysis context expired.
	id, err := db.SaveReport(context.WithoutCancel(ctx), analysis)
	if err != nil {
		return err
	}

	logger.Debug("report saved", "source", analysis.Source, "id", id)
	return nil
}
