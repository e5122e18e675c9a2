package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/colorcarbon/internal/config"
	"github.com/nao1215/colorcarbon/internal/model"
	"github.com/nao1215/colorcarbon/internal/palette"
	"github.com/nao1215/colorcarbon/internal/pipeline"
)

// NewImageCmd creates the image command.
func NewImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image <file>...",
		Short: "Score the dominant colors of one or more images",
		Long: `Image decodes each file (PNG, JPEG, GIF or WebP), extracts its dominant
colors and scores them. Camera and software EXIF tags are shown in the report
when present.

Examples:
  # Score a screenshot
  colorcarbon image screenshot.png

  # Use a smaller palette and k-means clustering
  colorcarbon image --max-colors 6 --method kmeans hero.jpg

  # Markdown report for several images
  colorcarbon image --markdown -o report.md a.png b.webp`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImageCmd,
	}

	addOutputFlags(cmd)

	cmd.Flags().IntP("max-colors", "k", config.DefaultMaxColors,
		"Number of dominant colors to extract")
	cmd.Flags().String("method", config.DefaultMethod,
		"Quantization method: median-cut or kmeans")

	return cmd
}

// runImageCmd executes the image command.
func runImageCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildImageConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	method, err := palette.ParseMethod(cfg.Method)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	extractor := palette.NewExtractor(
		palette.WithMaxColors(cfg.MaxColors),
		palette.WithMethod(method),
		palette.WithLogger(logger),
	)

	factory := func(string) *pipeline.Pipeline {
		return pipeline.ImagePipeline(extractor, pipeline.WithLogger(logger))
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	return runAnalyses(ctx, cmd, cfg, model.KindImage, factory, logger)
}

// buildImageConfig creates a Config from the image flags. Paths are made
// absolute so history lookups match regardless of the working directory.
func buildImageConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	if err := applyOutputFlags(cmd, cfg); err != nil {
		return nil, err
	}

	var err error
	if cfg.MaxColors, err = cmd.Flags().GetInt("max-colors"); err != nil {
		return nil, err
	}
	if cfg.Method, err = cmd.Flags().GetString("method"); err != nil {
		return nil, err
	}

	cfg.Targets = make([]string, len(args))
	for i, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", arg, err)
		}
		cfg.Targets[i] = abs
	}

	return cfg, nil
}
