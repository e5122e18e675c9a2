package pipeline

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/colorcarbon/internal/carbon"
	"github.com/nao1215/colorcarbon/internal/crawler"
	"github.com/nao1215/colorcarbon/internal/hexcolor"
	"github.com/nao1215/colorcarbon/internal/model"
	"github.com/nao1215/colorcarbon/internal/palette"
)

// PageFetchStep fetches the analyzed page and collects its inline CSS and
// stylesheet links. A failure here ends the analysis.
type PageFetchStep struct {
	fetcher    *crawler.Fetcher
	parserOpts []crawler.ParserOption
	logger     *slog.Logger
}

// PageFetchStepOption configures a PageFetchStep.
type PageFetchStepOption func(*PageFetchStep)

// WithStyleElements sets whether <style> element text is analyzed.
func WithStyleElements(enabled bool) PageFetchStepOption {
	return func(s *PageFetchStep) {
		s.parserOpts = append(s.parserOpts, crawler.WithStyleElements(enabled))
	}
}

// WithPageLogger sets a custom logger for the page fetch step.
func WithPageLogger(logger *slog.Logger) PageFetchStepOption {
	return func(s *PageFetchStep) {
		s.logger = logger
	}
}

// NewPageFetchStep creates a page fetch step.
func NewPageFetchStep(fetcher *crawler.Fetcher, opts ...PageFetchStepOption) *PageFetchStep {
	s := &PageFetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *PageFetchStep) Name() string {
	return "page_fetch"
}

// Do executes the page fetch step.
func (s *PageFetchStep) Do(ctx context.Context, analysis *model.Analysis) error {
	target, err := crawler.NormalizeURL(analysis.Source)
	if err != nil {
		return err
	}
	analysis.Source = target

	page, err := s.fetcher.FetchPage(ctx, target)
	if err != nil {
		return err
	}
	analysis.Page = page

	parser, err := crawler.NewParser(page.URL, s.parserOpts...)
	if err != nil {
		return err
	}
	result, err := parser.Parse(bytes.NewReader(page.Raw))
	if err != nil {
		// Treat an unparseable body as a page without styles.
		s.logger.Warn("failed to parse page", "url", page.URL, "error", err)
		return nil
	}

	page.Title = result.Title
	analysis.InlineCSS = result.CSS()
	analysis.StylesheetURLs = result.Stylesheets

	s.logger.Debug("page parsed",
		"url", page.URL,
		"inline_fragments", len(analysis.InlineCSS),
		"stylesheets", len(analysis.StylesheetURLs),
	)

	return nil
}

// StylesheetStep fetches every linked stylesheet. Broken stylesheets are
// recorded and skipped.
type StylesheetStep struct {
	fetcher *crawler.Fetcher
}

// NewStylesheetStep creates a stylesheet step.
func NewStylesheetStep(fetcher *crawler.Fetcher) *StylesheetStep {
	return &StylesheetStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *StylesheetStep) Name() string {
	return "stylesheets"
}

// Do executes the stylesheet step.
func (s *StylesheetStep) Do(ctx context.Context, analysis *model.Analysis) error {
	if len(analysis.StylesheetURLs) == 0 {
		return nil
	}

	fetched := s.fetcher.FetchStylesheets(ctx, analysis.StylesheetURLs)
	analysis.Stylesheets = make([]model.StylesheetResult, 0, len(fetched))

	for _, f := range fetched {
		result := model.StylesheetResult{URL: f.URL}
		if f.Page != nil {
			result.StatusCode = f.Page.StatusCode
		}

		if f.Err != nil {
			result.Error = f.Err.Error()
			analysis.Stylesheets = append(analysis.Stylesheets, result)
			continue
		}

		css := f.Page.Body()
		result.Colors = len(hexcolor.Extract(css))
		analysis.StylesheetCSS = append(analysis.StylesheetCSS, css)
		analysis.Stylesheets = append(analysis.Stylesheets, result)
	}

	return nil
}

// ColorExtractStep collects the distinct colors of all gathered CSS.
type ColorExtractStep struct{}

// NewColorExtractStep creates a color extraction step.
func NewColorExtractStep() *ColorExtractStep {
	return &ColorExtractStep{}
}

// Name returns the step name.
func (s *ColorExtractStep) Name() string {
	return "color_extract"
}

// Do executes the color extraction step.
func (s *ColorExtractStep) Do(_ context.Context, analysis *model.Analysis) error {
	analysis.Colors = hexcolor.ExtractAll(analysis.CSSFragments()...)
	return nil
}

// ImagePaletteStep decodes the image at Source and extracts its dominant
// colors.
type ImagePaletteStep struct {
	extractor *palette.Extractor
}

// NewImagePaletteStep creates an image palette step.
func NewImagePaletteStep(extractor *palette.Extractor) *ImagePaletteStep {
	if extractor == nil {
		extractor = palette.NewExtractor()
	}
	return &ImagePaletteStep{extractor: extractor}
}

// Name returns the step name.
func (s *ImagePaletteStep) Name() string {
	return "image_palette"
}

// Do executes the image palette step.
func (s *ImagePaletteStep) Do(_ context.Context, analysis *model.Analysis) error {
	src, err := palette.LoadFile(analysis.Source)
	if err != nil {
		return err
	}
	info := src.Info
	analysis.Image = &info

	p, err := s.extractor.Extract(src.Image)
	if err != nil {
		return err
	}

	analysis.Palette = make([]model.PaletteEntry, len(p.Swatches))
	for i, sw := range p.Swatches {
		analysis.Palette[i] = model.PaletteEntry{Color: sw.Color, Population: sw.Population}
	}
	analysis.Colors = p.Tokens()

	return nil
}

// ScoreStep aggregates the collected colors into a report.
// An empty color set marks the analysis Empty and fails with
// carbon.ErrNoColors.
type ScoreStep struct{}

// NewScoreStep creates a scoring step.
func NewScoreStep() *ScoreStep {
	return &ScoreStep{}
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return "score"
}

// Do executes the scoring step.
func (s *ScoreStep) Do(_ context.Context, analysis *model.Analysis) error {
	report, err := carbon.Aggregate(analysis.Colors)
	if errors.Is(err, carbon.ErrNoColors) {
		analysis.Empty = true
	}
	if err != nil {
		return err
	}

	analysis.Report = report
	return nil
}

// WebsitePipeline builds the standard website analysis pipeline.
func WebsitePipeline(fetcher *crawler.Fetcher, pipelineOpts []Option, pageOpts ...PageFetchStepOption) *Pipeline {
	p := New(pipelineOpts...)
	p.AddSteps(
		NewPageFetchStep(fetcher, pageOpts...),
		NewStylesheetStep(fetcher),
		NewColorExtractStep(),
		NewScoreStep(),
	)
	return p
}

// ImagePipeline builds the standard image analysis pipeline.
func ImagePipeline(extractor *palette.Extractor, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)
	p.AddSteps(
		NewImagePaletteStep(extractor),
		NewScoreStep(),
	)
	return p
}
