package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nao1215/colorcarbon/internal/model"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so the output can be piped to files without escape codes.
type SimpleWriter struct {
	baseWriter

	// verbose enables per-stylesheet details.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the analysis in human-readable format.
func (w *SimpleWriter) Write(analysis *model.Analysis) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, analysis)
	if analysis.Report != nil {
		w.writeScore(&sb, analysis.Report)
		w.writeColors(&sb, analysis.Report)
	}
	switch analysis.Kind {
	case model.KindWebsite:
		w.writeStylesheets(&sb, analysis)
	case model.KindImage:
		w.writeImage(&sb, analysis)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with analysis information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, analysis *model.Analysis) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                         COLORCARBON REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source:         %s\n", analysis.Source))
	sb.WriteString(fmt.Sprintf("Kind:           %s\n", analysis.Kind))
	sb.WriteString(fmt.Sprintf("Analyzed:       %s\n", analysis.DateAnalyzed.Format("2006-01-02 15:04:05 MST")))
	if analysis.Page != nil && analysis.Page.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:          %s\n", analysis.Page.Title))
	}

	if msg := StatusMessage(analysis); msg != "" {
		sb.WriteString(fmt.Sprintf("Status:         %s\n", msg))
	} else {
		sb.WriteString("Status:         Complete\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeScore(sb *strings.Builder, report *model.Report) {
	section(sb, "CARBON SCORE")

	sb.WriteString(fmt.Sprintf("  Total Carbon Score: %s\n", FormatScore(report.TotalScore)))
	sb.WriteString(fmt.Sprintf("  Rating:             %s\n", RatingLabel(report.Rating)))
	sb.WriteString(fmt.Sprintf("  Colors:             %d\n", report.ColorCount()))
	sb.WriteString(fmt.Sprintf("  Fingerprint:        %s\n", report.Fingerprint))
	sb.WriteString("\n")

	counts := report.CountByRating()
	for i := len(model.AllRatings) - 1; i >= 0; i-- {
		r := model.AllRatings[i]
		sb.WriteString(fmt.Sprintf("  %-10s %d\n", RatingLabel(r)+":", counts[r]))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeColors(sb *strings.Builder, report *model.Report) {
	section(sb, "COLORS")

	sb.WriteString(fmt.Sprintf("  %-9s  %-9s  %-5s  %s\n", "COLOR", "INTENSITY", "SCORE", "RATING"))
	for _, s := range report.Samples {
		sb.WriteString(fmt.Sprintf("  %-9s  %-9.3f  %-5s  %s\n",
			s.Color, s.CarbonIntensity, FormatScore(s.Score()), RatingLabel(s.Rating())))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeStylesheets(sb *strings.Builder, analysis *model.Analysis) {
	if len(analysis.StylesheetURLs) == 0 && !w.verbose {
		return
	}

	section(sb, "STYLESHEETS")

	failed := analysis.StylesheetsFailed()
	sb.WriteString(fmt.Sprintf("  Linked:  %d\n", len(analysis.StylesheetURLs)))
	sb.WriteString(fmt.Sprintf("  Used:    %d\n", len(analysis.Stylesheets)-failed))
	sb.WriteString(fmt.Sprintf("  Skipped: %d\n", failed))

	for _, s := range analysis.Stylesheets {
		switch {
		case s.Failed():
			sb.WriteString(fmt.Sprintf("  [-] %s\n      %s\n", s.URL, s.Error))
		case w.verbose:
			sb.WriteString(fmt.Sprintf("  [+] %s (%d colors)\n", s.URL, s.Colors))
		}
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeImage(sb *strings.Builder, analysis *model.Analysis) {
	if analysis.Image == nil {
		return
	}

	section(sb, "IMAGE")

	sb.WriteString(fmt.Sprintf("  Format: %s\n", analysis.Image.Format))
	sb.WriteString(fmt.Sprintf("  Size:   %dx%d\n", analysis.Image.Width, analysis.Image.Height))

	if len(analysis.Image.Metadata) > 0 {
		keys := make([]string, 0, len(analysis.Image.Metadata))
		for k := range analysis.Image.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\n  EXIF:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", k, analysis.Image.Metadata[k]))
		}
	}

	if len(analysis.Palette) > 0 {
		sb.WriteString("\n  Dominant colors:\n")
		for _, e := range analysis.Palette {
			sb.WriteString(fmt.Sprintf("    %s  %5.1f%%\n", e.Color, populationShare(analysis.Palette, e.Population)))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Scores are relative estimates, not energy measurements.\n")
	sb.WriteString("https://github.com/nao1215/colorcarbon\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
