package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/colorcarbon/internal/model"
)

// MarkdownWriter outputs analyses in Markdown format.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides tables, GitHub-flavored alerts and mermaid
// charts without hand-built escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the analysis in Markdown format.
func (w *MarkdownWriter) Write(analysis *model.Analysis) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, analysis)
	if analysis.Report != nil {
		w.writeScore(md, analysis.Report)
		w.writeColors(md, analysis.Report)
	}
	switch analysis.Kind {
	case model.KindWebsite:
		w.writeStylesheets(md, analysis)
	case model.KindImage:
		w.writeImage(md, analysis)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with analysis information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, analysis *model.Analysis) {
	md.H1("Colorcarbon Report")
	md.PlainText("")

	rows := [][]string{
		{"Source", "`" + analysis.Source + "`"},
		{"Kind", string(analysis.Kind)},
		{"Analyzed", analysis.DateAnalyzed.Format("2006-01-02 15:04:05 MST")},
	}
	if analysis.Page != nil && analysis.Page.Title != "" {
		rows = append(rows, []string{"Title", analysis.Page.Title})
	}
	rows = append(rows, []string{"Status", w.getStatusText(analysis)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if analysis.Report == nil {
		md.Importantf("%s", w.getStatusText(analysis))
		md.PlainText("")
	}
}

// getStatusText returns the status text based on analysis state.
func (w *MarkdownWriter) getStatusText(analysis *model.Analysis) string {
	if msg := StatusMessage(analysis); msg != "" {
		return msg
	}
	return "Complete"
}

func (w *MarkdownWriter) writeScore(md *markdown.Markdown, report *model.Report) {
	md.H2("Carbon Score")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Carbon Score", "**" + FormatScore(report.TotalScore) + "**"},
			{"Rating", RatingLabel(report.Rating)},
			{"Colors", strconv.Itoa(report.ColorCount())},
			{"Fingerprint", "`" + report.Fingerprint + "`"},
		},
	})
	md.PlainText("")

	w.writeAlert(md, report)
	w.writePieChart(md, report)
}

// writeAlert writes an alert matching the rating band.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.Report) {
	score := FormatScore(report.TotalScore)
	switch report.Rating {
	case model.RatingVeryHigh:
		md.Cautionf("Very high carbon score (%s). Bright, blue-heavy palettes dominate.", score)
	case model.RatingHigh:
		md.Warningf("High carbon score (%s). Consider darker or less saturated colors.", score)
	case model.RatingModerate:
		md.Note("Moderate carbon score (" + score + ").")
	default:
		md.Tip("Very low carbon score (" + score + "). Dark palettes keep the estimate low.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of colors per rating band.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.Report) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Colors by Rating"),
		piechart.WithShowData(true),
	)

	counts := report.CountByRating()
	for i := len(model.AllRatings) - 1; i >= 0; i-- {
		r := model.AllRatings[i]
		if counts[r] > 0 {
			chart.LabelAndIntValue(RatingLabel(r), uint64(counts[r])) //nolint:gosec // counts are non-negative
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeColors(md *markdown.Markdown, report *model.Report) {
	md.H2("Colors")
	md.PlainText("")

	rows := make([][]string, len(report.Samples))
	for i, s := range report.Samples {
		rows[i] = []string{
			"`" + s.Color.String() + "`",
			fmt.Sprintf("%.3f", s.CarbonIntensity),
			FormatScore(s.Score()),
			RatingLabel(s.Rating()),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Color", "Intensity", "Score", "Rating"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStylesheets(md *markdown.Markdown, analysis *model.Analysis) {
	if len(analysis.Stylesheets) == 0 {
		return
	}

	md.H2("Stylesheets")
	md.PlainText("")

	rows := make([][]string, len(analysis.Stylesheets))
	for i, s := range analysis.Stylesheets {
		status := "used"
		if s.Failed() {
			status = "skipped: " + truncateString(s.Error, 60)
		}
		rows[i] = []string{
			truncateString(s.URL, 80),
			strconv.Itoa(s.Colors),
			status,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Colors", "Status"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeImage(md *markdown.Markdown, analysis *model.Analysis) {
	if analysis.Image == nil {
		return
	}

	md.H2("Image")
	md.PlainText("")

	rows := [][]string{
		{"Format", analysis.Image.Format},
		{"Size", fmt.Sprintf("%dx%d", analysis.Image.Width, analysis.Image.Height)},
	}
	keys := make([]string, 0, len(analysis.Image.Metadata))
	for k := range analysis.Image.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, []string{k, analysis.Image.Metadata[k]})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(analysis.Palette) == 0 {
		return
	}

	md.H3("Dominant Colors")
	md.PlainText("")

	palette := make([][]string, len(analysis.Palette))
	for i, e := range analysis.Palette {
		palette[i] = []string{
			"`" + e.Color.String() + "`",
			fmt.Sprintf("%.1f%%", populationShare(analysis.Palette, e.Population)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Color", "Share"},
		Rows:   palette,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [colorcarbon](https://github.com/nao1215/colorcarbon)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
