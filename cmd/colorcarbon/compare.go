package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/colorcarbon/internal/config"
	"github.com/nao1215/colorcarbon/internal/crawler"
	"github.com/nao1215/colorcarbon/internal/database"
	"github.com/nao1215/colorcarbon/internal/hexcolor"
	"github.com/nao1215/colorcarbon/internal/model"
	"github.com/nao1215/colorcarbon/internal/report"
)

// Score trend labels.
const (
	trendLower     = "lower"
	trendHigher    = "higher"
	trendUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [source]",
		Short: "Compare a source's latest report with an earlier one",
		Long: `Compare shows how the carbon score and palette of a website or image
changed between two saved reports:
- Score and rating before and after
- Colors added and removed
- Whether the palette is unchanged

Reports are saved by 'colorcarbon scan' and 'colorcarbon image'.

Examples:
  # Compare the latest two reports
  colorcarbon compare https://example.com

  # List saved reports for a source
  colorcarbon compare --list https://example.com

  # Compare the latest report with report 5
  colorcarbon compare --with-id 5 https://example.com

  # Compare with the first report since a date
  colorcarbon compare --since 2026-01-01 https://example.com

  # List every source in the history
  colorcarbon compare --list-sources`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List saved reports for the source")
	cmd.Flags().BoolP("list-sources", "L", false,
		"List every source in the history database")
	cmd.Flags().Int64P("with-id", "i", 0,
		"Compare with the report of this ID (see --list)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first report on or after this date (YYYY-MM-DD, UTC)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// compareOptions holds the parsed compare flags.
type compareOptions struct {
	list        bool
	listSources bool
	withID      int64
	since       string
	json        bool
	markdown    bool
	dbDir       string
}

func parseCompareOptions(cmd *cobra.Command) (*compareOptions, error) {
	opts := &compareOptions{}
	var err error

	if opts.list, err = cmd.Flags().GetBool("list"); err != nil {
		return nil, err
	}
	if opts.listSources, err = cmd.Flags().GetBool("list-sources"); err != nil {
		return nil, err
	}
	if opts.withID, err = cmd.Flags().GetInt64("with-id"); err != nil {
		return nil, err
	}
	if opts.since, err = cmd.Flags().GetString("since"); err != nil {
		return nil, err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}

	if opts.json && opts.markdown {
		return nil, config.ErrConflictingReportFormats
	}
	return opts, nil
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseCompareOptions(cmd)
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	if !opts.listSources && len(args) == 0 {
		return errors.New("source is required (use --list-sources to see saved sources)")
	}

	db, err := database.Open(opts.dbDir, database.Options{CreateIfNotExists: false})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return errors.New("no history yet: run 'colorcarbon scan' or 'colorcarbon image' first")
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	if opts.listSources {
		return listSources(ctx, out, db)
	}

	source, err := resolveSource(ctx, db, args[0])
	if err != nil {
		return err
	}

	if opts.list {
		return listHistory(ctx, out, db, source)
	}

	return runComparison(ctx, out, db, source, opts)
}

// resolveSource maps a user argument to the stored source name. Websites
// are stored normalized and images with absolute paths.
func resolveSource(ctx context.Context, db *database.HistoryDB, arg string) (string, error) {
	candidates := []string{arg}
	if normalized, err := crawler.NormalizeURL(arg); err == nil {
		candidates = append(candidates, normalized)
	}
	if abs, err := filepath.Abs(arg); err == nil {
		if _, statErr := os.Stat(abs); statErr == nil {
			candidates = append(candidates, abs)
		}
	}

	for _, c := range candidates {
		records, err := db.Latest(ctx, c, 1)
		if err != nil {
			return "", fmt.Errorf("failed to read history: %w", err)
		}
		if len(records) > 0 {
			return c, nil
		}
	}
	return "", fmt.Errorf("no history found for %s", arg)
}

// listSources prints every source in the database.
func listSources(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		fmt.Fprintln(out, "No saved reports found in the database.")
		return nil
	}

	fmt.Fprintf(out, "Saved sources (%d):\n\n", len(sources))
	for _, s := range sources {
		fmt.Fprintf(out, "  • %s\n", s)
	}
	fmt.Fprintln(out, "\nUse 'colorcarbon compare --list <source>' to see its reports.")
	return nil
}

// listHistory prints the saved reports of one source, newest first.
func listHistory(ctx context.Context, out io.Writer, db *database.HistoryDB, source string) error {
	records, err := db.History(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	fmt.Fprintf(out, "History for %s (%d reports):\n\n", source, len(records))
	fmt.Fprintf(out, "  %-6s  %-20s  %-7s  %-10s  %-6s  %s\n", "ID", "Date", "Score", "Rating", "Colors", "Fingerprint")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 76))

	for _, rec := range records {
		fmt.Fprintf(out, "  %-6d  %-20s  %-7s  %-10s  %-6d  %s\n",
			rec.ID,
			rec.AnalyzedAt.Local().Format("2006-01-02 15:04:05"),
			report.FormatScore(rec.Report.TotalScore),
			report.RatingLabel(rec.Report.Rating),
			rec.Report.ColorCount(),
			rec.Report.Fingerprint,
		)
	}

	fmt.Fprintln(out, "\nUse 'colorcarbon compare --with-id <id> <source>' to compare with a specific report.")
	return nil
}

// Comparison is the result of comparing two saved reports.
type Comparison struct {
	// Source is the compared website or image.
	Source string `json:"source"`

	// PreviousID and CurrentID are the database IDs compared.
	PreviousID int64 `json:"previous_id"`
	CurrentID  int64 `json:"current_id"`

	// PreviousDate and CurrentDate are when the analyses ran.
	PreviousDate time.Time `json:"previous_date"`
	CurrentDate  time.Time `json:"current_date"`

	// Diff holds score and palette changes.
	Diff *model.ReportDiff `json:"diff"`

	// ScoreDelta is Diff.ScoreDelta(), included for JSON consumers.
	ScoreDelta float64 `json:"score_delta"`

	// Trend is "lower", "higher" or "unchanged".
	Trend string `json:"trend"`
}

// newComparison compares previous with current.
func newComparison(previous, current *database.Record) *Comparison {
	diff := model.CompareReports(previous.Report, current.Report)
	return &Comparison{
		Source:       current.Source,
		PreviousID:   previous.ID,
		CurrentID:    current.ID,
		PreviousDate: previous.AnalyzedAt,
		CurrentDate:  current.AnalyzedAt,
		Diff:         diff,
		ScoreDelta:   diff.ScoreDelta(),
		Trend:        trendOf(diff.ScoreDelta()),
	}
}

// trendOf classifies a score delta at the displayed precision.
func trendOf(delta float64) string {
	switch {
	case delta <= -0.05:
		return trendLower
	case delta >= 0.05:
		return trendHigher
	default:
		return trendUnchanged
	}
}

// runComparison selects the two reports and prints their comparison.
func runComparison(ctx context.Context, out io.Writer, db *database.HistoryDB, source string, opts *compareOptions) error {
	records, err := db.History(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no history found for %s", source)
	}

	current := records[0]
	var previous *database.Record

	switch {
	case opts.withID > 0:
		previous, err = db.GetByID(ctx, opts.withID)
		if err != nil {
			return fmt.Errorf("failed to get report %d: %w", opts.withID, err)
		}
		if previous.Source != source {
			return fmt.Errorf("report %d belongs to %s, not %s", opts.withID, previous.Source, source)
		}
	case opts.since != "":
		sinceDate, err := time.Parse("2006-01-02", opts.since)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}
		// Records are newest first; walk backwards for the oldest match.
		for i := len(records) - 1; i >= 0; i-- {
			if !records[i].AnalyzedAt.Before(sinceDate) {
				previous = records[i]
				break
			}
		}
		if previous == nil {
			return fmt.Errorf("no reports found since %s", opts.since)
		}
		if previous.ID == current.ID {
			return fmt.Errorf("only one report found since %s; at least 2 are required", opts.since)
		}
	default:
		if len(records) < 2 {
			return fmt.Errorf("at least 2 reports are required for comparison (found %d)", len(records))
		}
		previous = records[1]
	}

	comparison := newComparison(previous, current)

	switch {
	case opts.json:
		return writeComparisonJSON(out, comparison)
	case opts.markdown:
		return writeComparisonMarkdown(out, comparison)
	default:
		writeComparisonText(out, comparison)
		return nil
	}
}

func writeComparisonJSON(out io.Writer, c *Comparison) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(c)
}

func writeComparisonMarkdown(out io.Writer, c *Comparison) error {
	md := markdown.NewMarkdown(out)

	md.H1("Carbon Comparison: " + c.Source)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: [][]string{
			{"Report ID", strconv.FormatInt(c.PreviousID, 10), strconv.FormatInt(c.CurrentID, 10), "-"},
			{"Date", c.PreviousDate.Local().Format("2006-01-02 15:04"), c.CurrentDate.Local().Format("2006-01-02 15:04"), "-"},
			{"Score", report.FormatScore(c.Diff.ScoreBefore), report.FormatScore(c.Diff.ScoreAfter), formatDelta(c.ScoreDelta)},
			{"Rating", report.RatingLabel(c.Diff.RatingBefore), report.RatingLabel(c.Diff.RatingAfter), ratingChange(c.Diff)},
		},
	})
	md.PlainText("")

	switch c.Trend {
	case trendLower:
		md.Tip(fmt.Sprintf("Score dropped by %s points.", report.FormatScore(-c.ScoreDelta)))
	case trendHigher:
		md.Warningf("Score rose by %s points.", report.FormatScore(c.ScoreDelta))
	default:
		md.Note("Score unchanged.")
	}
	md.PlainText("")

	if c.Diff.SamePalette {
		md.PlainText("The palette is unchanged.")
		md.PlainText("")
		return md.Build()
	}

	if len(c.Diff.Added) > 0 {
		md.H2(fmt.Sprintf("Added Colors (%d)", len(c.Diff.Added)))
		md.BulletList(codeList(c.Diff.Added)...)
	}
	if len(c.Diff.Removed) > 0 {
		md.H2(fmt.Sprintf("Removed Colors (%d)", len(c.Diff.Removed)))
		md.BulletList(codeList(c.Diff.Removed)...)
	}

	return md.Build()
}

func writeComparisonText(out io.Writer, c *Comparison) {
	fmt.Fprintf(out, "Carbon Comparison: %s\n", c.Source)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious report: #%d  %s\n", c.PreviousID, c.PreviousDate.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current report:  #%d  %s\n", c.CurrentID, c.CurrentDate.Local().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(out, "\n  %-8s  %-10s  %-10s  %s\n", "", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(out, "  %-8s  %-10s  %-10s  %s\n", "Score",
		report.FormatScore(c.Diff.ScoreBefore), report.FormatScore(c.Diff.ScoreAfter), formatDelta(c.ScoreDelta))
	fmt.Fprintf(out, "  %-8s  %-10s  %-10s  %s\n", "Rating",
		report.RatingLabel(c.Diff.RatingBefore), report.RatingLabel(c.Diff.RatingAfter), ratingChange(c.Diff))

	fmt.Fprintf(out, "\nTrend: %s\n", formatTrend(c.Trend))

	if c.Diff.SamePalette {
		fmt.Fprintln(out, "Palette: unchanged")
		return
	}

	if len(c.Diff.Added) > 0 {
		fmt.Fprintf(out, "\nAdded colors (%d):\n", len(c.Diff.Added))
		for _, tok := range c.Diff.Added {
			fmt.Fprintf(out, "  [+] %s\n", tok)
		}
	}
	if len(c.Diff.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved colors (%d):\n", len(c.Diff.Removed))
		for _, tok := range c.Diff.Removed {
			fmt.Fprintf(out, "  [-] %s\n", tok)
		}
	}
}

func codeList(tokens []hexcolor.Token) []string {
	items := make([]string, len(tokens))
	for i, tok := range tokens {
		items[i] = "`" + tok.String() + "`"
	}
	return items
}

// formatTrend formats the score trend for display.
func formatTrend(trend string) string {
	switch trend {
	case trendLower:
		return "LOWER (less carbon intensive)"
	case trendHigher:
		return "HIGHER (more carbon intensive)"
	default:
		return "UNCHANGED"
	}
}

// ratingChange describes a rating transition.
func ratingChange(d *model.ReportDiff) string {
	if !d.RatingChanged() {
		return "-"
	}
	return report.RatingLabel(d.RatingBefore) + " → " + report.RatingLabel(d.RatingAfter)
}

// formatDelta formats a score delta with sign at one decimal.
func formatDelta(delta float64) string {
	switch trendOf(delta) {
	case trendHigher:
		return "+" + report.FormatScore(delta)
	case trendLower:
		return report.FormatScore(delta)
	default:
		return "0.0"
	}
}
