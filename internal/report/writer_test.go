package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/colorcarbon/internal/carbon"
	"github.com/nao1215/colorcarbon/internal/crawler"
	"github.com/nao1215/colorcarbon/internal/hexcolor"
	"github.com/nao1215/colorcarbon/internal/model"
)

// createTestAnalysis creates a scored website analysis for testing.
func createTestAnalysis(t *testing.T) *model.Analysis {
	t.Helper()

	analysis := model.NewAnalysis("https://example.com", model.KindWebsite)
	analysis.DateAnalyzed = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	analysis.Page = &model.Page{URL: "https://example.com", StatusCode: 200, Title: "Example"}
	analysis.StylesheetURLs = []string{"https://example.com/a.css", "https://example.com/b.css"}
	analysis.Stylesheets = []model.StylesheetResult{
		{URL: "https://example.com/a.css", StatusCode: 200, Colors: 1},
		{URL: "https://example.com/b.css", StatusCode: 404, Error: "status 404"},
	}

	report, err := carbon.Aggregate([]hexcolor.Token{"#ffffff", "#000000"})
	if err != nil {
		t.Fatalf("failed to aggregate: %v", err)
	}
	analysis.Colors = report.Colors()
	analysis.Report = report
	return analysis
}

func createImageAnalysis(t *testing.T) *model.Analysis {
	t.Helper()

	analysis := model.NewAnalysis("photo.jpg", model.KindImage)
	analysis.Image = &model.ImageInfo{
		Format:   "jpeg",
		Width:    640,
		Height:   480,
		Metadata: map[string]string{"Model": "X100", "Make": "Fuji"},
	}
	analysis.Palette = []model.PaletteEntry{
		{Color: "#0000ff", Population: 30},
		{Color: "#ff0000", Population: 10},
	}

	report, err := carbon.Aggregate([]hexcolor.Token{"#0000ff", "#ff0000"})
	if err != nil {
		t.Fatalf("failed to aggregate: %v", err)
	}
	analysis.Report = report
	return analysis
}

func TestRatingLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating model.Rating
		want   string
	}{
		{model.RatingVeryLow, "Very Low"},
		{model.RatingModerate, "Moderate"},
		{model.RatingHigh, "High"},
		{model.RatingVeryHigh, "Very High"},
	}

	for _, tt := range tests {
		if got := RatingLabel(tt.rating); got != tt.want {
			t.Errorf("RatingLabel(%v) = %q, want %q", tt.rating, got, tt.want)
		}
	}
}

func TestStatusMessage(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		if got := StatusMessage(createTestAnalysis(t)); got != "" {
			t.Errorf("expected empty status, got %q", got)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("https://example.com", model.KindWebsite)
		a.SetError(fmt.Errorf("%w: connection refused", crawler.ErrFetchFailed))
		if got := StatusMessage(a); got != MessageFetchFailed {
			t.Errorf("expected %q, got %q", MessageFetchFailed, got)
		}
	})

	t.Run("no css colors", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("https://example.com", model.KindWebsite)
		a.Empty = true
		a.SetError(carbon.ErrNoColors)
		if got := StatusMessage(a); got != MessageNoCSSColors {
			t.Errorf("expected %q, got %q", MessageNoCSSColors, got)
		}
	})

	t.Run("empty image", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("x.png", model.KindImage)
		a.Empty = true
		if got := StatusMessage(a); got != MessageNoImageData {
			t.Errorf("expected %q, got %q", MessageNoImageData, got)
		}
	})

	t.Run("other error", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("x.png", model.KindImage)
		a.SetError(errors.New("decode failed"))
		if got := StatusMessage(a); got != "decode failed" {
			t.Errorf("expected error text, got %q", got)
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes website report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		n, err := w.Write(createTestAnalysis(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		out := buf.String()
		for _, want := range []string{
			"COLORCARBON REPORT",
			"Source:         https://example.com",
			"Status:         Complete",
			"Total Carbon Score: 55.0",
			"Rating:             High",
			"#000000",
			"Very Low",
			"Skipped: 1",
			"https://example.com/b.css",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "[+]") {
			t.Error("successful stylesheets should only be listed in verbose mode")
		}
	})

	t.Run("verbose lists used stylesheets", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[+] https://example.com/a.css (1 colors)") {
			t.Errorf("expected used stylesheet line:\n%s", buf.String())
		}
	})

	t.Run("writes empty result message", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("https://example.com", model.KindWebsite)
		a.Empty = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, MessageNoCSSColors) {
			t.Errorf("expected %q in output:\n%s", MessageNoCSSColors, out)
		}
		if strings.Contains(out, "CARBON SCORE") {
			t.Error("empty analysis should not print a score")
		}
	})

	t.Run("writes image details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createImageAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"Format: jpeg", "Size:   640x480", "Make: Fuji", "Model: X100", "#0000ff   75.0%"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		report, ok := decoded["report"].(map[string]any)
		if !ok {
			t.Fatalf("missing report in %s", buf.String())
		}
		if report["rating"] != "HIGH" {
			t.Errorf("expected rating HIGH, got %v", report["rating"])
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("compact output should be a single line")
		}
	})

	t.Run("pretty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"source\": \"https://example.com\"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("full writer wraps with version and status", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("https://example.com", model.KindWebsite)
		a.Empty = true

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "v1.2.3").Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded JSONReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Version != "v1.2.3" {
			t.Errorf("expected version v1.2.3, got %q", decoded.Version)
		}
		if decoded.Status != MessageNoCSSColors {
			t.Errorf("expected status %q, got %q", MessageNoCSSColors, decoded.Status)
		}
		if decoded.Analysis == nil || !decoded.Analysis.Empty {
			t.Error("expected empty analysis in payload")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes website report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Colorcarbon Report",
			"## Carbon Score",
			"**55.0**",
			"[!WARNING]",
			"```mermaid",
			"pie",
			"Very Low",
			"## Stylesheets",
			"`#ffffff`",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("writes image report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createImageAnalysis(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"## Image", "640x480", "X100", "### Dominant Colors", "75.0%"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("writes failure", func(t *testing.T) {
		t.Parallel()

		a := model.NewAnalysis("https://example.com", model.KindWebsite)
		a.SetError(fmt.Errorf("%w: refused", crawler.ErrFetchFailed))

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), MessageFetchFailed) {
			t.Errorf("expected %q:\n%s", MessageFetchFailed, buf.String())
		}
		if strings.Contains(buf.String(), "## Carbon Score") {
			t.Error("failed analysis should not print a score")
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
	n, err := mw.Write(createTestAnalysis(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != a.Len()+b.Len() {
		t.Errorf("expected %d bytes, got %d", a.Len()+b.Len(), n)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("expected output in both writers")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long string", 8, "too l..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
