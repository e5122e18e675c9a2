package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/colorcarbon/internal/carbon"
	"github.com/nao1215/colorcarbon/internal/crawler"
	"github.com/nao1215/colorcarbon/internal/model"
	"github.com/nao1215/colorcarbon/internal/palette"
)

// newSite serves a page with inline styles, one working stylesheet and one
// broken stylesheet.
func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head>
			<title>Site</title>
			<link rel="stylesheet" href="/site.css">
			<link rel="stylesheet" href="/broken.css">
		</head><body style="color: #FFF">
			<div style="background: rgb(0,0,0)"></div>
		</body></html>`)
	})
	mux.HandleFunc("/site.css", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		fmt.Fprint(w, "a { color: #0000ff } b { color: #fff }")
	})
	mux.HandleFunc("/broken.css", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `<html><body style="color:#fff">not found</body></html>`)
	})
	mux.HandleFunc("/plain", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><p>no colors here</p></body></html>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestWebsitePipeline(t *testing.T) {
	t.Parallel()

	t.Run("scores page and stylesheets", func(t *testing.T) {
		t.Parallel()

		server := newSite(t)
		fetcher := crawler.NewFetcher(server.Client(), crawler.WithLogger(quietLogger()))
		p := WebsitePipeline(fetcher, []Option{WithLogger(quietLogger())})

		analysis := model.NewAnalysis(server.URL+"/", model.KindWebsite)
		if err := p.Execute(context.Background(), analysis); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !analysis.Succeeded() {
			t.Fatalf("expected success, got error %v", analysis.Error)
		}
		if analysis.Page == nil || analysis.Page.Title != "Site" {
			t.Errorf("unexpected page %+v", analysis.Page)
		}

		want := []string{"#000000", "#0000ff", "#fff"}
		got := analysis.Report.Colors()
		if len(got) != len(want) {
			t.Fatalf("expected colors %v, got %v", want, got)
		}
		for i := range want {
			if string(got[i]) != want[i] {
				t.Errorf("color %d: expected %s, got %s", i, want[i], got[i])
			}
		}

		if len(analysis.Stylesheets) != 2 {
			t.Fatalf("expected 2 stylesheet results, got %d", len(analysis.Stylesheets))
		}
		if analysis.StylesheetsFailed() != 1 {
			t.Errorf("expected 1 failed stylesheet, got %d", analysis.StylesheetsFailed())
		}
		if analysis.Stylesheets[0].Colors != 2 {
			t.Errorf("expected 2 colors from site.css, got %d", analysis.Stylesheets[0].Colors)
		}
		if analysis.Stylesheets[1].StatusCode != http.StatusInternalServerError {
			t.Errorf("expected status 500 for broken.css, got %d", analysis.Stylesheets[1].StatusCode)
		}

		blue := 0.65*0.0722 + 0.25 + 0.10
		expected := (0.10 + blue + 1.0) / 3 * 100
		if math.Abs(analysis.Report.TotalScore-expected) > 1e-9 {
			t.Errorf("expected total %v, got %v", expected, analysis.Report.TotalScore)
		}
	})

	t.Run("root fetch failure ends analysis", func(t *testing.T) {
		t.Parallel()

		server := newSite(t)
		fetcher := crawler.NewFetcher(server.Client(), crawler.WithLogger(quietLogger()))
		p := WebsitePipeline(fetcher, []Option{WithLogger(quietLogger())})

		analysis := model.NewAnalysis(server.URL+"/missing", model.KindWebsite)
		err := p.Execute(context.Background(), analysis)
		if !errors.Is(err, crawler.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}
		if analysis.Report != nil {
			t.Error("expected no report")
		}
		if len(analysis.PerformedSteps) != 1 {
			t.Errorf("expected only the fetch step to run, got %v", analysis.PerformedSteps)
		}
	})

	t.Run("page without colors is empty", func(t *testing.T) {
		t.Parallel()

		server := newSite(t)
		fetcher := crawler.NewFetcher(server.Client(), crawler.WithLogger(quietLogger()))
		p := WebsitePipeline(fetcher, []Option{WithLogger(quietLogger())})

		analysis := model.NewAnalysis(server.URL+"/plain", model.KindWebsite)
		err := p.Execute(context.Background(), analysis)
		if !errors.Is(err, carbon.ErrNoColors) {
			t.Errorf("expected ErrNoColors, got %v", err)
		}
		if !analysis.Empty {
			t.Error("expected Empty to be set")
		}
		if analysis.Report != nil {
			t.Error("expected no report")
		}
	})

	t.Run("error status page is still scored", func(t *testing.T) {
		t.Parallel()

		server := newSite(t)
		fetcher := crawler.NewFetcher(server.Client(), crawler.WithLogger(quietLogger()))
		p := WebsitePipeline(fetcher, []Option{WithLogger(quietLogger())})

		analysis := model.NewAnalysis(server.URL+"/gone", model.KindWebsite)
		if err := p.Execute(context.Background(), analysis); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if analysis.Page == nil || analysis.Page.StatusCode != http.StatusNotFound {
			t.Errorf("expected page with status 404, got %+v", analysis.Page)
		}
		if got := analysis.Report.Colors(); len(got) != 1 || got[0] != "#fff" {
			t.Errorf("expected [#fff], got %v", got)
		}
	})

	t.Run("style elements are opt-in", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><head><style>p { color: #abcdef }</style></head><body style="color:#000"></body></html>`)
		}))
		defer server.Close()

		fetcher := crawler.NewFetcher(server.Client(), crawler.WithLogger(quietLogger()))

		tests := []struct {
			name string
			opts []PageFetchStepOption
			want []string
		}{
			{"default", nil, []string{"#000"}},
			{"enabled", []PageFetchStepOption{WithStyleElements(true)}, []string{"#000", "#abcdef"}},
		}

		for _, tt := range tests {
			p := WebsitePipeline(fetcher, []Option{WithLogger(quietLogger())}, tt.opts...)
			analysis := model.NewAnalysis(server.URL, model.KindWebsite)
			if err := p.Execute(context.Background(), analysis); err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.name, err)
			}
			got := analysis.Report.Colors()
			if len(got) != len(tt.want) {
				t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
			}
			for i := range tt.want {
				if string(got[i]) != tt.want[i] {
					t.Errorf("%s: color %d: expected %s, got %s", tt.name, i, tt.want[i], got[i])
				}
			}
		}
	})
}

func writePNG(t *testing.T, dir string, c color.NRGBA) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.SetNRGBA(x, y, c)
		}
	}

	path := filepath.Join(dir, "solid.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestImagePipeline(t *testing.T) {
	t.Parallel()

	t.Run("scores dominant colors", func(t *testing.T) {
		t.Parallel()

		path := writePNG(t, t.TempDir(), color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
		p := ImagePipeline(palette.NewExtractor(), WithLogger(quietLogger()))

		analysis := model.NewAnalysis(path, model.KindImage)
		if err := p.Execute(context.Background(), analysis); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if analysis.Image == nil || analysis.Image.Format != "png" {
			t.Errorf("unexpected image info %+v", analysis.Image)
		}
		if len(analysis.Palette) != 1 || analysis.Palette[0].Color != "#ffffff" {
			t.Errorf("unexpected palette %v", analysis.Palette)
		}
		if math.Abs(analysis.Report.TotalScore-100) > 1e-9 {
			t.Errorf("expected total 100, got %v", analysis.Report.TotalScore)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		p := ImagePipeline(nil, WithLogger(quietLogger()))
		analysis := model.NewAnalysis(filepath.Join(t.TempDir(), "none.png"), model.KindImage)
		if err := p.Execute(context.Background(), analysis); err == nil {
			t.Error("expected error for missing file")
		}
		if analysis.Report != nil {
			t.Error("expected no report")
		}
	})

	t.Run("not an image", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "style.css")
		if err := os.WriteFile(path, []byte("body { color: #fff }"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		p := ImagePipeline(nil, WithLogger(quietLogger()))
		err := p.Execute(context.Background(), model.NewAnalysis(path, model.KindImage))
		if !errors.Is(err, palette.ErrUnsupportedImage) {
			t.Errorf("expected ErrUnsupportedImage, got %v", err)
		}
	})
}
