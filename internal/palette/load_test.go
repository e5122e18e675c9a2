package palette

import (
	"bytes"
	"errors"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("decodes png", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := png.Encode(&buf, solidImage(12, 7, color.NRGBA{R: 1, G: 2, B: 3, A: 0xff})); err != nil {
			t.Fatalf("failed to encode png: %v", err)
		}

		src, err := Load(&buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if src.Info.Format != "png" {
			t.Errorf("expected format png, got %q", src.Info.Format)
		}
		if src.Info.Width != 12 || src.Info.Height != 7 {
			t.Errorf("expected 12x7, got %dx%d", src.Info.Width, src.Info.Height)
		}
		if len(src.Info.Metadata) != 0 {
			t.Errorf("expected no metadata, got %v", src.Info.Metadata)
		}
	})

	t.Run("decodes jpeg", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, solidImage(16, 16, color.NRGBA{R: 200, A: 0xff}), nil); err != nil {
			t.Fatalf("failed to encode jpeg: %v", err)
		}

		src, err := Load(&buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if src.Info.Format != "jpeg" {
			t.Errorf("expected format jpeg, got %q", src.Info.Format)
		}
	})

	t.Run("rejects non-image data", func(t *testing.T) {
		t.Parallel()

		_, err := Load(strings.NewReader("body { color: #fff }"))
		if !errors.Is(err, ErrUnsupportedImage) {
			t.Errorf("expected ErrUnsupportedImage, got %v", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads image from disk", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "logo.png")
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
		if err := png.Encode(f, solidImage(3, 3, color.NRGBA{G: 0xff, A: 0xff})); err != nil {
			t.Fatalf("failed to encode png: %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("failed to close file: %v", err)
		}

		src, err := LoadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		p, err := NewExtractor().Extract(src.Image)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := p.Tokens(); len(got) != 1 || got[0] != "#00ff00" {
			t.Errorf("expected [#00ff00], got %v", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
