package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/colorcarbon/internal/carbon"
	"github.com/nao1215/colorcarbon/internal/crawler"
	"github.com/nao1215/colorcarbon/internal/model"
)

// User-facing outcome messages.
const (
	MessageFetchFailed = "Failed to fetch the website."
	MessageNoCSSColors = "No valid CSS colors found."
	MessageNoImageData = "No colors found in the image."
	MessageTimedOut    = "Analysis timed out."
)

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same
// API.
type Writer interface {
	// Write outputs the analysis to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(analysis *model.Analysis) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the analysis to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(analysis *model.Analysis) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(analysis)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// RatingLabel returns the title-cased rating name ("Very High").
func RatingLabel(r model.Rating) string {
	return cases.Title(language.English).String(strings.ToLower(r.String()))
}

// FormatScore renders a 0-100 score with one decimal.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// StatusMessage returns the one-line outcome shown to users, or "" when
// the analysis produced a report.
func StatusMessage(analysis *model.Analysis) string {
	switch {
	case analysis.TimedOut:
		return MessageTimedOut
	case analysis.Empty:
		if analysis.Kind == model.KindImage {
			return MessageNoImageData
		}
		return MessageNoCSSColors
	case errors.Is(analysis.Error, crawler.ErrFetchFailed):
		return MessageFetchFailed
	case errors.Is(analysis.Error, carbon.ErrNoColors):
		return MessageNoCSSColors
	case analysis.Error != nil:
		return analysis.Error.Error()
	case analysis.ErrorMessage != "":
		return analysis.ErrorMessage
	case analysis.Report == nil:
		return "No report available."
	default:
		return ""
	}
}

// populationShare returns a swatch's share of all sampled pixels in percent.
func populationShare(entries []model.PaletteEntry, population int) float64 {
	total := 0
	for _, e := range entries {
		total += e.Population
	}
	if total == 0 {
		return 0
	}
	return float64(population) / float64(total) * 100
}
