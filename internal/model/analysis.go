package model

import (
	"time"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
)

// Kind identifies what an analysis was run against.
type Kind string

const (
	// KindWebsite analyzes CSS colors of a web page.
	KindWebsite Kind = "website"

	// KindImage analyzes dominant colors of a raster image.
	KindImage Kind = "image"
)

// StylesheetResult records the outcome of fetching one linked stylesheet.
type StylesheetResult struct {
	// URL is the absolute stylesheet URL.
	URL string `json:"url"`

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int `json:"status_code,omitempty"`

	// Colors is the number of distinct colors the stylesheet contributed.
	Colors int `json:"colors"`

	// Error describes why the stylesheet was skipped.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the stylesheet was skipped.
func (s StylesheetResult) Failed() bool {
	return s.Error != ""
}

// PaletteEntry is one dominant color of an image with its pixel share.
type PaletteEntry struct {
	Color      hexcolor.Token `json:"color"`
	Population int            `json:"population"`
}

// ImageInfo describes the decoded image of an image analysis.
type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Metadata holds selected EXIF tags (camera, software) when present.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Analysis is the working state of a single website or image analysis.
// Pipeline steps fill it in order; writers and the history store read it.
type Analysis struct {
	// Source is the page URL or image path.
	Source string `json:"source"`

	// Kind is website or image.
	Kind Kind `json:"kind"`

	// DateAnalyzed is when the analysis started.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// Page is the fetched root page (website analyses only).
	Page *Page `json:"page,omitempty"`

	// InlineCSS holds style attribute values and, when enabled, <style>
	// element text.
	InlineCSS []string `json:"-"`

	// StylesheetURLs are the linked stylesheets discovered on the page.
	StylesheetURLs []string `json:"stylesheet_urls,omitempty"`

	// StylesheetCSS holds the bodies of successfully fetched stylesheets.
	StylesheetCSS []string `json:"-"`

	// Stylesheets records the outcome of every stylesheet fetch.
	Stylesheets []StylesheetResult `json:"stylesheets,omitempty"`

	// Image describes the decoded image (image analyses only).
	Image *ImageInfo `json:"image,omitempty"`

	// Palette lists dominant image colors, most dominant first.
	Palette []PaletteEntry `json:"palette,omitempty"`

	// Colors is the deduplicated color set handed to scoring.
	Colors []hexcolor.Token `json:"colors,omitempty"`

	// Report is the scored result. Nil when the analysis failed or found
	// no colors.
	Report *Report `json:"report,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Empty is true when no valid color was found anywhere.
	Empty bool `json:"empty"`

	// TimedOut is true when the analysis was cancelled.
	TimedOut bool `json:"timed_out"`

	// Error is the terminal error, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewAnalysis creates an analysis for the given source.
func NewAnalysis(source string, kind Kind) *Analysis {
	return &Analysis{
		Source:       source,
		Kind:         kind,
		DateAnalyzed: time.Now(),
	}
}

// CSSFragments returns every CSS text blob gathered so far, inline first.
func (a *Analysis) CSSFragments() []string {
	fragments := make([]string, 0, len(a.InlineCSS)+len(a.StylesheetCSS))
	fragments = append(fragments, a.InlineCSS...)
	fragments = append(fragments, a.StylesheetCSS...)
	return fragments
}

// StylesheetsFailed returns how many linked stylesheets were skipped.
func (a *Analysis) StylesheetsFailed() int {
	n := 0
	for _, s := range a.Stylesheets {
		if s.Failed() {
			n++
		}
	}
	return n
}

// SetError records a terminal error.
func (a *Analysis) SetError(err error) {
	a.Error = err
	if err != nil {
		a.ErrorMessage = err.Error()
	}
}

// Succeeded reports whether a report was produced.
func (a *Analysis) Succeeded() bool {
	return a.Report != nil && a.Error == nil
}
