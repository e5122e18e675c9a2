package palette

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sort"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
)

// Defaults for Extractor.
const (
	DefaultMaxColors    = 12
	DefaultSampleWidth  = 200
	DefaultSampleHeight = 200
)

// Method selects the quantization algorithm.
type Method string

const (
	// MethodMedianCut splits the color histogram at population medians.
	MethodMedianCut Method = "median-cut"

	// MethodKMeans clusters pixels with k-means (prominentcolor).
	MethodKMeans Method = "kmeans"
)

var (
	// ErrEmptyImage is returned for nil or zero-area images.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrInvalidMaxColors is returned when fewer than one color is requested.
	ErrInvalidMaxColors = errors.New("max colors must be at least 1")

	// ErrUnknownMethod is returned for an unsupported quantization method.
	ErrUnknownMethod = errors.New("unknown quantization method")
)

// ParseMethod converts a flag or config value into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodMedianCut, "":
		return MethodMedianCut, nil
	case MethodKMeans:
		return MethodKMeans, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// Swatch is one dominant color and the number of sample pixels it covers.
type Swatch struct {
	Color      hexcolor.Token
	Population int
}

// Palette is the ordered result of an extraction, most dominant first.
type Palette struct {
	Swatches []Swatch
}

// Tokens returns the swatch colors in dominance order.
func (p *Palette) Tokens() []hexcolor.Token {
	tokens := make([]hexcolor.Token, len(p.Swatches))
	for i, s := range p.Swatches {
		tokens[i] = s.Color
	}
	return tokens
}

// Extractor finds dominant colors of images.
// An Extractor holds no per-image state and is safe for concurrent use.
type Extractor struct {
	maxColors    int
	sampleWidth  int
	sampleHeight int
	method       Method
	logger       *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxColors sets the maximum palette size.
func WithMaxColors(n int) Option {
	return func(e *Extractor) {
		e.maxColors = n
	}
}

// WithSampleSize sets the resampling target. Non-positive values keep
// the default.
func WithSampleSize(width, height int) Option {
	return func(e *Extractor) {
		if width > 0 {
			e.sampleWidth = width
		}
		if height > 0 {
			e.sampleHeight = height
		}
	}
}

// WithMethod sets the quantization method.
func WithMethod(m Method) Option {
	return func(e *Extractor) {
		e.method = m
	}
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an Extractor with median cut, 12 colors and a
// 200x200 sample.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		maxColors:    DefaultMaxColors,
		sampleWidth:  DefaultSampleWidth,
		sampleHeight: DefaultSampleHeight,
		method:       MethodMedianCut,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract returns up to MaxColors distinct dominant colors of img.
func (e *Extractor) Extract(img image.Image) (*Palette, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if e.maxColors < 1 {
		return nil, ErrInvalidMaxColors
	}

	sample := resample(img, e.sampleWidth, e.sampleHeight)

	var swatches []Swatch
	switch e.method {
	case MethodMedianCut:
		swatches = medianCut(sample, e.maxColors)
	case MethodKMeans:
		var err error
		swatches, err = kmeans(sample, e.maxColors)
		if err != nil {
			e.logger.Warn("k-means quantization failed, falling back to median cut", "error", err)
			swatches = medianCut(sample, e.maxColors)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, e.method)
	}

	swatches = mergeSwatches(swatches)
	if len(swatches) > e.maxColors {
		swatches = swatches[:e.maxColors]
	}

	return &Palette{Swatches: swatches}, nil
}

// mergeSwatches folds swatches with the same color together and sorts the
// result by descending population. Ties are broken by color so that the
// order is deterministic.
func mergeSwatches(swatches []Swatch) []Swatch {
	index := make(map[hexcolor.Token]int, len(swatches))
	merged := make([]Swatch, 0, len(swatches))
	for _, s := range swatches {
		if i, ok := index[s.Color]; ok {
			merged[i].Population += s.Population
			continue
		}
		index[s.Color] = len(merged)
		merged = append(merged, s)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Population != merged[j].Population {
			return merged[i].Population > merged[j].Population
		}
		return merged[i].Color < merged[j].Color
	})

	return merged
}
