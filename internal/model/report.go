package model

import (
	"github.com/nao1215/colorcarbon/internal/hexcolor"
)

// ColorSample pairs one distinct color with its carbon intensity in [0,1].
type ColorSample struct {
	// Color is the token the intensity was computed for.
	Color hexcolor.Token `json:"color"`

	// CarbonIntensity is the heuristic score in [0.10, 1.0].
	CarbonIntensity float64 `json:"carbon_intensity"`
}

// Score returns the sample intensity on the 0-100 scale.
func (s ColorSample) Score() float64 {
	return s.CarbonIntensity * 100
}

// Rating returns the band the sample alone would fall into.
func (s ColorSample) Rating() Rating {
	return RatingFor(s.Score())
}

// Report is the result of scoring one set of colors.
// It is created once per analysis and never mutated afterwards.
type Report struct {
	// Samples holds one entry per distinct color, sorted by color.
	Samples []ColorSample `json:"samples"`

	// TotalScore is mean(CarbonIntensity) x 100, in [10, 100].
	TotalScore float64 `json:"total_score"`

	// Rating is the band of TotalScore.
	Rating Rating `json:"rating"`

	// Fingerprint identifies the color set independently of scores.
	// Two reports with the same colors share a fingerprint.
	Fingerprint string `json:"fingerprint"`
}

// ColorCount returns the number of distinct colors scored.
func (r *Report) ColorCount() int {
	return len(r.Samples)
}

// Colors returns the scored colors in sample order.
func (r *Report) Colors() []hexcolor.Token {
	colors := make([]hexcolor.Token, len(r.Samples))
	for i, s := range r.Samples {
		colors[i] = s.Color
	}
	return colors
}

// CountByRating tallies samples per individual rating band.
func (r *Report) CountByRating() map[Rating]int {
	counts := make(map[Rating]int, len(AllRatings))
	for _, s := range r.Samples {
		counts[s.Rating()]++
	}
	return counts
}
