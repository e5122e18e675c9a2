package model

import (
	"slices"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
)

// ReportDiff describes how a color report changed between two analyses.
type ReportDiff struct {
	// ScoreBefore and ScoreAfter are the total scores being compared.
	ScoreBefore float64 `json:"score_before"`
	ScoreAfter  float64 `json:"score_after"`

	// RatingBefore and RatingAfter are the corresponding bands.
	RatingBefore Rating `json:"rating_before"`
	RatingAfter  Rating `json:"rating_after"`

	// Added lists colors present only in the newer report, sorted.
	Added []hexcolor.Token `json:"added"`

	// Removed lists colors present only in the older report, sorted.
	Removed []hexcolor.Token `json:"removed"`

	// SamePalette is true when both reports share a fingerprint.
	SamePalette bool `json:"same_palette"`
}

// ScoreDelta returns ScoreAfter - ScoreBefore. Negative means the palette
// became less carbon intensive.
func (d *ReportDiff) ScoreDelta() float64 {
	return d.ScoreAfter - d.ScoreBefore
}

// RatingChanged reports whether the band moved.
func (d *ReportDiff) RatingChanged() bool {
	return d.RatingBefore != d.RatingAfter
}

// CompareReports returns the difference from before to after.
// Both reports must be non-nil.
func CompareReports(before, after *Report) *ReportDiff {
	beforeSet := make(map[hexcolor.Token]struct{}, len(before.Samples))
	for _, s := range before.Samples {
		beforeSet[s.Color] = struct{}{}
	}
	afterSet := make(map[hexcolor.Token]struct{}, len(after.Samples))
	for _, s := range after.Samples {
		afterSet[s.Color] = struct{}{}
	}

	added := make([]hexcolor.Token, 0)
	for c := range afterSet {
		if _, ok := beforeSet[c]; !ok {
			added = append(added, c)
		}
	}
	removed := make([]hexcolor.Token, 0)
	for c := range beforeSet {
		if _, ok := afterSet[c]; !ok {
			removed = append(removed, c)
		}
	}
	slices.Sort(added)
	slices.Sort(removed)

	return &ReportDiff{
		ScoreBefore:  before.TotalScore,
		ScoreAfter:   after.TotalScore,
		RatingBefore: before.Rating,
		RatingAfter:  after.Rating,
		Added:        added,
		Removed:      removed,
		SamePalette:  before.Fingerprint != "" && before.Fingerprint == after.Fingerprint,
	}
}
