package model

import (
	"errors"
	"fmt"
)

// ErrUnknownRating is returned when decoding a rating name that is not one
// of AllRatings.
var ErrUnknownRating = errors.New("unknown rating")

// Rating is the coarse band a carbon score falls into.
type Rating int

const (
	// RatingVeryLow is a score below 25.
	RatingVeryLow Rating = iota

	// RatingModerate is a score in [25, 50).
	RatingModerate

	// RatingHigh is a score in [50, 75).
	RatingHigh

	// RatingVeryHigh is a score of 75 or more.
	RatingVeryHigh
)

// Band boundaries on the 0-100 score scale.
const (
	moderateFloor = 25.0
	highFloor     = 50.0
	veryHighFloor = 75.0
)

// AllRatings lists every rating from lowest to highest.
var AllRatings = []Rating{RatingVeryLow, RatingModerate, RatingHigh, RatingVeryHigh}

// RatingFor returns the band for a score on the 0-100 scale.
func RatingFor(score float64) Rating {
	switch {
	case score < moderateFloor:
		return RatingVeryLow
	case score < highFloor:
		return RatingModerate
	case score < veryHighFloor:
		return RatingHigh
	default:
		return RatingVeryHigh
	}
}

// String returns the upper-case band name.
func (r Rating) String() string {
	switch r {
	case RatingVeryLow:
		return "VERY LOW"
	case RatingModerate:
		return "MODERATE"
	case RatingHigh:
		return "HIGH"
	case RatingVeryHigh:
		return "VERY HIGH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so ratings appear as
// names in JSON reports.
func (r Rating) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Names other than
// those of AllRatings are rejected with ErrUnknownRating and leave r
// unchanged.
func (r *Rating) UnmarshalText(text []byte) error {
	for _, candidate := range AllRatings {
		if candidate.String() == string(text) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownRating, text)
}
