package model

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestRatingFor tests band boundaries.
func TestRatingFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  Rating
	}{
		{0, RatingVeryLow},
		{10, RatingVeryLow},
		{24.99, RatingVeryLow},
		{25, RatingModerate},
		{49.9, RatingModerate},
		{50, RatingHigh},
		{74.9, RatingHigh},
		{75, RatingVeryHigh},
		{100, RatingVeryHigh},
	}

	for _, tt := range tests {
		if got := RatingFor(tt.score); got != tt.want {
			t.Errorf("RatingFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

// TestRatingJSON tests that ratings serialize by name.
func TestRatingJSON(t *testing.T) {
	t.Parallel()

	for _, r := range AllRatings {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal %s: %v", r, err)
		}
		if string(data) != `"`+r.String()+`"` {
			t.Errorf("got %s for %s", data, r)
		}

		var back Rating
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != r {
			t.Errorf("round trip of %s gave %s", r, back)
		}
	}

	if Rating(99).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for out-of-range rating")
	}
}

// TestRatingUnmarshalUnknown tests that unknown names are rejected.
func TestRatingUnmarshalUnknown(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`"EXTREME"`, `"very low"`, `""`} {
		back := RatingHigh
		err := json.Unmarshal([]byte(input), &back)
		if !errors.Is(err, ErrUnknownRating) {
			t.Errorf("unmarshal %s: expected ErrUnknownRating, got %v", input, err)
		}
		if back != RatingHigh {
			t.Errorf("unmarshal %s: rating changed to %s", input, back)
		}
	}
}
