package carbon

import (
	"errors"
	"math"
	"testing"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
	"github.com/nao1215/colorcarbon/internal/model"
)

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("empty set", func(t *testing.T) {
		t.Parallel()

		for _, tokens := range [][]hexcolor.Token{nil, {}} {
			report, err := Aggregate(tokens)
			if !errors.Is(err, ErrNoColors) {
				t.Errorf("expected ErrNoColors, got %v", err)
			}
			if report != nil {
				t.Errorf("expected nil report, got %+v", report)
			}
		}
	})

	t.Run("black and white", func(t *testing.T) {
		t.Parallel()

		report, err := Aggregate([]hexcolor.Token{"#ffffff", "#000000"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if math.Abs(report.TotalScore-55.0) > 1e-9 {
			t.Errorf("expected total 55, got %v", report.TotalScore)
		}
		if report.Rating != model.RatingHigh {
			t.Errorf("expected rating HIGH, got %s", report.Rating)
		}
		if report.ColorCount() != 2 {
			t.Fatalf("expected 2 samples, got %d", report.ColorCount())
		}
		if report.Samples[0].Color != "#000000" || report.Samples[1].Color != "#ffffff" {
			t.Errorf("samples not sorted by color: %v", report.Samples)
		}
	})

	t.Run("single black color", func(t *testing.T) {
		t.Parallel()

		report, err := Aggregate([]hexcolor.Token{"#000"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(report.TotalScore-10.0) > 1e-9 {
			t.Errorf("expected total 10, got %v", report.TotalScore)
		}
		if report.Rating != model.RatingVeryLow {
			t.Errorf("expected rating VERY LOW, got %s", report.Rating)
		}
	})

	t.Run("duplicates count once", func(t *testing.T) {
		t.Parallel()

		once, err := Aggregate([]hexcolor.Token{"#ffffff", "#000000"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		many, err := Aggregate([]hexcolor.Token{"#ffffff", "#ffffff", "#ffffff", "#000000"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if once.TotalScore != many.TotalScore {
			t.Errorf("duplicates changed the score: %v vs %v", once.TotalScore, many.TotalScore)
		}
		if many.ColorCount() != 2 {
			t.Errorf("expected 2 samples, got %d", many.ColorCount())
		}
	})

	t.Run("score within bounds", func(t *testing.T) {
		t.Parallel()

		report, err := Aggregate([]hexcolor.Token{"#123", "#abcdef", "#ff0000", "#00ff00", "#0000ff"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.TotalScore < 10 || report.TotalScore > 100 {
			t.Errorf("score %v out of [10,100]", report.TotalScore)
		}
		for _, s := range report.Samples {
			if s.CarbonIntensity < MinIntensity || s.CarbonIntensity > 1 {
				t.Errorf("sample %s intensity %v out of range", s.Color, s.CarbonIntensity)
			}
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		t.Parallel()

		in := []hexcolor.Token{"#fff", "#000", "#fff"}
		if _, err := Aggregate(in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in[0] != "#fff" || in[1] != "#000" || in[2] != "#fff" {
			t.Errorf("input was modified: %v", in)
		}
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := Fingerprint([]hexcolor.Token{"#fff", "#000", "#123456"})
	b := Fingerprint([]hexcolor.Token{"#123456", "#fff", "#000", "#fff"})
	c := Fingerprint([]hexcolor.Token{"#fff", "#000"})

	if a != b {
		t.Errorf("fingerprint depends on order or repetition: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("different color sets share fingerprint %s", a)
	}
	if len(a) != fingerprintLength {
		t.Errorf("expected %d characters, got %d", fingerprintLength, len(a))
	}
}
