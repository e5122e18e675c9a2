package carbon

import (
	"encoding/hex"
	"errors"
	"sort"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
	"github.com/nao1215/colorcarbon/internal/model"
)

// ErrNoColors is returned when there is no color to score. Callers should
// report it as "nothing to analyze" rather than as a score.
var ErrNoColors = errors.New("no valid colors found")

// fingerprintLength is the number of hex characters kept from the digest.
const fingerprintLength = 16

// Aggregate scores every distinct token and averages the intensities.
// Repeated tokens count once, so each color weighs the same regardless of
// how often it appeared. Samples are sorted by color.
func Aggregate(tokens []hexcolor.Token) (*model.Report, error) {
	unique := hexcolor.Dedupe(tokens)
	if len(unique) == 0 {
		return nil, ErrNoColors
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i] < unique[j]
	})

	samples := make([]model.ColorSample, len(unique))
	var sum float64
	for i, tok := range unique {
		intensity := Intensity(tok)
		samples[i] = model.ColorSample{Color: tok, CarbonIntensity: intensity}
		sum += intensity
	}

	total := sum / float64(len(samples)) * 100

	return &model.Report{
		Samples:     samples,
		TotalScore:  total,
		Rating:      model.RatingFor(total),
		Fingerprint: Fingerprint(unique),
	}, nil
}

// Fingerprint returns a short SHA3-256 digest of the color set. Order and
// repetition do not affect the result.
func Fingerprint(tokens []hexcolor.Token) string {
	unique := hexcolor.Dedupe(tokens)
	names := make([]string, len(unique))
	for i, tok := range unique {
		names[i] = string(tok)
	}
	sort.Strings(names)

	sum := sha3.Sum256([]byte(strings.Join(names, ",")))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
