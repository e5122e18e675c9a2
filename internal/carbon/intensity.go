package carbon

import (
	"math"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
)

// Intensity weights. The baseline keeps pure black above zero.
const (
	luminanceWeight = 0.65
	blueWeight      = 0.25
	baseline        = 0.10
	maxIntensity    = 1.0
)

// MinIntensity is the lowest score any color can get.
const MinIntensity = baseline

// Intensity returns the carbon intensity of a color token in
// [MinIntensity, 1]. Unparseable tokens score as black.
func Intensity(tok hexcolor.Token) float64 {
	raw := string(tok)
	score := luminanceWeight*hexcolor.Luminance(raw) +
		blueWeight*hexcolor.BlueChannel(raw) +
		baseline
	return math.Min(score, maxIntensity)
}
