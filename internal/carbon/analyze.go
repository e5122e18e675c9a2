package carbon

import (
	"image"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
	"github.com/nao1215/colorcarbon/internal/model"
	"github.com/nao1215/colorcarbon/internal/palette"
)

// AnalyzeWebsiteColors scores the colors found in CSS text fragments such
// as concatenated style attributes and stylesheet bodies. Malformed
// fragments contribute fewer colors; ErrNoColors is returned when none
// contain a valid color.
func AnalyzeWebsiteColors(cssFragments []string) (*model.Report, error) {
	return Aggregate(hexcolor.ExtractAll(cssFragments...))
}

// AnalyzeImageColors scores up to maxColors dominant colors of img using
// the default median-cut extractor.
func AnalyzeImageColors(img image.Image, maxColors int) (*model.Report, error) {
	p, err := palette.NewExtractor(palette.WithMaxColors(maxColors)).Extract(img)
	if err != nil {
		return nil, err
	}
	return Aggregate(p.Tokens())
}
