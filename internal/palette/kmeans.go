package palette

import (
	"errors"
	"image"

	"github.com/EdlinOrg/prominentcolor"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
)

// errNoClusters is returned when k-means yields nothing usable.
var errNoClusters = errors.New("k-means returned no clusters")

// kmeans clusters the sample with prominentcolor. The sample is already
// resized, so cropping is disabled and the resize bound is the sample
// width. Background masks are not applied: every pixel counts.
func kmeans(img *image.NRGBA, k int) ([]Swatch, error) {
	items, err := prominentcolor.KmeansWithAll(
		k,
		img,
		prominentcolor.ArgumentNoCropping|prominentcolor.ArgumentAverageMean,
		uint(img.Bounds().Dx()),
		nil,
	)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errNoClusters
	}

	swatches := make([]Swatch, 0, len(items))
	for _, item := range items {
		swatches = append(swatches, Swatch{
			Color:      hexcolor.FromInts(int(item.Color.R), int(item.Color.G), int(item.Color.B)),
			Population: item.Cnt,
		})
	}
	return swatches, nil
}
