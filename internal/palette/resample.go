package palette

import (
	"image"

	"golang.org/x/image/draw"
)

// resample converts src to NRGBA and scales it to width x height.
// ApproxBiLinear is pinned so that extraction results are reproducible;
// a uniform region stays exactly the same color after scaling.
func resample(src image.Image, width, height int) *image.NRGBA {
	bounds := src.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), src, bounds.Min, draw.Src)

	if bounds.Dx() == width && bounds.Dy() == height {
		return flat
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), flat, flat.Bounds(), draw.Src, nil)
	return dst
}
