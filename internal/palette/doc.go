// Package palette reduces a raster image to a small set of dominant
// colors.
//
// Extraction runs in three stages:
//  1. The image is resampled to a fixed sample size (200x200 by default)
//     with golang.org/x/image/draw.ApproxBiLinear. The sample size only
//     bounds the work; it does not limit which colors can be found.
//  2. Alpha is dropped; every sample pixel counts as an RGB color.
//  3. The sample is quantized to at most MaxColors entries, either by
//     median cut (default) or by k-means via prominentcolor.
//
// Swatches come back most dominant first and are unique by value: two
// clusters that quantize to the same color are merged.
//
//	p, err := palette.NewExtractor(palette.WithMaxColors(8)).Extract(img)
//	for _, s := range p.Swatches {
//	    fmt.Println(s.Color, s.Population)
//	}
package palette
