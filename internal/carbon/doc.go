// Package carbon turns color tokens into a relative "digital carbon"
// score.
//
// Each distinct color gets a carbon intensity in [0.10, 1.0] from its
// relative luminance and blue channel. A Report averages the intensities
// of all distinct colors and scales the mean to a 0-100 score. The score
// is a deterministic heuristic for comparing palettes; it is not a
// physical energy measurement.
//
// Two entry points cover the supported inputs:
//
//	report, err := carbon.AnalyzeWebsiteColors(cssFragments)
//	report, err := carbon.AnalyzeImageColors(img, 12)
//
// Both return ErrNoColors when there is nothing to score.
package carbon
