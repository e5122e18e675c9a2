package palette

import (
	"image"
	"math"
	"sort"

	"github.com/nao1215/colorcarbon/internal/hexcolor"
)

// quantBits is the histogram resolution per channel. Bins only steer the
// box splits; swatch colors are averaged from the real pixel values.
const quantBits = 5

// colorBin is one histogram cell.
type colorBin struct {
	rq, gq, bq       uint8
	count            int
	rSum, gSum, bSum int
}

// colorBox is a set of bins bounded by per-axis min/max bin coordinates.
type colorBox struct {
	bins       []colorBin
	population int
	volume     int
	min, max   [3]uint8
}

// medianCut quantizes img to at most maxColors swatches.
func medianCut(img *image.NRGBA, maxColors int) []Swatch {
	bins := buildBins(img)
	if len(bins) == 0 {
		return nil
	}

	boxes := splitBoxes(bins, maxColors)
	swatches := make([]Swatch, 0, len(boxes))
	for _, box := range boxes {
		if box.population == 0 {
			continue
		}
		swatches = append(swatches, box.swatch())
	}
	return swatches
}

// buildBins builds the pixel histogram. Alpha is ignored.
func buildBins(img *image.NRGBA) []colorBin {
	const shift = 8 - quantBits
	size := 1 << (quantBits * 3)
	cells := make([]colorBin, size)

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[img.PixOffset(bounds.Min.X, y):]
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			rq, gq, bq := r>>shift, g>>shift, b>>shift
			idx := int(rq)<<(quantBits*2) | int(gq)<<quantBits | int(bq)

			cell := &cells[idx]
			cell.rq, cell.gq, cell.bq = rq, gq, bq
			cell.count++
			cell.rSum += int(r)
			cell.gSum += int(g)
			cell.bSum += int(b)
		}
	}

	bins := make([]colorBin, 0, 256)
	for _, cell := range cells {
		if cell.count > 0 {
			bins = append(bins, cell)
		}
	}
	return bins
}

// splitBoxes repeatedly splits the box with the highest
// population x log(volume) score until target boxes exist or nothing can
// be split.
func splitBoxes(bins []colorBin, target int) []colorBox {
	boxes := []colorBox{newColorBox(bins)}

	for len(boxes) < target {
		best := -1
		bestScore := -1.0
		for i, box := range boxes {
			if !box.canSplit() {
				continue
			}
			score := float64(box.population) * math.Log(float64(box.volume)+1)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}

		left, right, ok := boxes[best].split()
		if !ok {
			break
		}
		boxes[best] = left
		boxes = append(boxes, right)
	}

	return boxes
}

func newColorBox(bins []colorBin) colorBox {
	box := colorBox{bins: bins}
	if len(bins) == 0 {
		return box
	}

	box.min = [3]uint8{bins[0].rq, bins[0].gq, bins[0].bq}
	box.max = box.min
	for _, bin := range bins {
		box.population += bin.count
		for axis, v := range [3]uint8{bin.rq, bin.gq, bin.bq} {
			if v < box.min[axis] {
				box.min[axis] = v
			}
			if v > box.max[axis] {
				box.max[axis] = v
			}
		}
	}

	box.volume = 1
	for axis := range box.min {
		box.volume *= int(box.max[axis]-box.min[axis]) + 1
	}
	return box
}

func (b colorBox) canSplit() bool {
	return len(b.bins) > 1
}

// longestAxis returns 0, 1 or 2 for red, green or blue.
func (b colorBox) longestAxis() int {
	axis := 0
	for i := 1; i < 3; i++ {
		if b.max[i]-b.min[i] > b.max[axis]-b.min[axis] {
			axis = i
		}
	}
	return axis
}

// split cuts the box along its longest axis at the population median.
func (b colorBox) split() (colorBox, colorBox, bool) {
	if !b.canSplit() {
		return colorBox{}, colorBox{}, false
	}

	axis := b.longestAxis()
	ordered := append([]colorBin(nil), b.bins...)
	sort.Slice(ordered, func(i, j int) bool {
		vi, vj := ordered[i].axisValue(axis), ordered[j].axisValue(axis)
		if vi != vj {
			return vi < vj
		}
		return ordered[i].count > ordered[j].count
	})

	half := b.population / 2
	cumulative := 0
	cut := len(ordered) / 2
	for i, bin := range ordered {
		cumulative += bin.count
		if cumulative >= half {
			cut = i + 1
			break
		}
	}
	if cut <= 0 || cut >= len(ordered) {
		cut = len(ordered) / 2
	}

	return newColorBox(ordered[:cut]), newColorBox(ordered[cut:]), true
}

// swatch averages the real pixel values of every bin in the box.
func (b colorBox) swatch() Swatch {
	var r, g, bl int
	for _, bin := range b.bins {
		r += bin.rSum
		g += bin.gSum
		bl += bin.bSum
	}
	return Swatch{
		Color:      hexcolor.FromRGB(meanChannel(r, b.population), meanChannel(g, b.population), meanChannel(bl, b.population)),
		Population: b.population,
	}
}

func (c colorBin) axisValue(axis int) uint8 {
	switch axis {
	case 0:
		return c.rq
	case 1:
		return c.gq
	default:
		return c.bq
	}
}

func meanChannel(sum, count int) uint8 {
	if count == 0 {
		return 0
	}
	return uint8((sum + count/2) / count)
}
