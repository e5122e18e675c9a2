package hexcolor

import (
	"math"
	"strconv"
	"strings"
)

// BT.709 luminance weights.
const (
	weightRed   = 0.2126
	weightGreen = 0.7152
	weightBlue  = 0.0722
)

// srgbThreshold is the breakpoint of the sRGB transfer function used by
// WCAG 2.x relative luminance.
const srgbThreshold = 0.03928

// Channels parses a raw token into its 8-bit channels. Surrounding
// whitespace and the leading '#' are ignored; shorthand is expanded.
// ok is false when the remaining text is not 3 or 6 hex digits.
func Channels(raw string) (r, g, b uint8, ok bool) {
	digits := strings.TrimPrefix(strings.TrimSpace(raw), "#")

	switch len(digits) {
	case 3:
		digits = expandDigits(digits)
	case 6:
	default:
		return 0, 0, 0, false
	}

	var out [3]uint8
	for i := range out {
		v, err := strconv.ParseUint(digits[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, false
		}
		out[i] = uint8(v)
	}

	return out[0], out[1], out[2], true
}

// Linear returns the linear-light value of an 8-bit sRGB channel.
func Linear(channel uint8) float64 {
	c := float64(channel) / 255
	if c <= srgbThreshold {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// Luminance returns the relative luminance of raw in [0,1].
// Unparseable input yields 0.
func Luminance(raw string) float64 {
	r, g, b, ok := Channels(raw)
	if !ok {
		return 0
	}
	l := weightRed*Linear(r) + weightGreen*Linear(g) + weightBlue*Linear(b)
	return math.Min(math.Max(l, 0), 1)
}

// BlueChannel returns the normalized blue channel of raw in [0,1].
// Unparseable input yields 0.
func BlueChannel(raw string) float64 {
	_, _, b, ok := Channels(raw)
	if !ok {
		return 0
	}
	return float64(b) / 255
}
