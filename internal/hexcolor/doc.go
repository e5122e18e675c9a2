// Package hexcolor extracts color tokens from CSS-like text and converts
// them to linear-light channels and relative luminance.
//
// A Token is a lowercase hex string with a leading '#' and either 3 or 6
// hex digits. Tokens are plain values: two tokens are the same color when
// their strings are equal.
//
// # Parsing
//
// Extract scans untrusted text and never fails. Each candidate match is
// validated on its own and discarded when malformed:
//
//	tokens := hexcolor.Extract("color:#fff; background: rgb(0,0,0);")
//	// tokens == []Token{"#000000", "#fff"}
//
// # Luminance
//
// Luminance follows the sRGB transfer function and BT.709 weights:
//
//	l := hexcolor.Luminance("#aabbcc")
package hexcolor
