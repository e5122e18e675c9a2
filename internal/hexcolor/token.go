package hexcolor

import (
	"fmt"
	"strings"
)

// Token is a normalized hex color such as "#fff" or "#1a2b3c".
type Token string

// Shorthand and full token lengths, including the leading '#'.
const (
	shortLength = 4
	fullLength  = 7
)

// FromRGB formats an 8-bit triple as a 6-digit token.
func FromRGB(r, g, b uint8) Token {
	return Token(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

// FromInts formats an integer triple as a 6-digit token.
// Components outside [0,255] are clamped first, so the result is always
// a well-formed token.
func FromInts(r, g, b int) Token {
	return FromRGB(clampChannel(r), clampChannel(g), clampChannel(b))
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return string(t)
}

// Valid reports whether t has the '#' marker followed by exactly 3 or 6
// hex digits.
func (t Token) Valid() bool {
	s := string(t)
	if len(s) != shortLength && len(s) != fullLength {
		return false
	}
	if s[0] != '#' {
		return false
	}
	return isHexDigits(s[1:])
}

// Expand returns the 6-digit form of t. Shorthand digits are doubled
// ("#abc" -> "#aabbcc"). Invalid tokens are returned unchanged.
func (t Token) Expand() Token {
	if !t.Valid() || len(t) == fullLength {
		return t
	}
	return Token("#" + expandDigits(string(t[1:])))
}

// normalize lowercases a raw hex match so that "#FFF" and "#fff" are the
// same value.
func normalize(raw string) Token {
	return Token(strings.ToLower(strings.TrimSpace(raw)))
}

func expandDigits(digits string) string {
	var sb strings.Builder
	sb.Grow(len(digits) * 2)
	for i := 0; i < len(digits); i++ {
		sb.WriteByte(digits[i])
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

func isHexDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func clampChannel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
