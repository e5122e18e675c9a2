package hexcolor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// hexPattern matches '#' followed by one to six hex digits. Longer runs are
// cut at six digits by the greedy match, the same way a browser-agnostic
// scanner would see "#ffffffaa" as "#ffffff".
var hexPattern = regexp.MustCompile(`#[0-9A-Fa-f]{1,6}`)

// rgbPattern captures the argument list of an rgb() function. rgba() and
// the space-separated CSS Color 4 syntax are not recognized.
var rgbPattern = regexp.MustCompile(`rgb\((.*?)\)`)

// Extract returns the distinct valid color tokens found in text, sorted.
//
// Hex matches whose length (including '#') is neither 4 nor 7 are dropped.
// rgb() matches must have exactly three base-10 integer components;
// anything else is dropped. Out-of-range components are clamped to
// [0,255]. Extract never fails: malformed input yields fewer tokens.
func Extract(text string) []Token {
	seen := make(map[Token]struct{})

	for _, raw := range hexPattern.FindAllString(text, -1) {
		if tok, ok := parseHex(raw); ok {
			seen[tok] = struct{}{}
		}
	}

	for _, m := range rgbPattern.FindAllStringSubmatch(text, -1) {
		if tok, ok := parseRGB(m[1]); ok {
			seen[tok] = struct{}{}
		}
	}

	return sortedTokens(seen)
}

// ExtractAll unions the tokens of every fragment.
func ExtractAll(fragments ...string) []Token {
	seen := make(map[Token]struct{})
	for _, fragment := range fragments {
		for _, tok := range Extract(fragment) {
			seen[tok] = struct{}{}
		}
	}
	return sortedTokens(seen)
}

// Dedupe removes repeated tokens, keeping the first occurrence of each.
func Dedupe(tokens []Token) []Token {
	seen := make(map[Token]struct{}, len(tokens))
	unique := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		unique = append(unique, tok)
	}
	return unique
}

func parseHex(raw string) (Token, bool) {
	tok := normalize(raw)
	if !tok.Valid() {
		return "", false
	}
	return tok, true
}

func parseRGB(args string) (Token, bool) {
	parts := strings.Split(args, ",")
	if len(parts) != 3 {
		return "", false
	}

	var channels [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return "", false
		}
		channels[i] = v
	}

	return FromInts(channels[0], channels[1], channels[2]), true
}

func sortedTokens(set map[Token]struct{}) []Token {
	tokens := make([]Token, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i] < tokens[j]
	})
	return tokens
}
