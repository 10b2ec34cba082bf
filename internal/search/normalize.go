// Package search folds display names into the keys used for name lookups.
package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// U+0300..U+036F, the combining diacritical marks block.
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// The ECMAScript WhiteSpace and LineTerminator set. It differs from unicode.IsSpace:
// U+FEFF is in, U+0085 is out.
var whitespace = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0009, Hi: 0x000d, Stride: 1},
		{Lo: 0x0020, Hi: 0x0020, Stride: 1},
		{Lo: 0x00a0, Hi: 0x00a0, Stride: 1},
		{Lo: 0x1680, Hi: 0x1680, Stride: 1},
		{Lo: 0x2000, Hi: 0x200a, Stride: 1},
		{Lo: 0x2028, Hi: 0x2029, Stride: 1},
		{Lo: 0x202f, Hi: 0x202f, Stride: 1},
		{Lo: 0x205f, Hi: 0x205f, Stride: 1},
		{Lo: 0x3000, Hi: 0x3000, Stride: 1},
		{Lo: 0xfeff, Hi: 0xfeff, Stride: 1},
	},
	LatinOffset: 3,
}

func isWhitespace(r rune) bool {
	return unicode.Is(whitespace, r)
}

// Normalize lower-cases input with the root-locale mapping (final sigma becomes ς),
// drops its first whitespace character (only the first), decomposes it to NFD and
// strips combining diacritical marks.
func Normalize(input string) string {
	// a Caser keeps state, one per call
	s := cases.Lower(language.Und).String(input)

	if i := strings.IndexFunc(s, isWhitespace); i >= 0 {
		_, size := utf8.DecodeRuneInString(s[i:])
		s = s[:i] + s[i+size:]
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningMarks)))

	out, _, err := transform.String(t, s)
	if err != nil {
		// transform only fails on invalid state; fall back to the lower-cased input
		return s
	}

	return out
}

// Tokens splits a query on single spaces and normalizes each part. Parts that
// normalize to "" are dropped, so a blank query yields no tokens.
func Tokens(query string) []string {
	parts := strings.Split(query, " ")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		key := Normalize(p)
		if key == "" {
			continue
		}
		out = append(out, key)
	}

	return out
}
