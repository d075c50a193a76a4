// Package normalize derives the denormalized search key used for
// case- and diacritic-insensitive prefix queries over the store's
// lexicographically ordered index keys.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength caps the search key so it stays a reasonable index value.
const DefaultMaxLength = 500

// SearchText converts arbitrary Unicode text into the search key with the
// default length cap. See SearchTextN.
func SearchText(text string) string {
	return SearchTextN(text, DefaultMaxLength)
}

// SearchTextN trims, lowercases, strips combining diacritical marks, and
// truncates to maxLength runes, so "Café", "Zürich" and "São Paulo" become
// "cafe", "zurich" and "sao paulo". Whitespace-only input yields "".
// The function is pure and idempotent.
func SearchTextN(text string, maxLength int) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}

	// Decompose accented characters, then drop the combining marks.
	s = norm.NFD.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)

	if maxLength > 0 {
		if runes := []rune(s); len(runes) > maxLength {
			s = string(runes[:maxLength])
		}
	}
	return s
}
