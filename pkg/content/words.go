package content

import (
	"fmt"
	"strings"
	"unicode"
)

// Words splits text into words: runs of Unicode letters and numbers, with
// apostrophes and hyphens kept when they sit between two word characters.
func Words(text string) []string {
	runes := []rune(text)
	var words []string
	start := -1

	isWord := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) }
	isJoiner := func(r rune) bool { return r == '\'' || r == '’' || r == '-' }

	for i, r := range runes {
		switch {
		case isWord(r):
			if start < 0 {
				start = i
			}
		case isJoiner(r) && start >= 0 && i+1 < len(runes) && isWord(runes[i+1]):
			// internal joiner, keep going
		default:
			if start >= 0 {
				words = append(words, string(runes[start:i]))
				start = -1
			}
		}
	}
	if start >= 0 {
		words = append(words, string(runes[start:]))
	}
	return words
}

// WordCount returns len(Words(text)).
func WordCount(text string) int {
	return len(Words(text))
}

// Normalize lower-cases text and joins its words with single spaces.
func Normalize(text string) string {
	words := Words(text)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, " ")
}

// Signature is a 32-bit base-31 polynomial rolling hash over the normalized
// text, hex encoded to eight characters.
func Signature(text string) string {
	var h uint32
	for _, r := range Normalize(text) {
		h = h*31 + uint32(r)
	}
	return fmt.Sprintf("%08x", h)
}

// normalizeHeading folds case and whitespace for duplicate comparisons.
func normalizeHeading(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
