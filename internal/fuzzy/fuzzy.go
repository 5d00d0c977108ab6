// Package fuzzy wraps go-difflib's SequenceMatcher for character-level
// similarity ratios between short strings (merchant tokens, mapping patterns).
package fuzzy

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// Ratio returns the SequenceMatcher similarity of two strings in [0, 1].
// Comparison is case-sensitive; callers normalize first.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

// NormalizedRatio lower-cases, strips punctuation and common banking noise
// words from both strings before comparing.
func NormalizedRatio(a, b string) float64 {
	return Ratio(Normalize(a), Normalize(b))
}

// Normalize prepares free text for matching: lower-case, punctuation and
// banking filler words removed, whitespace collapsed.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWord.ReplaceAllString(text, "")
	for _, term := range []string{"checkcard", "debit", "card", "pos", "purchase", "payment"} {
		text = strings.ReplaceAll(text, term, "")
	}
	return strings.Join(strings.Fields(text), " ")
}

func chars(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}
