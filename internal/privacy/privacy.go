// Package privacy scrubs personal details from transaction descriptions
// after categorization, so matching sees the full text but persisted output
// does not.
package privacy

import (
	"fmt"
	"regexp"
	"strings"

	"moneymapper/internal/fuzzy"
)

// placeholder replaces every redacted span.
const placeholder = "[REDACTED]"

// Redactor applies two passes: literal regex substitution, then fuzzy
// keyword matching over sliding token windows to catch misspelled or
// OCR-mangled occurrences.
type Redactor struct {
	patterns  []*regexp.Regexp
	keywords  [][]string
	threshold float64
}

// New compiles the redaction config. Patterns are regexes applied
// case-insensitively; keywords are matched fuzzily at or above threshold.
func New(patterns, keywords []string, threshold float64) (*Redactor, error) {
	r := &Redactor{threshold: threshold}
	for _, pattern := range patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("privacy pattern %q: %w", pattern, err)
		}
		r.patterns = append(r.patterns, re)
	}
	for _, keyword := range keywords {
		tokens := strings.Fields(strings.ToLower(keyword))
		if len(tokens) > 0 {
			r.keywords = append(r.keywords, tokens)
		}
	}
	return r, nil
}

// Redact returns text with every configured pattern and every fuzzy keyword
// hit replaced by the placeholder.
func (r *Redactor) Redact(text string) string {
	for _, re := range r.patterns {
		text = re.ReplaceAllString(text, placeholder)
	}
	if len(r.keywords) == 0 {
		return text
	}

	tokens := strings.Fields(text)
	redacted := make([]bool, len(tokens))
	for _, keyword := range r.keywords {
		target := strings.Join(keyword, " ")
		width := len(keyword)
		for i := 0; i+width <= len(tokens); i++ {
			window := strings.ToLower(strings.Join(tokens[i:i+width], " "))
			if fuzzy.Ratio(window, target) >= r.threshold {
				for j := i; j < i+width; j++ {
					redacted[j] = true
				}
			}
		}
	}

	var out []string
	for i, token := range tokens {
		if !redacted[i] {
			out = append(out, token)
			continue
		}
		// Collapse a redacted run into one placeholder.
		if i == 0 || !redacted[i-1] {
			out = append(out, placeholder)
		}
	}
	return strings.Join(out, " ")
}
