// Package enrich resolves transaction descriptions to merchant names and
// standardized categories using the mapping tables, fuzzy matching, and the
// taxonomy keyword fallback.
package enrich

import (
	"regexp"
	"strings"
)

var (
	// bankingPrefix strips the transaction-channel noise banks prepend to
	// descriptions. Applied repeatedly: "CHECKCARD POS STARBUCKS" carries two.
	bankingPrefix = regexp.MustCompile(`(?i)^(?:checkcard|debit\s*card|credit\s*card|pos|ach)\b\s*`)
	// refMarker removes labelled reference fields wherever they sit:
	// "DES:PAYROLL ID:123456789", "Conf# 987654".
	refMarker = regexp.MustCompile(`(?i)\b(?:id|des|ref|conf(?:irmation)?)\s*[:#]\s*`)
	// cardOrDate removes masked card numbers and embedded date fragments.
	cardOrDate = regexp.MustCompile(`\d{4}\s*\*+\s*\d{4}|\b\d{2}/\d{2}(?:/\d{2,4})?\b`)
	// digitRun removes card suffixes, store numbers and reference numbers.
	digitRun = regexp.MustCompile(`#?\d{3,}`)

	merchantWhitespace = regexp.MustCompile(`\s+`)
)

// maxMerchantTokens caps the extracted merchant to its leading tokens; the
// tail of a description is almost always location noise.
const maxMerchantTokens = 4

// ExtractMerchant reduces a raw description to a lower-cased merchant token
// for fuzzy matching: banking prefixes, card/date fragments and digit runs
// stripped, capped to the first four tokens.
func ExtractMerchant(description string) string {
	s := strings.ToLower(strings.TrimSpace(description))
	for {
		stripped := bankingPrefix.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}
	s = refMarker.ReplaceAllString(s, " ")
	s = cardOrDate.ReplaceAllString(s, " ")
	s = digitRun.ReplaceAllString(s, " ")
	tokens := strings.Fields(merchantWhitespace.ReplaceAllString(s, " "))
	if len(tokens) > maxMerchantTokens {
		tokens = tokens[:maxMerchantTokens]
	}
	return strings.Join(tokens, " ")
}
