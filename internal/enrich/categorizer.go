package enrich

import (
	"strings"

	"moneymapper/internal/domain"
	"moneymapper/internal/fuzzy"
	"moneymapper/internal/mappings"
	"moneymapper/internal/taxonomy"
)

// Confidence scores per match step. Exact beats partial beats fuzzy beats
// containment beats keyword beats nothing; the ladder order enforces it.
const (
	confidenceExact       = 0.95
	confidencePartialBase = 0.85
	confidencePartialCap  = 0.95
	confidenceFuzzyCap    = 0.80
	confidenceContainment = 0.75
	confidenceKeywordBase = 0.4
	confidenceKeywordCap  = 0.70
	confidenceNone        = 0.1

	// partialOverlapMin is the fraction of pattern words that must appear
	// in the description for a partial word match.
	partialOverlapMin = 0.6
)

// Result is one categorization decision.
type Result struct {
	Category     string
	Subcategory  string
	Confidence   float64
	Method       domain.Method
	MerchantName string
}

// Categorizer resolves descriptions against the mapping store and the
// taxonomy keyword lists. Read-only over its inputs; Categorize is
// side-effect-free and safe to call concurrently.
type Categorizer struct {
	store          *mappings.Store
	keywords       taxonomy.KeywordSet
	fuzzyThreshold float64
}

func NewCategorizer(store *mappings.Store, keywords taxonomy.KeywordSet, fuzzyThreshold float64) *Categorizer {
	return &Categorizer{store: store, keywords: keywords, fuzzyThreshold: fuzzyThreshold}
}

// Categorize resolves one description. Priority order: private mappings,
// public mappings, keyword fallback, uncategorized. Within a table the first
// pattern (in sorted order) to match any rung of the ladder decides the
// outcome.
func (c *Categorizer) Categorize(description string) Result {
	desc := strings.ToLower(description)
	merchant := ExtractMerchant(description)

	if r, ok := c.matchTable(c.store.Private, domain.MethodExactPrivate, desc, merchant); ok {
		return r
	}
	if r, ok := c.matchTable(c.store.Public, domain.MethodExactPublic, desc, merchant); ok {
		return r
	}
	if r, ok := c.keywordFallback(desc, merchant); ok {
		return r
	}
	return Result{
		Category:     domain.Uncategorized,
		Subcategory:  domain.Uncategorized,
		Confidence:   confidenceNone,
		Method:       domain.MethodNone,
		MerchantName: merchant,
	}
}

// Enrich applies a categorization decision to one transaction.
func (c *Categorizer) Enrich(t domain.RawTransaction) domain.EnrichedTransaction {
	r := c.Categorize(t.Description)
	return domain.EnrichedTransaction{
		RawTransaction: t,
		Category:       r.Category,
		Subcategory:    r.Subcategory,
		Confidence:     r.Confidence,
		Method:         r.Method,
		MerchantName:   r.MerchantName,
	}
}

// matchTable walks the table's patterns in sorted order and runs the full
// ladder on each before moving to the next: the first pattern to hit any
// rung wins, even when a later pattern would have matched a higher rung.
// Sorted iteration keeps results independent of map order. exactMethod
// doubles as the table's scope tag.
func (c *Categorizer) matchTable(table mappings.Table, exactMethod domain.Method, desc, merchant string) (Result, bool) {
	descWords := wordSet(desc)

	for _, ref := range table.Flatten() {
		// Patterns are stored lower-cased but matched defensively either way.
		pattern := strings.ToLower(ref.Pattern)

		// Exact: pattern appears verbatim in the description.
		if patternInText(pattern, desc) {
			return resultFor(ref, confidenceExact, exactMethod, merchant), true
		}

		// Partial: enough of the pattern's words appear in the description.
		if words := strings.Fields(pattern); len(words) > 0 {
			hits := 0
			for _, w := range words {
				if descWords[w] {
					hits++
				}
			}
			overlap := float64(hits) / float64(len(words))
			if overlap >= partialOverlapMin {
				confidence := confidencePartialBase + 0.1*overlap
				if confidence > confidencePartialCap {
					confidence = confidencePartialCap
				}
				return resultFor(ref, confidence, domain.MethodPartialWord, merchant), true
			}
		}

		if merchant == "" {
			continue
		}

		// Fuzzy: the extracted merchant resembles the pattern. One- and
		// two-character patterns skip this rung: they pick up spurious
		// single-character overlaps.
		if len(pattern) > 2 {
			if ratio := fuzzy.Ratio(pattern, merchant); ratio >= c.fuzzyThreshold {
				confidence := ratio
				if confidence > confidenceFuzzyCap {
					confidence = confidenceFuzzyCap
				}
				return resultFor(ref, confidence, domain.MethodFuzzy, merchant), true
			}
		}

		// Loose containment either direction between merchant and pattern.
		plain := strings.ReplaceAll(pattern, "*", "")
		if plain == "" {
			continue
		}
		if strings.Contains(merchant, plain) || strings.Contains(plain, merchant) {
			return resultFor(ref, confidenceContainment, exactMethod, merchant), true
		}
	}

	return Result{}, false
}

// keywordFallback scores every detailed code by the fraction of its keywords
// present in the description; the best positive score wins.
func (c *Categorizer) keywordFallback(desc, merchant string) (Result, bool) {
	bestScore := 0.0
	bestCode := ""
	for _, code := range c.keywords.Codes() {
		words := c.keywords[code]
		if len(words) == 0 {
			continue
		}
		hits := 0
		for _, keyword := range words {
			if strings.Contains(desc, strings.ToLower(keyword)) {
				hits++
			}
		}
		score := float64(hits) / float64(len(words))
		if score > bestScore {
			bestScore = score
			bestCode = code
		}
	}
	if bestCode == "" {
		return Result{}, false
	}
	confidence := confidenceKeywordBase + 0.3*bestScore
	if confidence > confidenceKeywordCap {
		confidence = confidenceKeywordCap
	}
	return Result{
		Category:     taxonomy.PrimaryOf(bestCode),
		Subcategory:  bestCode,
		Confidence:   confidence,
		Method:       domain.MethodKeyword,
		MerchantName: merchant,
	}, true
}

// resultFor fills a Result from a matched entry. The entry's display name,
// when present, overrides the extracted merchant in the output.
func resultFor(ref mappings.PatternRef, confidence float64, method domain.Method, merchant string) Result {
	name := ref.Entry.Name
	if name == "" {
		name = merchant
	}
	return Result{
		Category:     ref.Entry.Category,
		Subcategory:  ref.Entry.Subcategory,
		Confidence:   confidence,
		Method:       method,
		MerchantName: name,
	}
}

// patternInText reports whether a pattern matches the lower-cased text.
// Plain patterns are substrings; wildcard patterns match when their literal
// segments appear in order.
func patternInText(pattern, text string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(text, pattern)
	}
	rest := text
	for _, segment := range strings.FieldsFunc(pattern, func(r rune) bool { return r == '*' || r == '?' }) {
		i := strings.Index(rest, segment)
		if i < 0 {
			return false
		}
		rest = rest[i+len(segment):]
	}
	return true
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
