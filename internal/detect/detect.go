// Package detect scores statement text against the configured account types.
package detect

import (
	"strings"

	"moneymapper/internal/config"
	"moneymapper/internal/domain"
)

// Result is the winning account type and the score it achieved.
type Result struct {
	Type  domain.AccountType
	Score int
}

// Detect returns the highest-scoring account type for the text, or ok=false
// when that type misses its own threshold. The winner is chosen before the
// threshold is applied, so a weaker type can never win by default when the
// strongest one falls short. Ties go to the first maximum in the config's
// detection order (sorted account-type names), so the outcome is
// deterministic for identical inputs.
func Detect(text string, cfg *config.Config) (Result, bool) {
	lower := strings.ToLower(text)

	var best Result
	for _, accountType := range cfg.DetectionOrder {
		score := scoreType(lower, cfg.Detection[accountType])
		if score > best.Score {
			best = Result{Type: accountType, Score: score}
		}
	}
	if best.Score <= 0 || best.Score < cfg.Detection[best.Type].Threshold {
		return Result{}, false
	}
	return best, true
}

// Scores reports the raw score per account type, for diagnostics on
// detection failures.
func Scores(text string, cfg *config.Config) map[domain.AccountType]int {
	lower := strings.ToLower(text)
	out := make(map[domain.AccountType]int, len(cfg.Detection))
	for accountType, rule := range cfg.Detection {
		out[accountType] = scoreType(lower, rule)
	}
	return out
}

func scoreType(lower string, rule config.DetectionRule) int {
	score := 0
	for _, indicator := range rule.Indicators {
		if strings.Contains(lower, strings.ToLower(indicator)) {
			score += rule.Weight
		}
	}
	for indicator, weight := range rule.StrongIndicators {
		if strings.Contains(lower, strings.ToLower(indicator)) {
			score += weight
		}
	}
	return score
}
