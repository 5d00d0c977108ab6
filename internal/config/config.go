// Package config loads the declarative pattern configuration. The Config
// value is built once at process start and passed into each component; there
// is no global accessor.
package config

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/BurntSushi/toml"

	"moneymapper/internal/domain"
)

// PatternFamily tags a credit-card extraction regex with the capture-group
// layout it produces. The family is fixed at registration time so matches
// never branch on group counts.
type PatternFamily string

const (
	// FamilySingleDate captures (date, description, amount).
	FamilySingleDate PatternFamily = "single_date"
	// FamilyDualDate captures (transaction date, posting date, description, amount).
	FamilyDualDate PatternFamily = "dual_date"
	// FamilyDualDateRefs captures (transaction date, posting date, description,
	// reference number, account suffix, amount).
	FamilyDualDateRefs PatternFamily = "dual_date_refs"
)

var familyGroups = map[PatternFamily]int{
	FamilySingleDate:   3,
	FamilyDualDate:     4,
	FamilyDualDateRefs: 6,
}

// DetectionRule scores one account type against statement text.
type DetectionRule struct {
	Indicators       []string
	StrongIndicators map[string]int
	Weight           int
	Threshold        int
}

// SectionPatterns locates the deposit and withdrawal sections of a
// checking or savings statement.
type SectionPatterns struct {
	Deposits    *regexp.Regexp
	Withdrawals *regexp.Regexp
}

// CreditPattern is one registered credit-card line regex with its family tag.
type CreditPattern struct {
	Regex  *regexp.Regexp
	Family PatternFamily
}

// Config is the immutable, fully compiled pattern configuration.
type Config struct {
	Detection      map[domain.AccountType]DetectionRule
	DetectionOrder []domain.AccountType // tie-break order, sorted at load

	Sections        map[domain.AccountType]SectionPatterns
	CreditPatterns  []CreditPattern
	AccountPatterns map[domain.AccountType]*regexp.Regexp
	PeriodPatterns  []*regexp.Regexp

	FuzzyThreshold float64
	Privacy        PrivacySettings
}

// PrivacySettings feeds the description redactor: literal patterns, fuzzy
// keywords, and the ratio a keyword window must reach.
type PrivacySettings struct {
	Patterns       []string
	Keywords       []string
	FuzzyThreshold float64
}

// raw TOML shapes

type rawPatterns struct {
	Detection map[string]rawDetection   `toml:"detection"`
	Sections  rawTransactionSections    `toml:"transaction_sections"`
	Accounts  map[string]string         `toml:"account_patterns"`
	Period    rawPeriod                 `toml:"period_patterns"`
}

type rawDetection struct {
	Indicators       []string       `toml:"indicators"`
	StrongIndicators map[string]int `toml:"strong_indicators"`
	Weight           int            `toml:"weight"`
	Threshold        int            `toml:"threshold"`
}

type rawTransactionSections struct {
	Checking rawSections `toml:"checking"`
	Savings  rawSections `toml:"savings"`
	Credit   rawCredit   `toml:"credit"`
}

type rawSections struct {
	Deposits    string `toml:"deposits"`
	Withdrawals string `toml:"withdrawals"`
}

type rawCredit struct {
	Patterns []rawCreditPattern `toml:"patterns"`
}

type rawCreditPattern struct {
	Regex  string `toml:"regex"`
	Family string `toml:"family"`
}

type rawPeriod struct {
	Patterns []string `toml:"patterns"`
}

type rawSettings struct {
	Enrichment struct {
		FuzzyThreshold float64 `toml:"fuzzy_threshold"`
	} `toml:"enrichment"`
	Privacy struct {
		Patterns       []string `toml:"patterns"`
		Keywords       []string `toml:"keywords"`
		FuzzyThreshold float64  `toml:"fuzzy_threshold"`
	} `toml:"privacy"`
}

// DefaultFuzzyThreshold applies when settings omit enrichment.fuzzy_threshold.
const DefaultFuzzyThreshold = 0.7

// DefaultRedactionThreshold applies when settings omit privacy.fuzzy_threshold.
const DefaultRedactionThreshold = 0.85

// Load reads and compiles the pattern config and settings files. Any missing
// section, unknown account type, unknown pattern family or invalid regex is a
// hard error: without a valid configuration no document can be processed.
func Load(patternsPath, settingsPath string) (*Config, error) {
	var raw rawPatterns
	if _, err := toml.DecodeFile(patternsPath, &raw); err != nil {
		return nil, fmt.Errorf("load pattern config %s: %w", patternsPath, err)
	}

	cfg := &Config{
		Detection:       make(map[domain.AccountType]DetectionRule, len(raw.Detection)),
		Sections:        make(map[domain.AccountType]SectionPatterns, 2),
		AccountPatterns: make(map[domain.AccountType]*regexp.Regexp, len(raw.Accounts)),
		FuzzyThreshold:  DefaultFuzzyThreshold,
	}

	for name, det := range raw.Detection {
		accountType, err := parseAccountType(name)
		if err != nil {
			return nil, fmt.Errorf("detection config: %w", err)
		}
		cfg.Detection[accountType] = DetectionRule{
			Indicators:       det.Indicators,
			StrongIndicators: det.StrongIndicators,
			Weight:           det.Weight,
			Threshold:        det.Threshold,
		}
		cfg.DetectionOrder = append(cfg.DetectionOrder, accountType)
	}
	sort.Slice(cfg.DetectionOrder, func(i, j int) bool {
		return cfg.DetectionOrder[i] < cfg.DetectionOrder[j]
	})

	checking, err := compileSections(raw.Sections.Checking)
	if err != nil {
		return nil, fmt.Errorf("transaction_sections.checking: %w", err)
	}
	cfg.Sections[domain.AccountChecking] = checking

	savings, err := compileSections(raw.Sections.Savings)
	if err != nil {
		return nil, fmt.Errorf("transaction_sections.savings: %w", err)
	}
	cfg.Sections[domain.AccountSavings] = savings

	for i, cp := range raw.Sections.Credit.Patterns {
		family := PatternFamily(cp.Family)
		groups, ok := familyGroups[family]
		if !ok {
			return nil, fmt.Errorf("transaction_sections.credit.patterns[%d]: unknown family %q", i, cp.Family)
		}
		re, err := regexp.Compile(cp.Regex)
		if err != nil {
			return nil, fmt.Errorf("transaction_sections.credit.patterns[%d]: %w", i, err)
		}
		if re.NumSubexp() != groups {
			return nil, fmt.Errorf("transaction_sections.credit.patterns[%d]: family %q needs %d capture groups, regex has %d",
				i, cp.Family, groups, re.NumSubexp())
		}
		cfg.CreditPatterns = append(cfg.CreditPatterns, CreditPattern{Regex: re, Family: family})
	}

	for name, pattern := range raw.Accounts {
		accountType, err := parseAccountType(name)
		if err != nil {
			return nil, fmt.Errorf("account_patterns: %w", err)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("account_patterns.%s: %w", name, err)
		}
		cfg.AccountPatterns[accountType] = re
	}

	for i, pattern := range raw.Period.Patterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("period_patterns[%d]: %w", i, err)
		}
		cfg.PeriodPatterns = append(cfg.PeriodPatterns, re)
	}

	if settingsPath != "" {
		var settings rawSettings
		if _, err := toml.DecodeFile(settingsPath, &settings); err != nil {
			return nil, fmt.Errorf("load settings %s: %w", settingsPath, err)
		}
		if settings.Enrichment.FuzzyThreshold > 0 {
			cfg.FuzzyThreshold = settings.Enrichment.FuzzyThreshold
		}
		cfg.Privacy = PrivacySettings{
			Patterns:       settings.Privacy.Patterns,
			Keywords:       settings.Privacy.Keywords,
			FuzzyThreshold: settings.Privacy.FuzzyThreshold,
		}
	}
	if cfg.Privacy.FuzzyThreshold <= 0 {
		cfg.Privacy.FuzzyThreshold = DefaultRedactionThreshold
	}

	return cfg, nil
}

func compileSections(raw rawSections) (SectionPatterns, error) {
	if raw.Deposits == "" || raw.Withdrawals == "" {
		return SectionPatterns{}, fmt.Errorf("deposits and withdrawals patterns are required")
	}
	deposits, err := regexp.Compile("(?is)" + raw.Deposits)
	if err != nil {
		return SectionPatterns{}, fmt.Errorf("deposits: %w", err)
	}
	withdrawals, err := regexp.Compile("(?is)" + raw.Withdrawals)
	if err != nil {
		return SectionPatterns{}, fmt.Errorf("withdrawals: %w", err)
	}
	return SectionPatterns{Deposits: deposits, Withdrawals: withdrawals}, nil
}

func parseAccountType(name string) (domain.AccountType, error) {
	switch domain.AccountType(name) {
	case domain.AccountChecking, domain.AccountSavings, domain.AccountCredit:
		return domain.AccountType(name), nil
	}
	return "", fmt.Errorf("unknown account type %q", name)
}
