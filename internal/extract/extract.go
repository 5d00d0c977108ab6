// Package extract recovers transaction records from statement text. Checking
// and savings statements are parsed by locating deposit/withdrawal sections
// and splitting on date tokens; credit statements by ordered regex families.
package extract

import (
	"fmt"

	"moneymapper/internal/config"
	"moneymapper/internal/domain"
)

// IssueKind classifies a non-fatal extraction problem.
type IssueKind string

const (
	// IssueSectionMissing means a configured section regex found nothing;
	// the section contributes zero transactions.
	IssueSectionMissing IssueKind = "section_missing"
	// IssueAmountParse means a matched amount string failed numeric
	// conversion; the single candidate transaction is dropped.
	IssueAmountParse IssueKind = "amount_parse"
	// IssueNoPatterns means the account type has no extraction patterns
	// configured at all.
	IssueNoPatterns IssueKind = "no_patterns"
)

// Issue is one skipped or failed extraction candidate, with enough context
// to locate it in the source document.
type Issue struct {
	Kind    IssueKind
	Section string
	Detail  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Kind, i.Section, i.Detail)
}

// Extractor applies the configured extraction strategy for an account type.
type Extractor struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract yields the raw transactions found in text for the detected account
// type. Dates are left as the fragments the document carried; the caller
// resolves them against the statement period. Issues are collected, never
// fatal: a statement with a missing section still yields the sections that
// were found.
func (e *Extractor) Extract(text string, accountType domain.AccountType) ([]domain.RawTransaction, []Issue) {
	switch accountType {
	case domain.AccountChecking, domain.AccountSavings:
		return e.extractSectioned(text, accountType)
	case domain.AccountCredit:
		return e.extractCredit(text)
	}
	return nil, []Issue{{Kind: IssueNoPatterns, Section: string(accountType), Detail: "no extraction strategy for account type"}}
}

// AccountNumber extracts and masks the account number for the given type.
// Returns "" when no pattern is configured or nothing matches.
func (e *Extractor) AccountNumber(text string, accountType domain.AccountType) string {
	re, ok := e.cfg.AccountPatterns[accountType]
	if !ok {
		return ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil || len(m) < 2 {
		return ""
	}
	return MaskAccountNumber(m[1])
}

// MaskAccountNumber hides all but the last four digits of an account number.
func MaskAccountNumber(number string) string {
	clean := make([]rune, 0, len(number))
	for _, r := range number {
		if r != ' ' {
			clean = append(clean, r)
		}
	}
	n := len(clean)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return repeat('*', n)
	}
	return repeat('*', n-4) + string(clean[n-4:])
}

func repeat(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
