package extract

import (
	"regexp"
	"strings"

	"moneymapper/internal/config"
	"moneymapper/internal/domain"
)

// Card-number fragments that some issuers print after the amount, e.g.
// "1234 5678" account suffixes trailing the description.
var cardFragment = regexp.MustCompile(`\s+\d{4}\s+\d{4}\s*$`)

// extractCredit runs every registered credit-card pattern over the statement
// text. Purchases are recorded as negative amounts so that spending always
// reduces the running total regardless of account type.
func (e *Extractor) extractCredit(text string) ([]domain.RawTransaction, []Issue) {
	if len(e.cfg.CreditPatterns) == 0 {
		return nil, []Issue{{Kind: IssueNoPatterns, Detail: "no credit card patterns configured"}}
	}

	// Credit statements often wrap a single transaction across lines;
	// normalizing whitespace lets one regex span the wrapped line.
	flat := whitespace.ReplaceAllString(text, " ")

	var txns []domain.RawTransaction
	var issues []Issue
	for _, cp := range e.cfg.CreditPatterns {
		for _, groups := range cp.Regex.FindAllStringSubmatch(flat, -1) {
			txn, issue, ok := creditTransaction(cp.Family, groups)
			if issue != nil {
				issues = append(issues, *issue)
			}
			if ok {
				txns = append(txns, txn)
			}
		}
	}
	return txns, issues
}

// creditTransaction builds one transaction from a pattern match. The family
// tag fixes the capture-group layout, so no branching on group counts.
func creditTransaction(family config.PatternFamily, groups []string) (domain.RawTransaction, *Issue, bool) {
	txn := domain.RawTransaction{
		AccountType: domain.AccountCredit,
		Kind:        domain.KindPurchase,
	}

	var rawAmount string
	switch family {
	case config.FamilySingleDate:
		txn.Date = groups[1]
		txn.Description = cleanCreditDescription(groups[2])
		rawAmount = groups[3]
	case config.FamilyDualDate:
		txn.Date = groups[1]
		txn.PostingDate = groups[2]
		txn.Description = cleanCreditDescription(groups[3])
		rawAmount = groups[4]
	case config.FamilyDualDateRefs:
		txn.Date = groups[1]
		txn.PostingDate = groups[2]
		txn.Description = cleanCreditDescription(groups[3])
		txn.ReferenceNumber = groups[4]
		// The statement prints only the trailing digits of the account
		// number; keep them visible behind the mask, the same shape
		// MaskAccountNumber gives full numbers.
		txn.AccountNumber = "****" + groups[5]
		rawAmount = groups[6]
	default:
		return domain.RawTransaction{}, nil, false
	}

	// Fragments shorter than this are regex noise, not merchant text.
	if len(txn.Description) < 3 {
		return domain.RawTransaction{}, nil, false
	}

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return domain.RawTransaction{}, &Issue{
			Kind:   IssueAmountParse,
			Detail: "credit amount " + rawAmount + ": " + err.Error(),
		}, false
	}
	// Statements print purchases as positive spend.
	txn.Amount = amount.Neg()
	return txn, nil, true
}

func cleanCreditDescription(s string) string {
	s = cardFragment.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
