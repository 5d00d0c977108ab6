package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// AccountType identifies the statement family a transaction came from.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
	AccountCredit   AccountType = "credit"
)

// TransactionKind is the direction of a transaction as the statement states it.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindPurchase   TransactionKind = "purchase"
)

// Method records which categorization strategy produced a result.
type Method string

const (
	MethodExactPrivate Method = "exact_private_match"
	MethodExactPublic  Method = "exact_public_match"
	MethodPartialWord  Method = "partial_word_match"
	MethodFuzzy        Method = "fuzzy_match"
	MethodKeyword      Method = "keyword_fallback"
	MethodNone         Method = "none"
)

// RawTransaction is one extracted statement line, dates already resolved to
// YYYY-MM-DD. Amounts are signed: deposits and credits positive, withdrawals
// and purchases negative.
type RawTransaction struct {
	Date            string          `json:"date"`
	PostingDate     string          `json:"posting_date,omitempty"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	AccountType     AccountType     `json:"account_type"`
	AccountNumber   string          `json:"account_number,omitempty"` // masked, last four visible
	Kind            TransactionKind `json:"transaction_type"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	SourceFile      string          `json:"source_file,omitempty"`
}

// StatementPeriod is the date range a statement covers. Used only to resolve
// partial dates; never persisted with the transaction.
type StatementPeriod struct {
	Start civil.Date
	End   civil.Date
}

// Valid reports whether both endpoints are set and ordered.
func (p StatementPeriod) Valid() bool {
	return p.Start.IsValid() && p.End.IsValid() && !p.End.Before(p.Start)
}

// Uncategorized is the category assigned when no mapping or keyword matches.
const Uncategorized = "UNCATEGORIZED"

// EnrichedTransaction is a RawTransaction plus categorization results.
// Invariant: Category != UNCATEGORIZED implies Confidence > 0 and Method != none.
type EnrichedTransaction struct {
	RawTransaction
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	Confidence   float64 `json:"confidence"`
	Method       Method  `json:"categorization_method"`
	MerchantName string  `json:"merchant_name"`
}

// Categorized reports whether the transaction received a real category.
func (t EnrichedTransaction) Categorized() bool {
	return t.Category != "" && t.Category != Uncategorized
}
