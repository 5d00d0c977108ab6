package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"moneymapper/internal/domain"
)

var (
	// dateToken delimits transactions inside a section: MM/DD with an
	// optional two- or four-digit year.
	dateToken = regexp.MustCompile(`\d{2}/\d{2}(?:/\d{2,4})?`)
	// amountToken is a monetary amount with optional thousands separators.
	amountToken = regexp.MustCompile(`\d{1,3}(?:,\d{3})*\.\d{2}`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// extractSectioned handles checking and savings statements: the deposits and
// withdrawals sections are located by regex, then each section is split on
// date tokens into alternating date/content chunks. The trailing amount of a
// chunk is the transaction amount; everything before it is the description.
func (e *Extractor) extractSectioned(text string, accountType domain.AccountType) ([]domain.RawTransaction, []Issue) {
	sections := e.cfg.Sections[accountType]
	accountNum := e.AccountNumber(text, accountType)

	var transactions []domain.RawTransaction
	var issues []Issue

	deposits, depositIssues := e.parseSection(text, sections.Deposits, "deposits", accountType, accountNum, domain.KindDeposit)
	transactions = append(transactions, deposits...)
	issues = append(issues, depositIssues...)

	withdrawals, withdrawalIssues := e.parseSection(text, sections.Withdrawals, "withdrawals", accountType, accountNum, domain.KindWithdrawal)
	transactions = append(transactions, withdrawals...)
	issues = append(issues, withdrawalIssues...)

	return transactions, issues
}

func (e *Extractor) parseSection(text string, re *regexp.Regexp, name string,
	accountType domain.AccountType, accountNum string, kind domain.TransactionKind) ([]domain.RawTransaction, []Issue) {

	if re == nil {
		return nil, []Issue{{Kind: IssueNoPatterns, Section: name, Detail: "no section pattern configured"}}
	}
	section := re.FindString(text)
	if section == "" {
		return nil, []Issue{{Kind: IssueSectionMissing, Section: name, Detail: "section not found in document"}}
	}

	var transactions []domain.RawTransaction
	var issues []Issue

	for _, chunk := range splitOnDates(section) {
		amountStr, description, ok := trailingAmount(chunk.content)
		if !ok {
			// Continuation text or summary lines; not an error.
			continue
		}
		if description == "" {
			continue
		}

		amount, err := parseAmount(amountStr)
		if err != nil {
			issues = append(issues, Issue{Kind: IssueAmountParse, Section: name, Detail: amountStr})
			continue
		}
		if kind == domain.KindWithdrawal {
			amount = amount.Neg()
		}

		transactions = append(transactions, domain.RawTransaction{
			Date:          chunk.date,
			Description:   description,
			Amount:        amount,
			AccountType:   accountType,
			AccountNumber: accountNum,
			Kind:          kind,
		})
	}

	return transactions, issues
}

type dateChunk struct {
	date    string
	content string
}

// splitOnDates splits section text on date tokens, pairing each date with
// the content that follows it up to the next date or end of section.
func splitOnDates(section string) []dateChunk {
	locs := dateToken.FindAllStringIndex(section, -1)
	chunks := make([]dateChunk, 0, len(locs))
	for i, loc := range locs {
		end := len(section)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunks = append(chunks, dateChunk{
			date:    section[loc[0]:loc[1]],
			content: section[loc[1]:end],
		})
	}
	return chunks
}

// trailingAmount finds the monetary amount that closes a chunk: the first
// amount token followed only by whitespace, a "Total" summary line, or the
// end of the chunk (the next date token already ended the chunk). The text
// before it, whitespace-collapsed, is the description.
func trailingAmount(content string) (amount, description string, ok bool) {
	for _, loc := range amountToken.FindAllStringIndex(content, -1) {
		tail := strings.TrimSpace(content[loc[1]:])
		if tail == "" || strings.HasPrefix(tail, "Total") {
			amount = content[loc[0]:loc[1]]
			description = strings.TrimSpace(whitespace.ReplaceAllString(content[:loc[0]], " "))
			return amount, description, true
		}
	}
	return "", "", false
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}
