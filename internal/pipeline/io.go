package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"moneymapper/internal/domain"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SaveTransactions writes raw transactions as indented JSON, the boundary
// format between the parse and enrich stages.
func SaveTransactions(path string, txns []domain.RawTransaction) error {
	return writeJSON(path, txns)
}

// SaveEnriched writes categorized transactions as indented JSON.
func SaveEnriched(path string, txns []domain.EnrichedTransaction) error {
	return writeJSON(path, txns)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadTransactions reads a raw transaction file and validates each record.
// Malformed JSON is an error; per-record problems (bad date, empty
// description) are reported back without dropping the batch.
func LoadTransactions(path string) ([]domain.RawTransaction, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	var txns []domain.RawTransaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	var problems []string
	for i, t := range txns {
		if !isoDate.MatchString(t.Date) {
			problems = append(problems, fmt.Sprintf("record %d: date %q is not YYYY-MM-DD", i, t.Date))
		}
		if t.Description == "" {
			problems = append(problems, fmt.Sprintf("record %d: empty description", i))
		}
	}
	return txns, problems, nil
}
