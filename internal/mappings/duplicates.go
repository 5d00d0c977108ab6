package mappings

import "fmt"

// Occurrence is one place a pattern is filed: which file and where in it.
type Occurrence struct {
	File string
	Ref  PatternRef
}

// DuplicateReport lists every location of a pattern that appears more than
// once across the two tables.
type DuplicateReport struct {
	Pattern     string
	Occurrences []Occurrence
}

func (d DuplicateReport) String() string {
	s := fmt.Sprintf("pattern %q appears %d times:", d.Pattern, len(d.Occurrences))
	for _, o := range d.Occurrences {
		s += fmt.Sprintf(" %s:%s", o.File, o.Ref.Path())
	}
	return s
}

// DetectDuplicates indexes every pattern across both tables into one flat
// map and reports any pattern filed twice. Single pass over the patterns.
func DetectDuplicates(store *Store) []DuplicateReport {
	index := make(map[string][]Occurrence)
	var order []string

	collect := func(table Table, file string) {
		for _, ref := range table.Flatten() {
			if _, seen := index[ref.Pattern]; !seen {
				order = append(order, ref.Pattern)
			}
			index[ref.Pattern] = append(index[ref.Pattern], Occurrence{File: file, Ref: ref})
		}
	}
	collect(store.Private, store.PrivatePath)
	collect(store.Public, store.PublicPath)

	var reports []DuplicateReport
	for _, pattern := range order {
		if occ := index[pattern]; len(occ) > 1 {
			reports = append(reports, DuplicateReport{Pattern: pattern, Occurrences: occ})
		}
	}
	return reports
}
