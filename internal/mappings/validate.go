package mappings

import (
	"fmt"

	"moneymapper/internal/taxonomy"
)

// ValidationIssue reports one failed check on one entry. An entry can fail
// several checks and produce several issues.
type ValidationIssue struct {
	File    string
	Ref     PatternRef
	Problem string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s %q: %s", v.File, v.Ref.Path(), v.Ref.Pattern, v.Problem)
}

// Validate checks every entry in both tables: required fields present,
// (category, subcategory) inside the taxonomy, entry scope matching the file
// it lives in, and the entry filed under the category path that matches its
// own fields.
func Validate(store *Store) []ValidationIssue {
	var issues []ValidationIssue
	issues = append(issues, validateTable(store.Private, store.PrivatePath, ScopePrivate)...)
	issues = append(issues, validateTable(store.Public, store.PublicPath, ScopePublic)...)
	return issues
}

func validateTable(table Table, file string, scope Scope) []ValidationIssue {
	var issues []ValidationIssue
	report := func(ref PatternRef, format string, args ...any) {
		issues = append(issues, ValidationIssue{File: file, Ref: ref, Problem: fmt.Sprintf(format, args...)})
	}

	for _, ref := range table.Flatten() {
		e := ref.Entry
		if e.Name == "" {
			report(ref, "missing name")
		}
		if e.Category == "" {
			report(ref, "missing category")
		}
		if e.Subcategory == "" {
			report(ref, "missing subcategory")
		}
		if e.Scope == "" {
			report(ref, "missing scope")
		}
		if e.Category != "" && e.Subcategory != "" && !taxonomy.Valid(e.Category, e.Subcategory) {
			report(ref, "unknown taxonomy pair %s.%s", e.Category, e.Subcategory)
		}
		if e.Scope != "" && e.Scope != scope {
			report(ref, "scope %q in %s file", e.Scope, scope)
		}
		if e.Category != "" && e.Category != ref.Primary {
			report(ref, "filed under %s but category is %s", ref.Primary, e.Category)
		}
		if e.Subcategory != "" && e.Subcategory != ref.Detailed {
			report(ref, "filed under %s but subcategory is %s", ref.Detailed, e.Subcategory)
		}
	}
	return issues
}
