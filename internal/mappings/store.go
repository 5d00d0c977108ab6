// Package mappings maintains the two merchant-pattern tables (private and
// public), their TOML persistence, and the batch ingestion workflow that keeps
// them duplicate-free.
package mappings

import "sort"

// Scope partitions mapping entries by trust: private entries are the
// operator's own, public entries are shared defaults.
type Scope string

const (
	ScopePrivate Scope = "private"
	ScopePublic  Scope = "public"
)

// Entry is one merchant mapping. The pattern it is filed under matches
// transaction descriptions case-insensitively; Name replaces the extracted
// merchant name in enriched output.
type Entry struct {
	Name        string `toml:"name"`
	Category    string `toml:"category"`
	Subcategory string `toml:"subcategory"`
	Scope       Scope  `toml:"scope"`
}

// Table is one mapping file: PRIMARY -> DETAILED -> pattern -> Entry.
type Table map[string]map[string]map[string]Entry

// PatternRef is a pattern with its location in a table, used for flat
// iteration, duplicate indexing, and reporting.
type PatternRef struct {
	Primary  string
	Detailed string
	Pattern  string
	Entry    Entry
}

// Path renders the category location the way reports address it.
func (r PatternRef) Path() string {
	return r.Primary + "." + r.Detailed
}

// Flatten returns every pattern in the table in sorted
// primary/detailed/pattern order. Sorting makes matching and reporting
// deterministic regardless of map iteration order.
func (t Table) Flatten() []PatternRef {
	var refs []PatternRef
	for _, primary := range sortedKeys(t) {
		detailedMap := t[primary]
		for _, detailed := range sortedKeys(detailedMap) {
			patterns := detailedMap[detailed]
			for _, pattern := range sortedKeys(patterns) {
				refs = append(refs, PatternRef{
					Primary:  primary,
					Detailed: detailed,
					Pattern:  pattern,
					Entry:    patterns[pattern],
				})
			}
		}
	}
	return refs
}

// Lookup returns the entry filed under pattern, if any.
func (t Table) Lookup(primary, detailed, pattern string) (Entry, bool) {
	e, ok := t[primary][detailed][pattern]
	return e, ok
}

// Set files an entry under its category path, creating levels as needed.
func (t Table) Set(primary, detailed, pattern string, e Entry) {
	if t[primary] == nil {
		t[primary] = make(map[string]map[string]Entry)
	}
	if t[primary][detailed] == nil {
		t[primary][detailed] = make(map[string]Entry)
	}
	t[primary][detailed][pattern] = e
}

// Remove deletes a pattern, pruning empty levels behind it.
func (t Table) Remove(primary, detailed, pattern string) {
	patterns := t[primary][detailed]
	if patterns == nil {
		return
	}
	delete(patterns, pattern)
	if len(patterns) == 0 {
		delete(t[primary], detailed)
	}
	if len(t[primary]) == 0 {
		delete(t, primary)
	}
}

// Count returns the number of patterns in the table.
func (t Table) Count() int {
	n := 0
	for _, detailedMap := range t {
		for _, patterns := range detailedMap {
			n += len(patterns)
		}
	}
	return n
}

// Clone deep-copies the table. Batch ingestion mutates a clone so an abort
// leaves the live table untouched.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for primary, detailedMap := range t {
		out[primary] = make(map[string]map[string]Entry, len(detailedMap))
		for detailed, patterns := range detailedMap {
			cp := make(map[string]Entry, len(patterns))
			for pattern, e := range patterns {
				cp[pattern] = e
			}
			out[primary][detailed] = cp
		}
	}
	return out
}

// Store pairs the two mapping tables with the files they came from.
type Store struct {
	Private Table
	Public  Table

	PrivatePath string
	PublicPath  string
}

// TableFor returns the table a scope's entries belong in.
func (s *Store) TableFor(scope Scope) Table {
	if scope == ScopePrivate {
		return s.Private
	}
	return s.Public
}

// PathFor returns the backing file for a scope.
func (s *Store) PathFor(scope Scope) string {
	if scope == ScopePrivate {
		return s.PrivatePath
	}
	return s.PublicPath
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
