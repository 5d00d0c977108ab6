package mappings

import (
	"sort"
	"strings"

	"moneymapper/internal/fuzzy"
)

// similarThreshold is the minimum pairwise ratio for two patterns of the
// same merchant to be considered consolidation candidates.
const similarThreshold = 0.6

// minAffixLen keeps wildcard suggestions from degenerating into "a*".
const minAffixLen = 3

// ConsolidationCandidate proposes replacing a group of near-identical
// patterns with one wildcard pattern. Advisory only; nothing applies it
// automatically.
type ConsolidationCandidate struct {
	File      string
	Primary   string
	Detailed  string
	Name      string
	Patterns  []string
	Suggested string
}

// DetectSimilar finds groups of patterns that map to the same merchant and
// category and differ only in noise (store numbers, city suffixes). Patterns
// that already contain wildcards are left alone.
func DetectSimilar(store *Store) []ConsolidationCandidate {
	var candidates []ConsolidationCandidate
	candidates = append(candidates, detectSimilarTable(store.Private, store.PrivatePath)...)
	candidates = append(candidates, detectSimilarTable(store.Public, store.PublicPath)...)
	return candidates
}

func detectSimilarTable(table Table, file string) []ConsolidationCandidate {
	type bucketKey struct {
		primary, detailed, name string
	}
	buckets := make(map[bucketKey][]string)
	var keys []bucketKey
	for _, ref := range table.Flatten() {
		if strings.ContainsAny(ref.Pattern, "*?") {
			continue
		}
		key := bucketKey{ref.Primary, ref.Detailed, ref.Entry.Name}
		if _, seen := buckets[key]; !seen {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], ref.Pattern)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.primary != b.primary {
			return a.primary < b.primary
		}
		if a.detailed != b.detailed {
			return a.detailed < b.detailed
		}
		return a.name < b.name
	})

	var candidates []ConsolidationCandidate
	for _, key := range keys {
		for _, group := range similarGroups(buckets[key]) {
			candidates = append(candidates, ConsolidationCandidate{
				File:      file,
				Primary:   key.primary,
				Detailed:  key.detailed,
				Name:      key.name,
				Patterns:  group,
				Suggested: suggestWildcard(group),
			})
		}
	}
	return candidates
}

// similarGroups clusters patterns whose ratio to any existing group member
// meets the threshold. Input is already sorted; groups of one are dropped.
func similarGroups(patterns []string) [][]string {
	var groups [][]string
	for _, pattern := range patterns {
		placed := false
		for i, group := range groups {
			for _, member := range group {
				if fuzzy.Ratio(pattern, member) >= similarThreshold {
					groups[i] = append(group, pattern)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []string{pattern})
		}
	}
	var out [][]string
	for _, group := range groups {
		if len(group) > 1 {
			out = append(out, group)
		}
	}
	return out
}

// suggestWildcard generalizes a group: a shared prefix or suffix of useful
// length becomes "prefix*" / "*suffix"; failing that, the token occurring in
// the most patterns anchors a "*token*" suggestion.
func suggestWildcard(group []string) string {
	if prefix := commonPrefix(group); len(prefix) >= minAffixLen {
		return strings.TrimSpace(prefix) + "*"
	}
	if suffix := commonSuffix(group); len(suffix) >= minAffixLen {
		return "*" + strings.TrimSpace(suffix)
	}
	return "*" + frequentToken(group) + "*"
}

func commonPrefix(group []string) string {
	prefix := group[0]
	for _, s := range group[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

func commonSuffix(group []string) string {
	suffix := group[0]
	for _, s := range group[1:] {
		for !strings.HasSuffix(s, suffix) {
			suffix = suffix[1:]
			if suffix == "" {
				return ""
			}
		}
	}
	return suffix
}

func frequentToken(group []string) string {
	counts := make(map[string]int)
	var order []string
	for _, pattern := range group {
		seen := make(map[string]bool)
		for _, token := range strings.Fields(pattern) {
			if seen[token] {
				continue
			}
			seen[token] = true
			if counts[token] == 0 {
				order = append(order, token)
			}
			counts[token]++
		}
	}
	best := ""
	for _, token := range order {
		if best == "" || counts[token] > counts[best] ||
			(counts[token] == counts[best] && len(token) > len(best)) {
			best = token
		}
	}
	return best
}
