package taxonomy

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// KeywordSet maps detailed category codes to the keyword lists used by the
// fallback categorizer. Loaded from a TOML table keyed by detailed code:
//
//	[FOOD_AND_DRINK_COFFEE]
//	keywords = ["coffee", "espresso", "cafe"]
type KeywordSet map[string][]string

type keywordEntry struct {
	Keywords []string `toml:"keywords"`
}

// LoadKeywords reads a keyword table and validates every code against the
// closed taxonomy. Unknown codes are a hard error: the keyword file must not
// introduce categories the taxonomy does not have.
func LoadKeywords(path string) (KeywordSet, error) {
	raw := map[string]keywordEntry{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load keywords %s: %w", path, err)
	}

	set := make(KeywordSet, len(raw))
	for code, entry := range raw {
		if PrimaryOf(code) == "" {
			return nil, fmt.Errorf("load keywords %s: unknown detailed category %q", path, code)
		}
		set[code] = entry.Keywords
	}
	return set, nil
}

// LoadKeywordsOptional behaves like LoadKeywords but returns an empty set when
// the file does not exist. The keyword fallback then simply never matches.
func LoadKeywordsOptional(path string) (KeywordSet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return KeywordSet{}, nil
	}
	return LoadKeywords(path)
}

// Codes returns the detailed codes present in the set, sorted, so scoring
// iterates deterministically.
func (k KeywordSet) Codes() []string {
	out := make([]string, 0, len(k))
	for code := range k {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
