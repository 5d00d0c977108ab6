package mappings

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"moneymapper/internal/taxonomy"
)

// LoadTable reads one mapping file. The TOML shape is the three-level
// PRIMARY.DETAILED."pattern" nesting; anything else fails the decode.
func LoadTable(path string) (Table, error) {
	table := make(Table)
	if _, err := toml.DecodeFile(path, &table); err != nil {
		return nil, fmt.Errorf("load mapping table %s: %w", path, err)
	}
	return table, nil
}

// LoadStore reads both mapping tables. A missing file yields an empty table:
// a fresh setup has no private mappings yet.
func LoadStore(privatePath, publicPath string) (*Store, error) {
	private, err := loadOrEmpty(privatePath)
	if err != nil {
		return nil, err
	}
	public, err := loadOrEmpty(publicPath)
	if err != nil {
		return nil, err
	}
	return &Store{
		Private:     private,
		Public:      public,
		PrivatePath: privatePath,
		PublicPath:  publicPath,
	}, nil
}

func loadOrEmpty(path string) (Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return make(Table), nil
	}
	return LoadTable(path)
}

// WriteTable persists a table with stable ordering: primaries, detailed codes
// and patterns all alphabetical, each detailed section headed by its taxonomy
// description. Stable output keeps the files diffable under version control.
func WriteTable(path string, table Table, scope Scope) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Merchant mappings (%s scope)\n", scope)
	b.WriteString("# PRIMARY.DETAILED.\"pattern\" = { name, category, subcategory, scope }\n")

	for _, primary := range sortedKeys(table) {
		detailedMap := table[primary]
		for _, detailed := range sortedKeys(detailedMap) {
			b.WriteString("\n# ")
			b.WriteString(detailed)
			b.WriteString(": ")
			b.WriteString(taxonomy.Description(detailed))
			b.WriteString("\n")
			patterns := detailedMap[detailed]
			for _, pattern := range sortedKeys(patterns) {
				e := patterns[pattern]
				fmt.Fprintf(&b, "[%s.%s.%s]\n", primary, detailed, strconv.Quote(pattern))
				fmt.Fprintf(&b, "name = %s\n", strconv.Quote(e.Name))
				fmt.Fprintf(&b, "category = %s\n", strconv.Quote(e.Category))
				fmt.Fprintf(&b, "subcategory = %s\n", strconv.Quote(e.Subcategory))
				fmt.Fprintf(&b, "scope = %s\n", strconv.Quote(string(e.Scope)))
			}
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write mapping table %s: %w", path, err)
	}
	return nil
}
