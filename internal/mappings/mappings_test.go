package mappings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func entry(name, category, subcategory string, scope Scope) Entry {
	return Entry{Name: name, Category: category, Subcategory: subcategory, Scope: scope}
}

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()

	private := make(Table)
	private.Set("GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", "walmart",
		entry("Walmart", "GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", ScopePrivate))
	private.Set("FOOD_AND_DRINK", "FOOD_AND_DRINK_GROCERIES", "trader joe",
		entry("Trader Joe's", "FOOD_AND_DRINK", "FOOD_AND_DRINK_GROCERIES", ScopePrivate))

	public := make(Table)
	public.Set("GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", "walmart",
		entry("Walmart", "GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", ScopePublic))
	public.Set("FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", "starbucks",
		entry("Starbucks", "FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", ScopePublic))

	return &Store{
		Private:     private,
		Public:      public,
		PrivatePath: filepath.Join(dir, "private_mappings.toml"),
		PublicPath:  filepath.Join(dir, "public_mappings.toml"),
	}
}

func TestTableRoundTrip(t *testing.T) {
	store := testStore(t)
	if err := WriteTable(store.PublicPath, store.Public, ScopePublic); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadTable(store.PublicPath)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := loaded.Count(), store.Public.Count(); got != want {
		t.Fatalf("loaded %d patterns, want %d", got, want)
	}
	e, ok := loaded.Lookup("FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", "starbucks")
	if !ok {
		t.Fatal("starbucks entry lost in round trip")
	}
	if e.Name != "Starbucks" || e.Scope != ScopePublic {
		t.Errorf("round-tripped entry = %+v", e)
	}
}

func TestLoadStoreMissingFilesAreEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := LoadStore(filepath.Join(dir, "nope_private.toml"), filepath.Join(dir, "nope_public.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if store.Private.Count() != 0 || store.Public.Count() != 0 {
		t.Errorf("missing files should load as empty tables")
	}
}

func TestDetectDuplicatesAcrossFiles(t *testing.T) {
	store := testStore(t)
	reports := DetectDuplicates(store)
	if len(reports) != 1 {
		t.Fatalf("got %d duplicate reports, want 1: %v", len(reports), reports)
	}
	r := reports[0]
	if r.Pattern != "walmart" {
		t.Errorf("duplicate pattern = %q, want walmart", r.Pattern)
	}
	if len(r.Occurrences) != 2 {
		t.Fatalf("got %d occurrences, want both files", len(r.Occurrences))
	}
	if r.Occurrences[0].File == r.Occurrences[1].File {
		t.Errorf("occurrences should span both files, both in %s", r.Occurrences[0].File)
	}
}

func TestValidate(t *testing.T) {
	store := testStore(t)
	if issues := Validate(store); len(issues) != 0 {
		t.Fatalf("clean store reported issues: %v", issues)
	}

	store.Private.Set("FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", "badcafe", Entry{
		Category:    "FOOD_AND_DRINK",
		Subcategory: "NOT_A_CODE",
		Scope:       ScopePublic,
	})
	issues := Validate(store)
	problems := make(map[string]bool)
	for _, issue := range issues {
		if issue.Ref.Pattern == "badcafe" {
			problems[issue.Problem] = true
		}
	}
	// One entry, several independent findings.
	if len(problems) < 3 {
		t.Fatalf("want missing-name, taxonomy, scope and filing issues, got %v", issues)
	}
}

func TestDetectSimilarSuggestsWildcard(t *testing.T) {
	store := testStore(t)
	set := func(pattern string) {
		store.Private.Set("GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", pattern,
			entry("Walmart", "GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", ScopePrivate))
	}
	set("walmart #1234")
	set("walmart #5678")

	candidates := DetectSimilar(store)
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1: %v", len(candidates), candidates)
	}
	c := candidates[0]
	if len(c.Patterns) != 3 { // the bare "walmart" pattern joins the group
		t.Errorf("group = %v, want all three walmart patterns", c.Patterns)
	}
	if c.Suggested != "walmart*" {
		t.Errorf("suggested wildcard = %q, want walmart*", c.Suggested)
	}
}

func TestDetectSimilarSkipsWildcardPatterns(t *testing.T) {
	store := &Store{Private: make(Table), Public: make(Table)}
	store.Private.Set("FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", "starbucks*",
		entry("Starbucks", "FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", ScopePrivate))
	store.Private.Set("FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", "starbucks store",
		entry("Starbucks", "FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", ScopePrivate))
	if candidates := DetectSimilar(store); len(candidates) != 0 {
		t.Errorf("wildcard patterns must not join groups: %v", candidates)
	}
}

func TestSuggestWildcard(t *testing.T) {
	tests := []struct {
		name  string
		group []string
		want  string
	}{
		// The full shared prefix survives, store-number marker included.
		{"common prefix", []string{"walmart #1234", "walmart #5678"}, "walmart #*"},
		{"common suffix", []string{"city market", "plaza market"}, "*market"},
		{"frequent token", []string{"the corner shop", "corner the amzn"}, "*corner*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := suggestWildcard(tt.group); got != tt.want {
				t.Errorf("suggestWildcard(%v) = %q, want %q", tt.group, got, tt.want)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	candidate := PatternRef{
		Primary:  "FOOD_AND_DRINK",
		Detailed: "FOOD_AND_DRINK_COFFEE",
		Pattern:  "blue bottle",
		Entry:    entry("Blue Bottle", "FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", ScopePrivate),
	}
	existingPublic := Occurrence{
		File: "public.toml",
		Ref: PatternRef{
			Primary:  "FOOD_AND_DRINK",
			Detailed: "FOOD_AND_DRINK_COFFEE",
			Pattern:  "blue bottle",
			Entry:    entry("Blue Bottle Coffee", "FOOD_AND_DRINK", "FOOD_AND_DRINK_COFFEE", ScopePublic),
		},
	}
	cross := Conflict{Kind: ConflictCrossFile, Candidate: candidate, Existing: existingPublic}
	same := Conflict{Kind: ConflictSameFile, Candidate: candidate, Existing: existingPublic}

	t.Run("keep discards candidate", func(t *testing.T) {
		d, err := Decide(cross, ActionKeep)
		if err != nil || d.RemoveExisting || d.Insert != nil {
			t.Errorf("Decide(keep) = %+v, %v", d, err)
		}
	})
	t.Run("replace moves candidate in", func(t *testing.T) {
		d, err := Decide(cross, ActionReplace)
		if err != nil || !d.RemoveExisting || d.Insert == nil || d.Insert.Entry.Name != "Blue Bottle" {
			t.Errorf("Decide(replace) = %+v, %v", d, err)
		}
	})
	t.Run("update-scope keeps existing fields", func(t *testing.T) {
		d, err := Decide(cross, ActionUpdateScope)
		if err != nil || d.Insert == nil {
			t.Fatalf("Decide(update-scope) = %+v, %v", d, err)
		}
		if d.Insert.Entry.Name != "Blue Bottle Coffee" || d.Insert.Entry.Scope != ScopePrivate {
			t.Errorf("moved entry = %+v, want existing fields at candidate scope", d.Insert.Entry)
		}
	})
	t.Run("cross-file rejects same-file actions", func(t *testing.T) {
		if _, err := Decide(cross, ActionSkip); err == nil {
			t.Error("skip must be illegal for cross-file conflicts")
		}
	})
	t.Run("same-file rejects cross-file actions", func(t *testing.T) {
		if _, err := Decide(same, ActionKeep); err == nil {
			t.Error("keep must be illegal for same-file conflicts")
		}
	})
}

func TestBatchIngestion(t *testing.T) {
	store := testStore(t)
	if err := WriteTable(store.PrivatePath, store.Private, ScopePrivate); err != nil {
		t.Fatal(err)
	}
	if err := WriteTable(store.PublicPath, store.Public, ScopePublic); err != nil {
		t.Fatal(err)
	}

	candidates := []PatternRef{
		{
			Primary:  "TRANSPORTATION",
			Detailed: "TRANSPORTATION_GAS",
			Pattern:  "shell oil",
			Entry:    entry("Shell", "TRANSPORTATION", "TRANSPORTATION_GAS", ScopePrivate),
		},
		{
			// Same-file conflict with the stored private walmart entry.
			Primary:  "GENERAL_MERCHANDISE",
			Detailed: "GENERAL_MERCHANDISE_SUPERSTORES",
			Pattern:  "walmart",
			Entry:    entry("Walmart Inc", "GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", ScopePrivate),
		},
		{
			// Fails validation: bogus taxonomy pair.
			Primary:  "FOOD_AND_DRINK",
			Detailed: "BOGUS",
			Pattern:  "bogus cafe",
			Entry:    entry("Bogus", "FOOD_AND_DRINK", "BOGUS", ScopePrivate),
		},
	}

	batch := NewBatch(store, candidates)
	if err := batch.Validate(); err != nil {
		t.Fatal(err)
	}
	if len(batch.Rejected()) == 0 {
		t.Fatal("bogus candidate should be rejected in validation")
	}
	if err := batch.CheckConflicts(); err != nil {
		t.Fatal(err)
	}
	conflicts := batch.Conflicts()
	if len(conflicts) != 1 || conflicts[0].Kind != ConflictSameFile {
		t.Fatalf("conflicts = %v, want one same-file walmart conflict", conflicts)
	}

	if err := batch.Resolve(map[string]Action{"walmart": ActionOverwrite}); err != nil {
		t.Fatal(err)
	}
	if err := batch.Persist(); err != nil {
		t.Fatal(err)
	}
	if batch.State() != StatePersisted {
		t.Fatalf("state = %s, want PERSISTED", batch.State())
	}

	reloaded, err := LoadTable(store.PrivatePath)
	if err != nil {
		t.Fatal(err)
	}
	if e, ok := reloaded.Lookup("TRANSPORTATION", "TRANSPORTATION_GAS", "shell oil"); !ok || e.Name != "Shell" {
		t.Errorf("conflict-free candidate not persisted: %+v %v", e, ok)
	}
	if e, _ := reloaded.Lookup("GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", "walmart"); e.Name != "Walmart Inc" {
		t.Errorf("overwrite not persisted: %+v", e)
	}
	if _, ok := reloaded.Lookup("FOOD_AND_DRINK", "BOGUS", "bogus cafe"); ok {
		t.Error("rejected candidate reached disk")
	}
}

// A pattern filed in both tables must classify against the candidate's own
// file, with the other file's collision reported alongside. The same-file
// actions then apply: walmart lives in both tables in testStore.
func TestCheckConflictsPatternInBothFiles(t *testing.T) {
	store := testStore(t)
	if err := WriteTable(store.PrivatePath, store.Private, ScopePrivate); err != nil {
		t.Fatal(err)
	}
	if err := WriteTable(store.PublicPath, store.Public, ScopePublic); err != nil {
		t.Fatal(err)
	}

	candidate := PatternRef{
		Primary:  "GENERAL_MERCHANDISE",
		Detailed: "GENERAL_MERCHANDISE_SUPERSTORES",
		Pattern:  "walmart",
		Entry:    entry("Walmart Stores", "GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", ScopePublic),
	}
	batch := NewBatch(store, []PatternRef{candidate})
	if err := batch.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := batch.CheckConflicts(); err != nil {
		t.Fatal(err)
	}

	conflicts := batch.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %v, want exactly one", conflicts)
	}
	c := conflicts[0]
	if c.Kind != ConflictSameFile {
		t.Fatalf("kind = %s, want same_file against the public entry", c.Kind)
	}
	if c.Existing.File != store.PublicPath || c.Existing.Ref.Entry.Scope != ScopePublic {
		t.Errorf("existing = %+v, want the public occurrence", c.Existing)
	}
	if len(c.Others) != 1 || c.Others[0].File != store.PrivatePath {
		t.Errorf("others = %v, want the private collision reported", c.Others)
	}

	// Overwrite is legal for same-file conflicts and settles against the
	// public entry; the private one stays as-is.
	if err := batch.Resolve(map[string]Action{"walmart": ActionOverwrite}); err != nil {
		t.Fatal(err)
	}
	if err := batch.Persist(); err != nil {
		t.Fatal(err)
	}
	if e, _ := store.Public.Lookup("GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", "walmart"); e.Name != "Walmart Stores" {
		t.Errorf("public entry = %+v, want the overwriting candidate", e)
	}
	if e, ok := store.Private.Lookup("GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", "walmart"); !ok || e.Name != "Walmart" {
		t.Errorf("private entry = %+v %v, must be untouched", e, ok)
	}
}

func TestBatchAbortLeavesDiskUntouched(t *testing.T) {
	store := testStore(t)
	if err := WriteTable(store.PrivatePath, store.Private, ScopePrivate); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(store.PrivatePath)
	if err != nil {
		t.Fatal(err)
	}

	candidates := []PatternRef{
		{
			Primary:  "TRANSPORTATION",
			Detailed: "TRANSPORTATION_GAS",
			Pattern:  "chevron",
			Entry:    entry("Chevron", "TRANSPORTATION", "TRANSPORTATION_GAS", ScopePrivate),
		},
		{
			Primary:  "GENERAL_MERCHANDISE",
			Detailed: "GENERAL_MERCHANDISE_SUPERSTORES",
			Pattern:  "walmart",
			Entry:    entry("Walmart Inc", "GENERAL_MERCHANDISE", "GENERAL_MERCHANDISE_SUPERSTORES", ScopePrivate),
		},
	}
	batch := NewBatch(store, candidates)
	if err := batch.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := batch.CheckConflicts(); err != nil {
		t.Fatal(err)
	}
	if err := batch.Resolve(map[string]Action{"walmart": ActionAbort}); err != nil {
		t.Fatal(err)
	}
	if batch.State() != StateAborted {
		t.Fatalf("state = %s, want ABORTED", batch.State())
	}
	if err := batch.Persist(); err == nil {
		t.Fatal("persisting an aborted batch must fail")
	}

	after, err := os.ReadFile(store.PrivatePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("abort modified the mapping file")
	}
	if _, ok := store.Private.Lookup("TRANSPORTATION", "TRANSPORTATION_GAS", "chevron"); ok {
		t.Error("abort leaked the conflict-free candidate into the live table")
	}
}

func TestBatchStateOrder(t *testing.T) {
	store := testStore(t)
	batch := NewBatch(store, nil)
	if err := batch.CheckConflicts(); err == nil {
		t.Error("conflict check before validate must fail")
	}
	if err := batch.Resolve(nil); err == nil {
		t.Error("resolve before conflict check must fail")
	}
	if err := batch.Persist(); err == nil {
		t.Error("persist before resolve must fail")
	}
}

func TestBackupRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "private_mappings.toml")
	if err := os.WriteFile(path, []byte("# v0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < backupKeep+3; i++ {
		if _, err := Backup(path, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "backups"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != backupKeep {
		t.Fatalf("got %d backups, want %d after rotation", len(entries), backupKeep)
	}
	// Oldest survivor is the fourth copy taken.
	want := "private_mappings.toml." + base.Add(3*time.Minute).Format("20060102_150405") + ".bak"
	if entries[0].Name() != want {
		t.Errorf("oldest backup = %s, want %s", entries[0].Name(), want)
	}
}

func TestBackupMissingFile(t *testing.T) {
	dest, err := Backup(filepath.Join(t.TempDir(), "absent.toml"), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if dest != "" {
		t.Errorf("backup of a missing file wrote %s", dest)
	}
}
