package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"moneymapper/internal/logger"
	"moneymapper/internal/mappings"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		runValidate(log)
	case "duplicates":
		runDuplicates(log)
	case "similar":
		runSimilar(log)
	case "ingest":
		runIngest(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Mapping table maintenance")
	fmt.Println("\nUsage:")
	fmt.Println("  mappings <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  validate    Check both tables against the taxonomy")
	fmt.Println("  duplicates  Report patterns filed more than once")
	fmt.Println("  similar     Suggest wildcard consolidations")
	fmt.Println("  ingest      Merge a file of new mappings into the tables")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'mappings <command> -h' for more information on a command.")
}

func storeFlags(fs *flag.FlagSet) (private, public *string) {
	private = fs.String("private", "config/private_mappings.toml", "private mapping table")
	public = fs.String("public", "config/public_mappings.toml", "public mapping table")
	return private, public
}

func loadStore(log zerolog.Logger, private, public string) *mappings.Store {
	store, err := mappings.LoadStore(private, public)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load mapping tables")
	}
	return store
}

func runValidate(log zerolog.Logger) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	private, public := storeFlags(fs)
	fs.Parse(os.Args[2:])

	store := loadStore(log, *private, *public)
	issues := mappings.Validate(store)
	for _, issue := range issues {
		fmt.Println(issue)
	}
	fmt.Printf("%d patterns checked, %d issues\n", store.Private.Count()+store.Public.Count(), len(issues))
	if len(issues) > 0 {
		os.Exit(1)
	}
}

func runDuplicates(log zerolog.Logger) {
	fs := flag.NewFlagSet("duplicates", flag.ExitOnError)
	private, public := storeFlags(fs)
	fs.Parse(os.Args[2:])

	store := loadStore(log, *private, *public)
	reports := mappings.DetectDuplicates(store)
	for _, report := range reports {
		fmt.Println(report)
	}
	fmt.Printf("%d duplicated patterns\n", len(reports))
	if len(reports) > 0 {
		os.Exit(1)
	}
}

func runSimilar(log zerolog.Logger) {
	fs := flag.NewFlagSet("similar", flag.ExitOnError)
	private, public := storeFlags(fs)
	fs.Parse(os.Args[2:])

	store := loadStore(log, *private, *public)
	for _, c := range mappings.DetectSimilar(store) {
		fmt.Printf("%s %s (%s): %v -> suggest %q\n", c.File, c.Name, c.Detailed, c.Patterns, c.Suggested)
	}
}

// runIngest merges a candidate file through the batch state machine. Conflict
// decisions come from flags, not prompts, so runs are scriptable.
func runIngest(log zerolog.Logger) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	private, public := storeFlags(fs)
	newFile := fs.String("new", "", "TOML file of candidate mappings")
	crossAction := fs.String("cross-action", string(mappings.ActionKeep),
		"action for cross-file conflicts: keep, replace, update-scope, abort")
	sameAction := fs.String("same-action", string(mappings.ActionSkip),
		"action for same-file conflicts: skip, overwrite, abort")
	fs.Parse(os.Args[2:])

	if *newFile == "" {
		log.Fatal().Msg("Error: --new is required")
	}

	store := loadStore(log, *private, *public)
	table, err := mappings.LoadTable(*newFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load candidate mappings")
	}
	candidates := table.Flatten()
	if len(candidates) == 0 {
		fmt.Println("nothing to ingest")
		return
	}

	batch := mappings.NewBatch(store, candidates)
	if err := batch.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Validation step failed")
	}
	for _, issue := range batch.Rejected() {
		log.Warn().Str("pattern", issue.Ref.Pattern).Msg(issue.Problem)
	}
	if err := batch.CheckConflicts(); err != nil {
		log.Fatal().Err(err).Msg("Conflict check failed")
	}

	actions := make(map[string]mappings.Action)
	for _, c := range batch.Conflicts() {
		fmt.Println("conflict:", c)
		if c.Kind == mappings.ConflictCrossFile {
			actions[c.Candidate.Pattern] = mappings.Action(*crossAction)
		} else {
			actions[c.Candidate.Pattern] = mappings.Action(*sameAction)
		}
	}

	if err := batch.Resolve(actions); err != nil {
		log.Fatal().Err(err).Msg("Conflict resolution failed")
	}
	if batch.State() == mappings.StateAborted {
		fmt.Println("batch aborted, files untouched")
		os.Exit(1)
	}
	if err := batch.Persist(); err != nil {
		log.Fatal().Err(err).Msg("Failed to persist batch")
	}
	fmt.Printf("ingested %d candidates (%d rejected, %d conflicts resolved)\n",
		len(candidates), len(batch.Rejected()), len(batch.Conflicts()))
}
