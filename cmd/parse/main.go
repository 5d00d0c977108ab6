package main

import (
	"context"
	"flag"
	"fmt"

	"moneymapper/internal/config"
	"moneymapper/internal/logger"
	"moneymapper/internal/pipeline"
)

func main() {
	log := logger.New()

	input := flag.String("input", "", "directory of statement text files (.txt)")
	output := flag.String("output", "transactions.json", "output path for raw transactions JSON")
	patterns := flag.String("patterns", "config/statement_patterns.toml", "statement pattern config")
	settings := flag.String("settings", "config/settings.toml", "settings file")
	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("Error: --input is required")
	}

	cfg, err := config.Load(*patterns, *settings)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := logger.WithContext(context.Background(), log)

	run, err := pipeline.New(cfg).Run(ctx, *input)
	if err != nil {
		log.Fatal().Err(err).Msg("Parse run failed")
	}

	if err := pipeline.SaveTransactions(*output, run.Transactions); err != nil {
		log.Fatal().Err(err).Msg("Failed to write transactions")
	}

	for _, issue := range run.Issues {
		fmt.Println("issue:", issue)
	}
	fmt.Printf("run %s: %d documents, %d transactions -> %s\n",
		run.RunID, len(run.Documents), len(run.Transactions), *output)
}
