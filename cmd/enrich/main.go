package main

import (
	"flag"
	"fmt"

	"github.com/google/uuid"

	"moneymapper/internal/config"
	"moneymapper/internal/domain"
	"moneymapper/internal/enrich"
	"moneymapper/internal/logger"
	"moneymapper/internal/mappings"
	"moneymapper/internal/pipeline"
	"moneymapper/internal/privacy"
	"moneymapper/internal/report"
	"moneymapper/internal/taxonomy"
)

func main() {
	log := logger.New()

	input := flag.String("input", "", "raw transactions JSON from the parse step")
	output := flag.String("output", "enriched.json", "output path for categorized transactions JSON")
	privateFile := flag.String("private", "config/private_mappings.toml", "private mapping table")
	publicFile := flag.String("public", "config/public_mappings.toml", "public mapping table")
	keywordsFile := flag.String("keywords", "config/category_keywords.toml", "taxonomy keyword lists")
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
	store, err := mappings.LoadStore(*privateFile, *publicFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load mapping tables")
	}
	keywords, err := taxonomy.LoadKeywordsOptional(*keywordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load category keywords")
	}
	redactor, err := privacy.New(cfg.Privacy.Patterns, cfg.Privacy.Keywords, cfg.Privacy.FuzzyThreshold)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build redactor")
	}

	raw, problems, err := pipeline.LoadTransactions(*input)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}
	for _, problem := range problems {
		log.Warn().Str("file", *input).Msg(problem)
	}

	categorizer := enrich.NewCategorizer(store, keywords, cfg.FuzzyThreshold)
	enriched := make([]domain.EnrichedTransaction, 0, len(raw))
	for _, tx := range raw {
		e := categorizer.Enrich(tx)
		// Redaction runs after matching so patterns see the full text.
		e.Description = redactor.Redact(e.Description)
		enriched = append(enriched, e)
	}

	if err := pipeline.SaveEnriched(*output, enriched); err != nil {
		log.Fatal().Err(err).Msg("Failed to write enriched transactions")
	}

	stats := report.Build(uuid.NewString(), enriched)
	log.Info().Int("total", stats.Total).Int("categorized", stats.Categorized).Msg("Enrichment finished")
	fmt.Print(stats.Render())
}
