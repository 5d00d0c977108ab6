// Package pipeline orchestrates statement processing: detect the statement
// type, pull out transactions, and resolve their dates against the statement
// period. Documents are independent; one bad document never fails a run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"moneymapper/internal/config"
	"moneymapper/internal/dates"
	"moneymapper/internal/detect"
	"moneymapper/internal/domain"
	"moneymapper/internal/extract"
	"moneymapper/internal/logger"
)

// DocumentIssueKind classifies a per-document processing problem.
type DocumentIssueKind string

const (
	// IssueDetectionFailed: no statement type met its threshold; the
	// document is skipped.
	IssueDetectionFailed DocumentIssueKind = "detection_failed"
	// IssueExtraction wraps a non-fatal extractor issue.
	IssueExtraction DocumentIssueKind = "extraction"
	// IssueNoPeriod: no statement period found; partial dates fall back
	// to the current year.
	IssueNoPeriod DocumentIssueKind = "no_period"
)

// DocumentIssue is one reported problem with enough context to locate it.
type DocumentIssue struct {
	Kind       DocumentIssueKind
	SourceFile string
	Detail     string
}

func (i DocumentIssue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.SourceFile, i.Kind, i.Detail)
}

// DocumentResult is everything one document produced.
type DocumentResult struct {
	SourceFile   string
	AccountType  domain.AccountType
	Score        int
	Period       *domain.StatementPeriod
	Transactions []domain.RawTransaction
	Issues       []DocumentIssue
}

// RunResult aggregates a batch of documents under one run ID.
type RunResult struct {
	RunID        string
	Documents    []DocumentResult
	Transactions []domain.RawTransaction
	Issues       []DocumentIssue
}

// Processor runs the extraction pipeline over statement text blobs.
type Processor struct {
	cfg       *config.Config
	extractor *extract.Extractor
	resolver  *dates.Resolver
}

func New(cfg *config.Config) *Processor {
	return &Processor{
		cfg:       cfg,
		extractor: extract.New(cfg),
		resolver:  dates.NewResolver(),
	}
}

// NewWithResolver injects a clock-pinned date resolver, for tests.
func NewWithResolver(cfg *config.Config, resolver *dates.Resolver) *Processor {
	return &Processor{cfg: cfg, extractor: extract.New(cfg), resolver: resolver}
}

// Process handles one document. Detection failure skips the document with an
// issue; extraction issues are carried through, never fatal.
func (p *Processor) Process(ctx context.Context, sourceFile, text string) DocumentResult {
	log := logger.FromContext(ctx)
	result := DocumentResult{SourceFile: sourceFile}

	detected, ok := detect.Detect(text, p.cfg)
	if !ok {
		log.Warn().Str("file", sourceFile).
			Interface("scores", detect.Scores(text, p.cfg)).
			Msg("No statement type met its threshold, skipping document")
		result.Issues = append(result.Issues, DocumentIssue{
			Kind:       IssueDetectionFailed,
			SourceFile: sourceFile,
			Detail:     "no statement type met its threshold",
		})
		return result
	}
	result.AccountType = detected.Type
	result.Score = detected.Score
	log.Info().Str("file", sourceFile).
		Str("account_type", string(detected.Type)).
		Int("score", detected.Score).
		Msg("Detected statement type")

	if period, ok := dates.ExtractPeriod(text, p.cfg.PeriodPatterns); ok {
		result.Period = &period
		log.Debug().Str("file", sourceFile).
			Str("start", period.Start.String()).
			Str("end", period.End.String()).
			Msg("Extracted statement period")
	} else {
		result.Issues = append(result.Issues, DocumentIssue{
			Kind:       IssueNoPeriod,
			SourceFile: sourceFile,
			Detail:     "no statement period found, partial dates use the current year",
		})
	}

	txns, extractIssues := p.extractor.Extract(text, detected.Type)
	for _, issue := range extractIssues {
		log.Warn().Str("file", sourceFile).
			Str("section", issue.Section).
			Str("kind", string(issue.Kind)).
			Msg(issue.Detail)
		result.Issues = append(result.Issues, DocumentIssue{
			Kind:       IssueExtraction,
			SourceFile: sourceFile,
			Detail:     issue.String(),
		})
	}

	for i := range txns {
		txns[i].SourceFile = sourceFile
		txns[i].Date = p.resolver.Resolve(txns[i].Date, result.Period)
		if txns[i].PostingDate != "" {
			txns[i].PostingDate = p.resolver.Resolve(txns[i].PostingDate, result.Period)
		}
	}
	result.Transactions = txns

	log.Info().Str("file", sourceFile).
		Int("transactions", len(txns)).
		Int("issues", len(result.Issues)).
		Msg("Document processed")
	return result
}

// Run processes every .txt blob in dir, in name order, under a fresh run ID.
// Only an unreadable directory is an error; unreadable or unparsable files
// are reported and skipped.
func (p *Processor) Run(ctx context.Context, dir string) (RunResult, error) {
	log := logger.FromContext(ctx)
	run := RunResult{RunID: uuid.NewString()}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return run, fmt.Errorf("read statement directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	log.Info().Str("run_id", run.RunID).Int("documents", len(names)).Msg("Starting parse run")
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Error().Err(err).Str("file", name).Msg("Failed to read statement")
			run.Issues = append(run.Issues, DocumentIssue{
				Kind:       IssueExtraction,
				SourceFile: name,
				Detail:     err.Error(),
			})
			continue
		}
		result := p.Process(ctx, name, string(data))
		run.Documents = append(run.Documents, result)
		run.Transactions = append(run.Transactions, result.Transactions...)
		run.Issues = append(run.Issues, result.Issues...)
	}
	log.Info().Str("run_id", run.RunID).
		Int("transactions", len(run.Transactions)).
		Int("issues", len(run.Issues)).
		Msg("Parse run finished")
	return run, nil
}
