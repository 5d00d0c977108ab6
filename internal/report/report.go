// Package report summarizes a categorization run: how much was categorized,
// by which methods, and how confident the results are.
package report

import (
	"fmt"
	"sort"
	"strings"

	"moneymapper/internal/domain"
)

// Bucket boundaries for confidence distribution.
const (
	highConfidence   = 0.8
	mediumConfidence = 0.5
)

// topCategoryCount limits the category table to the heaviest hitters.
const topCategoryCount = 5

// MethodStats aggregates one categorization method.
type MethodStats struct {
	Count          int
	MeanConfidence float64
}

// ConfidenceBuckets counts transactions by confidence band.
type ConfidenceBuckets struct {
	High   int // >= 0.8
	Medium int // 0.5 to 0.8
	Low    int // < 0.5
}

// CategoryCount pairs a category with its transaction count.
type CategoryCount struct {
	Category string
	Count    int
}

// Stats is the always-produced summary of one enrichment run.
type Stats struct {
	RunID         string
	Total         int
	Categorized   int
	ByMethod      map[domain.Method]MethodStats
	Buckets       ConfidenceBuckets
	TopCategories []CategoryCount
}

// Rate is the fraction of transactions with a real category.
func (s Stats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Categorized) / float64(s.Total)
}

// Build computes run statistics over enriched transactions.
func Build(runID string, txns []domain.EnrichedTransaction) Stats {
	stats := Stats{
		RunID:    runID,
		Total:    len(txns),
		ByMethod: make(map[domain.Method]MethodStats),
	}

	confidenceSums := make(map[domain.Method]float64)
	categoryCounts := make(map[string]int)
	for _, t := range txns {
		if t.Categorized() {
			stats.Categorized++
		}
		m := stats.ByMethod[t.Method]
		m.Count++
		stats.ByMethod[t.Method] = m
		confidenceSums[t.Method] += t.Confidence

		switch {
		case t.Confidence >= highConfidence:
			stats.Buckets.High++
		case t.Confidence >= mediumConfidence:
			stats.Buckets.Medium++
		default:
			stats.Buckets.Low++
		}
		categoryCounts[t.Category]++
	}

	for method, m := range stats.ByMethod {
		m.MeanConfidence = confidenceSums[method] / float64(m.Count)
		stats.ByMethod[method] = m
	}

	for category, count := range categoryCounts {
		stats.TopCategories = append(stats.TopCategories, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(stats.TopCategories, func(i, j int) bool {
		a, b := stats.TopCategories[i], stats.TopCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	if len(stats.TopCategories) > topCategoryCount {
		stats.TopCategories = stats.TopCategories[:topCategoryCount]
	}

	return stats
}

// Render formats the stats as the text block the CLI prints.
func (s Stats) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d transactions, %d categorized (%.1f%%)\n",
		s.RunID, s.Total, s.Categorized, 100*s.Rate())

	fmt.Fprintf(&b, "confidence: %d high (>=%.1f), %d medium, %d low (<%.1f)\n",
		s.Buckets.High, highConfidence, s.Buckets.Medium, s.Buckets.Low, mediumConfidence)

	methods := make([]domain.Method, 0, len(s.ByMethod))
	for method := range s.ByMethod {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	for _, method := range methods {
		m := s.ByMethod[method]
		fmt.Fprintf(&b, "  %-22s %4d  mean confidence %.2f\n", method, m.Count, m.MeanConfidence)
	}

	if len(s.TopCategories) > 0 {
		b.WriteString("top categories:\n")
		for _, c := range s.TopCategories {
			fmt.Fprintf(&b, "  %-36s %4d\n", c.Category, c.Count)
		}
	}
	return b.String()
}
