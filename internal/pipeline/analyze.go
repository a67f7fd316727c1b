package pipeline

import (
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/model"
)

// Stats summarizes a completed scrape run.
type Stats struct {
	Total      int
	Successful int
	// Coverage is the percentage of targets that scraped successfully.
	Coverage float64
	// FillRates maps each signal field to the percentage of successful
	// scrapes that produced at least one value for it.
	FillRates  map[string]float64
	RetryStats RetryStats
}

// RetryStats summarizes retry behavior across a run.
type RetryStats struct {
	Retried    int
	AvgRetries float64
	MaxRetries int
}

// Analyze computes coverage, per-field fill rates, and retry statistics
// for a set of scraped rows.
func Analyze(rows []model.ScrapedRow) Stats {
	stats := Stats{
		Total:     len(rows),
		FillRates: make(map[string]float64),
	}

	fieldCounts := map[string]int{
		"phones":          0,
		"addresses":       0,
		"facebook_links":  0,
		"twitter_links":   0,
		"instagram_links": 0,
		"linkedin_links":  0,
		"youtube_links":   0,
	}

	totalRetries := 0
	for _, row := range rows {
		totalRetries += row.Retries
		if row.Retries > 0 {
			stats.RetryStats.Retried++
		}
		if row.Retries > stats.RetryStats.MaxRetries {
			stats.RetryStats.MaxRetries = row.Retries
		}

		if row.Status != model.ScrapeSuccess {
			continue
		}
		stats.Successful++

		if len(row.Phones) > 0 {
			fieldCounts["phones"]++
		}
		if len(row.Addresses) > 0 {
			fieldCounts["addresses"]++
		}
		if len(row.FacebookLinks) > 0 {
			fieldCounts["facebook_links"]++
		}
		if len(row.TwitterLinks) > 0 {
			fieldCounts["twitter_links"]++
		}
		if len(row.InstagramLinks) > 0 {
			fieldCounts["instagram_links"]++
		}
		if len(row.LinkedinLinks) > 0 {
			fieldCounts["linkedin_links"]++
		}
		if len(row.YoutubeLinks) > 0 {
			fieldCounts["youtube_links"]++
		}
	}

	if stats.Total > 0 {
		stats.Coverage = float64(stats.Successful) / float64(stats.Total) * 100
		stats.RetryStats.AvgRetries = float64(totalRetries) / float64(stats.Total)
	}
	if stats.Successful > 0 {
		for field, count := range fieldCounts {
			stats.FillRates[field] = float64(count) / float64(stats.Successful) * 100
		}
	}

	return stats
}

// Log emits the run summary through the global logger.
func (s Stats) Log() {
	zap.L().Info("pipeline: analysis",
		zap.Int("total", s.Total),
		zap.Int("successful", s.Successful),
		zap.Float64("coverage_pct", s.Coverage),
		zap.Int("retried", s.RetryStats.Retried),
		zap.Float64("avg_retries", s.RetryStats.AvgRetries),
		zap.Int("max_retries", s.RetryStats.MaxRetries),
	)
	for field, rate := range s.FillRates {
		zap.L().Info("pipeline: fill rate",
			zap.String("field", field),
			zap.Float64("pct", rate),
		)
	}
}
