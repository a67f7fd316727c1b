// Package pipeline schedules website scrapes across a bounded worker
// pool and aggregates the results.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/company-match/internal/model"
)

// DefaultWorkers is the default scrape concurrency.
const DefaultWorkers = 30

// progressEvery controls how often completion progress is logged.
const progressEvery = 25

// Scraper is the per-target work unit the pipeline schedules.
type Scraper interface {
	Scrape(ctx context.Context, url string) model.ScrapedRow
}

// Runner fans scrape targets out over a bounded pool of workers.
type Runner struct {
	scraper Scraper
	workers int
	limiter *rate.Limiter
}

// NewRunner creates a Runner. workers bounds concurrency (DefaultWorkers
// when <= 0); limiter optionally throttles global request rate and may
// be nil.
func NewRunner(scraper Scraper, workers int, limiter *rate.Limiter) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Runner{scraper: scraper, workers: workers, limiter: limiter}
}

// Run scrapes every URL with bounded parallelism and returns the rows
// as they completed. Row order is not meaningful; callers key results
// by website. Individual scrape failures are recorded in their rows;
// only context cancellation (the pipeline wall clock) aborts the run.
func (r *Runner) Run(ctx context.Context, urls []string) ([]model.ScrapedRow, error) {
	runID := uuid.NewString()
	zap.L().Info("pipeline: starting",
		zap.String("run_id", runID),
		zap.Int("targets", len(urls)),
		zap.Int("workers", r.workers),
	)

	var (
		mu   sync.Mutex
		rows = make([]model.ScrapedRow, 0, len(urls))
		done int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, u := range urls {
		g.Go(func() error {
			if r.limiter != nil {
				if err := r.limiter.Wait(gCtx); err != nil {
					return eris.Wrap(err, "pipeline: rate limit wait")
				}
			}
			if gCtx.Err() != nil {
				return eris.Wrap(gCtx.Err(), "pipeline: cancelled")
			}

			row := r.scraper.Scrape(gCtx, u)

			mu.Lock()
			rows = append(rows, row)
			done++
			completed := done
			mu.Unlock()

			if completed%progressEvery == 0 || completed == len(urls) {
				zap.L().Info("pipeline: progress",
					zap.String("run_id", runID),
					zap.Int("completed", completed),
					zap.Int("total", len(urls)),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return rows, eris.Wrap(err, "pipeline: aborted")
	}
	// When the wall clock expires while every remaining target is
	// in-flight, the scrapers absorb the cancellation into failed rows
	// and no worker errors; the run must still count as aborted.
	if err := ctx.Err(); err != nil {
		return rows, eris.Wrap(err, "pipeline: aborted")
	}

	zap.L().Info("pipeline: complete",
		zap.String("run_id", runID),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}
