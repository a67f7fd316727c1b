package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/company-match/internal/dataset"
	"github.com/sells-group/company-match/internal/fetch"
	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/pipeline"
)

var (
	scrapeInput    string
	scrapeOutput   string
	scrapeWorkers  int
	scrapeTimeout  int
	scrapeRetries  int
	scrapeTest     string
	scrapeNoChrome bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape websites for contact and social signals",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyScrapeFlags(cmd)
		if err := cfg.Validate("scrape"); err != nil {
			return err
		}

		scraper := buildScraper()

		// Single-site test mode: scrape one URL and dump the row.
		if scrapeTest != "" {
			row := scraper.Scrape(cmd.Context(), scrapeTest)
			out, err := rowJSON(row)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}

		websites, err := dataset.LoadWebsites(scrapeInput)
		if err != nil {
			return err
		}
		zap.L().Info("scrape: loaded targets",
			zap.String("input", scrapeInput),
			zap.Int("count", len(websites)),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Wall-clock ceiling over the whole run; hitting it is fatal.
		wallClock := time.Duration(cfg.Pipeline.WallClockMins) * time.Minute
		ctx, cancel := context.WithTimeout(ctx, wallClock)
		defer cancel()

		var limiter *rate.Limiter
		if cfg.Pipeline.RequestsPerSec > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.Pipeline.RequestsPerSec), 1)
		}

		runner := pipeline.NewRunner(scraper, cfg.Pipeline.Workers, limiter)
		start := time.Now()
		rows, err := runner.Run(ctx, websites)
		if err != nil {
			return err
		}
		zap.L().Info("scrape: run finished", zap.Duration("elapsed", time.Since(start)))

		if err := dataset.WriteScraped(scrapeOutput, rows); err != nil {
			return err
		}

		pipeline.Analyze(rows).Log()
		return nil
	},
}

// applyScrapeFlags folds explicit flag values into the loaded config so
// validation sees the effective settings.
func applyScrapeFlags(cmd *cobra.Command) {
	if scrapeInput == "" {
		scrapeInput = cfg.Data.WebsitesCSV
	}
	if scrapeOutput == "" {
		scrapeOutput = cfg.Data.ScrapedCSV
	}
	if cmd.Flags().Changed("workers") {
		cfg.Pipeline.Workers = scrapeWorkers
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Scrape.TimeoutSecs = scrapeTimeout
	}
	if cmd.Flags().Changed("retries") {
		cfg.Scrape.Retries = scrapeRetries
	}
	if scrapeNoChrome {
		cfg.Scrape.NoChrome = true
	}
}

func rowJSON(row model.ScrapedRow) (string, error) {
	out, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "scrape: encode result")
	}
	return string(out), nil
}

// buildScraper assembles the two-tier fetch chain from config.
func buildScraper() *fetch.Scraper {
	timeout := time.Duration(cfg.Scrape.TimeoutSecs) * time.Second

	fetchers := []fetch.Fetcher{fetch.NewHTTPFetcher(timeout)}
	if !cfg.Scrape.NoChrome {
		fetchers = append(fetchers, fetch.NewChromeFetcher(cfg.Scrape.ChromePath, timeout))
	}
	return fetch.NewScraper(fetch.NewChain(fetchers...), cfg.Scrape.Retries)
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeInput, "input", "", "websites CSV (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeOutput, "output", "", "scraped rows CSV (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeWorkers, "workers", 0, "concurrent scrape workers (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeTimeout, "timeout", 0, "per-fetch timeout in seconds (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeRetries, "retries", 0, "retries per site (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeTest, "test", "", "scrape a single URL and print the result")
	scrapeCmd.Flags().BoolVar(&scrapeNoChrome, "no-chrome", false, "disable the headless browser fallback tier")
	rootCmd.AddCommand(scrapeCmd)
}
