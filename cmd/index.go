package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/dataset"
	"github.com/sells-group/company-match/internal/index"
)

var (
	indexScraped string
	indexNames   string
	indexMerged  string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Merge scraped data with the name table and build the search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if indexScraped == "" {
			indexScraped = cfg.Data.ScrapedCSV
		}
		if indexNames == "" {
			indexNames = cfg.Data.NamesCSV
		}
		if indexMerged == "" {
			indexMerged = cfg.Data.MergedCSV
		}
		if err := cfg.Validate("index"); err != nil {
			return err
		}

		store, err := buildIndex(indexScraped, indexNames, indexMerged)
		if err != nil {
			return err
		}
		return store.Close()
	},
}

// buildIndex runs the full setup path: merge the two CSVs, write the
// merged profile file, and load everything into a fresh index.
func buildIndex(scrapedPath, namesPath, mergedPath string) (*index.Store, error) {
	scraped, err := dataset.LoadScraped(scrapedPath)
	if err != nil {
		return nil, err
	}
	names, err := dataset.LoadNames(namesPath)
	if err != nil {
		return nil, err
	}

	records := dataset.Merge(scraped, names)
	if err := dataset.WriteMerged(mergedPath, records); err != nil {
		return nil, err
	}

	store, err := index.Open(cfg.Index.Path, cfg.Index.Name)
	if err != nil {
		return nil, err
	}
	if err := store.CreateOrReplace(); err != nil {
		store.Close()
		return nil, err
	}

	report, err := store.BulkLoad(records, index.DefaultChunkSize)
	if err != nil {
		store.Close()
		return nil, err
	}
	if report.Indexed == 0 {
		store.Close()
		return nil, eris.New("index: no documents indexed")
	}
	if err := store.Refresh(); err != nil {
		store.Close()
		return nil, err
	}

	zap.L().Info("index: setup complete",
		zap.String("name", cfg.Index.Name),
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", report.Failed),
	)
	return store, nil
}

func init() {
	indexCmd.Flags().StringVar(&indexScraped, "scraped", "", "scraped rows CSV (default from config)")
	indexCmd.Flags().StringVar(&indexNames, "names", "", "company names CSV (default from config)")
	indexCmd.Flags().StringVar(&indexMerged, "merged", "", "merged profiles output CSV (default from config)")
	rootCmd.AddCommand(indexCmd)
}
