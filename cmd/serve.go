package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/index"
	"github.com/sells-group/company-match/internal/matcher"
	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the company matching API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, err := openOrSetupIndex()
		if err != nil {
			return err
		}
		defer store.Close()

		m := matcher.New(store)
		runSampleMatch(ctx, m)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: server.New(m).Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// openOrSetupIndex opens the existing index, or builds it from the data
// CSVs when missing. A failed build is downgraded to a warning so the
// API can still start against an empty index.
func openOrSetupIndex() (*index.Store, error) {
	if index.Exists(cfg.Index.Path, cfg.Index.Name) {
		store, err := index.Open(cfg.Index.Path, cfg.Index.Name)
		if err != nil {
			return nil, err
		}
		count, err := store.Count()
		if err != nil {
			store.Close()
			return nil, err
		}
		zap.L().Info("serve: index ready",
			zap.String("name", cfg.Index.Name),
			zap.Uint64("docs", count),
		)
		return store, nil
	}

	zap.L().Warn("serve: index missing, attempting setup",
		zap.String("name", cfg.Index.Name),
	)
	store, err := buildIndex(cfg.Data.ScrapedCSV, cfg.Data.NamesCSV, cfg.Data.MergedCSV)
	if err == nil {
		return store, nil
	}

	zap.L().Warn("serve: setup failed, API functionality may be degraded", zap.Error(err))
	return index.Open(cfg.Index.Path, cfg.Index.Name)
}

// runSampleMatch smoke-tests the matcher against the bundled sample
// input, when present. Failures only log.
func runSampleMatch(ctx context.Context, m *matcher.Matcher) {
	queries, err := loadSampleQueries(cfg.Data.SampleCSV)
	if err != nil {
		zap.L().Debug("serve: skipping sample match", zap.Error(err))
		return
	}

	matched := 0
	for _, q := range queries {
		res, err := m.Match(ctx, q)
		if err != nil {
			zap.L().Warn("serve: sample match failed", zap.Error(err))
			return
		}
		if res != nil {
			matched++
		}
	}
	zap.L().Info("serve: sample match",
		zap.String("match_rate", fmt.Sprintf("%.2f%%", float64(matched)/float64(len(queries))*100)),
		zap.Int("matched", matched),
		zap.Int("total", len(queries)),
	)
}

func loadSampleQueries(path string) ([]model.Query, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "serve: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "serve: read sample header")
	}
	col := map[string]int{}
	for i, h := range headers {
		col[strings.TrimSpace(h)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var queries []model.Query
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "serve: read sample row")
		}
		q := model.Query{
			Name:     cell(row, "input name"),
			Website:  cell(row, "input website"),
			Phone:    cell(row, "input phone"),
			Facebook: cell(row, "input_facebook"),
		}
		if !q.Empty() {
			queries = append(queries, q)
		}
	}
	if len(queries) == 0 {
		return nil, eris.Errorf("serve: no sample queries in %s", path)
	}
	return queries, nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
