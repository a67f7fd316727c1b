package server

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-match/internal/model"
)

// Input column names of the uploaded batch file.
const (
	colName     = "input name"
	colWebsite  = "input website"
	colPhone    = "input phone"
	colFacebook = "input_facebook"
)

func isCSVFilename(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".csv")
}

// processCSV spools the upload to a temporary file, matches every row,
// and returns the per-row results. The temporary file is removed on all
// exit paths.
func (s *Server) processCSV(ctx context.Context, src io.Reader) ([]bulkResult, int, error) {
	tmp, err := os.CreateTemp("", "upload-*.csv")
	if err != nil {
		return nil, 0, eris.Wrap(err, "server: create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, 0, eris.Wrap(err, "server: spool upload")
	}
	if err := tmp.Close(); err != nil {
		return nil, 0, eris.Wrap(err, "server: spool upload")
	}

	f, err := os.Open(tmp.Name())
	if err != nil {
		return nil, 0, eris.Wrap(err, "server: reopen upload")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, 0, eris.Wrap(err, "server: read csv header")
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

	var results []bulkResult
	matched := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, eris.Wrap(err, "server: read csv row")
		}

		q := model.Query{
			Name:     cell(row, colName),
			Website:  cell(row, colWebsite),
			Phone:    cell(row, colPhone),
			Facebook: cell(row, colFacebook),
		}
		var match *model.MatchResult
		if !q.Empty() {
			match, err = s.matcher.Match(ctx, q)
			if err != nil {
				return nil, 0, eris.Wrap(err, "server: match row")
			}
		}
		if match != nil {
			matched++
		}
		results = append(results, bulkResult{Input: q, Match: match})
	}

	if len(results) == 0 {
		return nil, 0, eris.New("server: csv has no data rows")
	}
	return results, matched, nil
}
