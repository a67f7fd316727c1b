// Package dataset loads the scrape inputs and outputs, merges scraped
// rows with the company-name table, and produces indexable records.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/company-match/internal/model"
)

// scrapedHeader is the column order of scraped_company_data.csv.
var scrapedHeader = []string{
	"website", "domain", "status", "phones", "addresses",
	"facebook_links", "twitter_links", "instagram_links",
	"linkedin_links", "youtube_links", "retries", "error",
}

// readCSV reads a whole CSV file, returning a column->index map from
// the header row plus the data rows. Rows shorter than the header are
// tolerated; missing cells read as "".
func readCSV(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, eris.Wrapf(err, "dataset: read header of %s", path)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrapf(err, "dataset: read row of %s", path)
		}
		rows = append(rows, record)
	}
	return cols, rows, nil
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// LoadWebsites reads the scrape target list (single `domain` column,
// header present).
func LoadWebsites(path string) ([]string, error) {
	cols, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if _, ok := cols["domain"]; !ok {
		return nil, eris.Errorf("dataset: %s has no domain column", path)
	}

	var sites []string
	for _, row := range rows {
		if site := cell(row, cols, "domain"); site != "" {
			sites = append(sites, site)
		}
	}
	return sites, nil
}

// LoadNames reads the externally supplied company-name table.
func LoadNames(path string) ([]model.NameRow, error) {
	cols, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	names := make([]model.NameRow, 0, len(rows))
	for _, row := range rows {
		names = append(names, model.NameRow{
			Domain:            cell(row, cols, "domain"),
			CommercialName:    cell(row, cols, "company_commercial_name"),
			LegalName:         cell(row, cols, "company_legal_name"),
			AllAvailableNames: cell(row, cols, "company_all_available_names"),
		})
	}
	return names, nil
}

// LoadScraped reads a scraped_company_data.csv back into rows,
// re-parsing the list-literal fields.
func LoadScraped(path string) ([]model.ScrapedRow, error) {
	cols, rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	out := make([]model.ScrapedRow, 0, len(rows))
	for _, row := range rows {
		retries, _ := strconv.Atoi(cell(row, cols, "retries"))
		out = append(out, model.ScrapedRow{
			Website:        cell(row, cols, "website"),
			Domain:         cell(row, cols, "domain"),
			Status:         model.ScrapeStatus(cell(row, cols, "status")),
			Phones:         ParseListLiteral(cell(row, cols, "phones")),
			Addresses:      ParseListLiteral(cell(row, cols, "addresses")),
			FacebookLinks:  ParseListLiteral(cell(row, cols, "facebook_links")),
			TwitterLinks:   ParseListLiteral(cell(row, cols, "twitter_links")),
			InstagramLinks: ParseListLiteral(cell(row, cols, "instagram_links")),
			LinkedinLinks:  ParseListLiteral(cell(row, cols, "linkedin_links")),
			YoutubeLinks:   ParseListLiteral(cell(row, cols, "youtube_links")),
			Retries:        retries,
			Error:          cell(row, cols, "error"),
		})
	}
	return out, nil
}

// WriteScraped writes rows to a scraped_company_data.csv, with list
// fields in their literal syntax.
func WriteScraped(path string, rows []model.ScrapedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(scrapedHeader); err != nil {
		return eris.Wrap(err, "dataset: write header")
	}
	for _, row := range rows {
		record := []string{
			row.Website,
			row.Domain,
			string(row.Status),
			FormatListLiteral(row.Phones),
			FormatListLiteral(row.Addresses),
			FormatListLiteral(row.FacebookLinks),
			FormatListLiteral(row.TwitterLinks),
			FormatListLiteral(row.InstagramLinks),
			FormatListLiteral(row.LinkedinLinks),
			FormatListLiteral(row.YoutubeLinks),
			strconv.Itoa(row.Retries),
			row.Error,
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "dataset: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "dataset: flush")
}

// mergedHeader is the column order of merged_company_profiles.csv.
var mergedHeader = []string{
	"company_id", "website", "domain",
	"company_commercial_name", "company_legal_name", "company_all_names",
	"phones", "phones_normalized", "addresses",
	"facebook_links", "facebook_links_normalized",
	"twitter_links", "instagram_links", "linkedin_links", "youtube_links",
	"status",
}

// WriteMerged writes merged records to merged_company_profiles.csv.
func WriteMerged(path string, records []model.CompanyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(mergedHeader); err != nil {
		return eris.Wrap(err, "dataset: write header")
	}
	for _, rec := range records {
		record := []string{
			rec.CompanyID,
			rec.Website,
			rec.Domain,
			rec.CommercialName,
			rec.LegalName,
			rec.AllNames,
			FormatListLiteral(rec.Phones),
			FormatListLiteral(rec.PhonesNormalized),
			FormatListLiteral(rec.Addresses),
			FormatListLiteral(rec.FacebookLinks),
			FormatListLiteral(rec.FacebookLinksNormalized),
			FormatListLiteral(rec.TwitterLinks),
			FormatListLiteral(rec.InstagramLinks),
			FormatListLiteral(rec.LinkedinLinks),
			FormatListLiteral(rec.YoutubeLinks),
			rec.Status,
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "dataset: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "dataset: flush")
}
