package dataset

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/normalize"
)

// Merge left-joins scraped rows onto the name table by domain and
// produces one indexable record per scraped row. Rows without a name
// match fall back to the domain for both commercial and legal name;
// company ids are the row ordinals.
func Merge(scraped []model.ScrapedRow, names []model.NameRow) []model.CompanyRecord {
	namesByDomain := make(map[string]model.NameRow, len(names))
	for _, n := range names {
		d := strings.ToLower(strings.TrimSpace(n.Domain))
		if d == "" {
			continue
		}
		if _, exists := namesByDomain[d]; !exists {
			namesByDomain[d] = n
		}
	}

	records := make([]model.CompanyRecord, 0, len(scraped))
	matched := 0
	for i, row := range scraped {
		domain := strings.ToLower(strings.TrimSpace(row.Domain))

		rec := model.CompanyRecord{
			CompanyID:      strconv.Itoa(i),
			Website:        row.Website,
			Domain:         domain,
			Phones:         emptyIfNil(row.Phones),
			Addresses:      emptyIfNil(row.Addresses),
			FacebookLinks:  emptyIfNil(row.FacebookLinks),
			TwitterLinks:   emptyIfNil(row.TwitterLinks),
			InstagramLinks: emptyIfNil(row.InstagramLinks),
			LinkedinLinks:  emptyIfNil(row.LinkedinLinks),
			YoutubeLinks:   emptyIfNil(row.YoutubeLinks),
			Status:         string(row.Status),
		}

		if name, ok := namesByDomain[domain]; ok {
			matched++
			rec.CommercialName = name.CommercialName
			rec.LegalName = name.LegalName
			rec.AllNames = name.AllAvailableNames
		}

		// Name fallback chain: commercial -> legal -> domain.
		if rec.CommercialName == "" {
			rec.CommercialName = domain
			rec.LegalName = domain
		}
		if rec.LegalName == "" {
			rec.LegalName = rec.CommercialName
		}
		if rec.AllNames == "" {
			rec.AllNames = rec.CommercialName
		}

		rec.PhonesNormalized = normalizeAll(rec.Phones, normalize.Phone)
		rec.FacebookLinksNormalized = normalizeAll(rec.FacebookLinks, normalize.Facebook)

		records = append(records, rec)
	}

	zap.L().Info("dataset: merged",
		zap.Int("scraped", len(scraped)),
		zap.Int("names", len(names)),
		zap.Int("name_matches", matched),
	)
	return records
}

func normalizeAll(values []string, fn func(string) string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if n := fn(v); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
