package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-match/internal/model"
)

func TestParseListLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty string", "", []string{}},
		{"empty list", "[]", []string{}},
		{"single token", "['a']", []string{"a"}},
		{"multiple tokens", "['+14155550123', '6285559999']", []string{"+14155550123", "6285559999"}},
		{"token with spaces", "['123 Main St, Springfield, IL 62701']", nil}, // comma inside unquoted region
		{"bare value wraps as singleton", "not a list", []string{"not a list"}},
		{"escaped quote", `['O\'Brien & Co']`, []string{"O'Brien & Co"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseListLiteral(tt.in)
			if tt.want == nil {
				// Comma inside a quoted token stays inside the token.
				assert.Equal(t, []string{"123 Main St, Springfield, IL 62701"}, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListLiteralRoundTrip(t *testing.T) {
	cases := [][]string{
		{},
		{"a"},
		{"+14155550123", "6285559999"},
		{"123 Main St, Springfield, IL 62701"},
		{"O'Brien & Co"},
	}
	for _, values := range cases {
		assert.Equal(t, values, ParseListLiteral(FormatListLiteral(values)))
	}
}

func TestScrapedCSVRoundTrip(t *testing.T) {
	rows := []model.ScrapedRow{
		{
			Website:       "http://acme.com",
			Domain:        "acme.com",
			Status:        model.ScrapeSuccess,
			Phones:        []string{"+14155550123", "6285559999"},
			Addresses:     []string{"123 Main Street, Springfield, IL 62701"},
			FacebookLinks: []string{"facebook.com/AcmeCo"},
			TwitterLinks:  []string{},
			Retries:       1,
		},
		{
			Website: "http://down.test",
			Domain:  "down.test",
			Status:  model.ScrapeFailed,
			Error:   "http: fetch: connection refused",
			Retries: 2,
		},
	}

	path := filepath.Join(t.TempDir(), "scraped.csv")
	require.NoError(t, WriteScraped(path, rows))

	got, err := LoadScraped(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, rows[0].Website, got[0].Website)
	assert.Equal(t, rows[0].Domain, got[0].Domain)
	assert.Equal(t, rows[0].Status, got[0].Status)
	assert.Equal(t, rows[0].Phones, got[0].Phones)
	assert.Equal(t, rows[0].Addresses, got[0].Addresses)
	assert.Equal(t, rows[0].FacebookLinks, got[0].FacebookLinks)
	assert.Equal(t, rows[0].Retries, got[0].Retries)

	assert.Equal(t, model.ScrapeFailed, got[1].Status)
	assert.Equal(t, rows[1].Error, got[1].Error)
	assert.Equal(t, 2, got[1].Retries)
	assert.Empty(t, got[1].Phones)
}

func TestLoadWebsites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.csv")
	require.NoError(t, os.WriteFile(path, []byte("domain\nacme.com\n\nexample.org\n"), 0o644))

	sites, err := LoadWebsites(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"acme.com", "example.org"}, sites)
}

func TestLoadWebsitesMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("url\nacme.com\n"), 0o644))

	_, err := LoadWebsites(path)

	assert.ErrorContains(t, err, "no domain column")
}

func TestMerge(t *testing.T) {
	scraped := []model.ScrapedRow{
		{
			Website:       "http://acme.com",
			Domain:        " Acme.COM ",
			Status:        model.ScrapeSuccess,
			Phones:        []string{"+1 (415) 555-0123"},
			FacebookLinks: []string{"facebook.com/AcmeCo"},
		},
		{
			Website: "http://unknown.io",
			Domain:  "unknown.io",
			Status:  model.ScrapeSuccess,
		},
	}
	names := []model.NameRow{
		{
			Domain:            "acme.com",
			CommercialName:    "Acme Industries",
			LegalName:         "",
			AllAvailableNames: "Acme Industries | Acme Inc",
		},
	}

	records := Merge(scraped, names)
	require.Len(t, records, 2)

	acme := records[0]
	assert.Equal(t, "0", acme.CompanyID)
	assert.Equal(t, "acme.com", acme.Domain)
	assert.Equal(t, "Acme Industries", acme.CommercialName)
	assert.Equal(t, "Acme Industries", acme.LegalName) // legal defaults to commercial
	assert.Equal(t, []string{"4155550123"}, acme.PhonesNormalized)
	assert.Equal(t, []string{"acmeco"}, acme.FacebookLinksNormalized)

	unknown := records[1]
	assert.Equal(t, "1", unknown.CompanyID)
	assert.Equal(t, "unknown.io", unknown.CommercialName) // name falls back to domain
	assert.Equal(t, "unknown.io", unknown.LegalName)
	assert.Equal(t, "unknown.io", unknown.AllNames)
}
