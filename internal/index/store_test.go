package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-match/internal/model"
)

func testRecords() []model.CompanyRecord {
	return []model.CompanyRecord{
		{
			CompanyID:               "0",
			Website:                 "http://acme.com",
			Domain:                  "acme.com",
			CommercialName:          "Acme Industries",
			LegalName:               "Acme Industries LLC",
			AllNames:                "Acme Industries | Acme Inc",
			Phones:                  []string{"+14155550123"},
			PhonesNormalized:        []string{"4155550123"},
			FacebookLinks:           []string{"facebook.com/AcmeCo"},
			FacebookLinksNormalized: []string{"acmeco"},
			Status:                  string(model.ScrapeSuccess),
		},
		{
			CompanyID:        "1",
			Website:          "http://globex.org",
			Domain:           "globex.org",
			CommercialName:   "Globex Corporation",
			LegalName:        "Globex Corporation",
			AllNames:         "Globex Corporation",
			Phones:           []string{"6285559999"},
			PhonesNormalized: []string{"6285559999"},
			Status:           string(model.ScrapeSuccess),
		},
		{
			CompanyID:      "2",
			Website:        "http://initech.io",
			Domain:         "initech.io",
			CommercialName: "Initech",
			LegalName:      "Initech",
			AllNames:       "Initech",
			Status:         string(model.ScrapeSuccess),
		},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.BulkLoad(testRecords(), 0)
	require.NoError(t, err)
	require.NoError(t, s.Refresh())
	return s
}

func TestOpenDefaultsName(t *testing.T) {
	s, err := Open("", "")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, DefaultIndexName, s.name)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExists(t *testing.T) {
	assert.False(t, Exists("", DefaultIndexName))

	dir := t.TempDir()
	assert.False(t, Exists(dir, DefaultIndexName))

	s, err := Open(dir, DefaultIndexName)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, Exists(dir, DefaultIndexName))
}

func TestBulkLoadAndCount(t *testing.T) {
	s, err := Open("", "")
	require.NoError(t, err)
	defer s.Close()

	report, err := s.BulkLoad(testRecords(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Indexed)
	assert.Zero(t, report.Failed)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestBulkLoadEmpty(t *testing.T) {
	s, err := Open("", "")
	require.NoError(t, err)
	defer s.Close()

	report, err := s.BulkLoad(nil, 0)
	require.NoError(t, err)
	assert.Zero(t, report.Indexed)
}

func TestCreateOrReplaceResets(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateOrReplace())

	count, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = s.GetRecord("0")
	assert.Error(t, err)

	// Replacing twice in a row must also work.
	require.NoError(t, s.CreateOrReplace())
}

func TestGetRecordHydration(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.GetRecord("0")
	require.NoError(t, err)
	assert.Equal(t, "Acme Industries", rec.CommercialName)
	assert.Equal(t, []string{"4155550123"}, rec.PhonesNormalized)

	_, err = s.GetRecord("missing")
	assert.Error(t, err)
}

func TestTermQueryExact(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	hits, err := s.TermQuery(ctx, "domain", "acme.com", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "0", hits[0].ID)
	assert.Equal(t, "acme.com", hits[0].Record.Domain)

	// Keyword fields do not fold case.
	hits, err = s.TermQuery(ctx, "domain", "ACME.COM", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMatchQueryOnArrayField(t *testing.T) {
	s := newTestStore(t)

	hits, err := s.MatchQuery(context.Background(), "phones_normalized", "6285559999", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].ID)
}

func TestFuzzyBoolShouldToleratesTypos(t *testing.T) {
	s := newTestStore(t)

	hits, err := s.FuzzyBoolShould(context.Background(),
		[]string{"company_commercial_name", "company_legal_name"},
		"acme industris", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "0", hits[0].ID)
}

func TestFuzzyMultiMatchBoostsCommercialName(t *testing.T) {
	s := newTestStore(t)

	hits, err := s.FuzzyMultiMatch(context.Background(), []FieldBoost{
		{Field: "company_commercial_name", Boost: 3},
		{Field: "company_legal_name", Boost: 2},
		{Field: "company_all_names", Boost: 1},
	}, "globex", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "1", hits[0].ID)
	assert.Positive(t, hits[0].Score)
}

func TestSearchSizeCapsResults(t *testing.T) {
	s := newTestStore(t)

	hits, err := s.FuzzyBoolShould(context.Background(),
		[]string{"company_all_names"}, "corporation", 1)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(hits), 1)
}
