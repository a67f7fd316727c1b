package index

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/normalize"
)

// keywordFields are matched exactly, without analysis.
var keywordFields = []string{
	"company_id", "website", "domain",
	"phones", "phones_normalized",
	"facebook_links", "facebook_links_normalized",
	"twitter_links", "instagram_links", "linkedin_links", "youtube_links",
}

// textFields are analyzed for token-level matching. Name fields are
// ASCII-folded before indexing (normalize.FoldName), which together
// with the standard analyzer gives lowercase+asciifolding semantics.
var textFields = []string{
	"company_commercial_name", "company_legal_name", "company_all_names",
	"addresses",
}

// buildMapping declares the index schema: keyword-exact key fields and
// analyzed name/address fields.
func buildMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	for _, field := range keywordFields {
		fm := bleve.NewKeywordFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = false
		docMapping.AddFieldMappingsAt(field, fm)
	}
	for _, field := range textFields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = false
		docMapping.AddFieldMappingsAt(field, fm)
	}

	// status is carried in the stored record only.
	statusMapping := bleve.NewDocumentDisabledMapping()
	docMapping.AddSubDocumentMapping("status", statusMapping)

	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = standard.Name
	m.DefaultMapping = docMapping
	return m
}

// indexDoc projects a record into the indexed field set. Name fields
// are folded so fuzzy queries compare like with like.
func indexDoc(rec model.CompanyRecord) map[string]any {
	return map[string]any{
		"company_id":                rec.CompanyID,
		"website":                   rec.Website,
		"domain":                    rec.Domain,
		"company_commercial_name":   normalize.FoldName(rec.CommercialName),
		"company_legal_name":        normalize.FoldName(rec.LegalName),
		"company_all_names":         normalize.FoldName(rec.AllNames),
		"phones":                    rec.Phones,
		"phones_normalized":         rec.PhonesNormalized,
		"addresses":                 rec.Addresses,
		"facebook_links":            rec.FacebookLinks,
		"facebook_links_normalized": rec.FacebookLinksNormalized,
		"twitter_links":             rec.TwitterLinks,
		"instagram_links":           rec.InstagramLinks,
		"linkedin_links":            rec.LinkedinLinks,
		"youtube_links":             rec.YoutubeLinks,
	}
}
