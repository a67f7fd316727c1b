// Package model defines the value records flowing through the scrape and
// match pipeline.
package model

// ScrapeStatus marks the outcome of one fetch+extract of a single URL.
type ScrapeStatus string

const (
	ScrapeSuccess ScrapeStatus = "success"
	ScrapeFailed  ScrapeStatus = "failed"
)

// ScrapedRow is the output of scraping one website target. Signal fields
// are only populated when Status is ScrapeSuccess; a failed row carries
// the last error and the retry count instead.
type ScrapedRow struct {
	Website        string       `json:"website"`
	Domain         string       `json:"domain"`
	Status         ScrapeStatus `json:"status"`
	Phones         []string     `json:"phones,omitempty"`
	Addresses      []string     `json:"addresses,omitempty"`
	FacebookLinks  []string     `json:"facebook_links,omitempty"`
	TwitterLinks   []string     `json:"twitter_links,omitempty"`
	InstagramLinks []string     `json:"instagram_links,omitempty"`
	LinkedinLinks  []string     `json:"linkedin_links,omitempty"`
	YoutubeLinks   []string     `json:"youtube_links,omitempty"`
	Retries        int          `json:"retries"`
	Error          string       `json:"error,omitempty"`
}

// NameRow is one row of the externally supplied company-name table,
// joined onto scraped rows by domain.
type NameRow struct {
	Domain            string `json:"domain"`
	CommercialName    string `json:"company_commercial_name"`
	LegalName         string `json:"company_legal_name"`
	AllAvailableNames string `json:"company_all_available_names"`
}

// CompanyRecord is the canonical, indexable fusion of a scraped row with
// a name-table row. Domain is lowercased and trimmed; the normalized
// slices hold the canonical forms used for exact matching.
type CompanyRecord struct {
	CompanyID               string   `json:"company_id"`
	Website                 string   `json:"website"`
	Domain                  string   `json:"domain"`
	CommercialName          string   `json:"company_commercial_name"`
	LegalName               string   `json:"company_legal_name"`
	AllNames                string   `json:"company_all_names"`
	Phones                  []string `json:"phones"`
	PhonesNormalized        []string `json:"phones_normalized"`
	Addresses               []string `json:"addresses"`
	FacebookLinks           []string `json:"facebook_links"`
	FacebookLinksNormalized []string `json:"facebook_links_normalized"`
	TwitterLinks            []string `json:"twitter_links"`
	InstagramLinks          []string `json:"instagram_links"`
	LinkedinLinks           []string `json:"linkedin_links"`
	YoutubeLinks            []string `json:"youtube_links"`
	Status                  string   `json:"status"`
}

// Query carries the caller-supplied signals for a match request. At
// least one field must be present; the service layer rejects empty
// queries before they reach the matcher.
type Query struct {
	Name     string `json:"name,omitempty"`
	Website  string `json:"website,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Facebook string `json:"facebook,omitempty"`
}

// Empty reports whether no query field is set.
func (q Query) Empty() bool {
	return q.Name == "" && q.Website == "" && q.Phone == "" && q.Facebook == ""
}

// MatchResult is the best-scored record for a query, with the additive
// evidence total attached.
type MatchResult struct {
	CompanyRecord
	MatchScore float64 `json:"match_score"`
}
