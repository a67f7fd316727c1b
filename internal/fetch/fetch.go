// Package fetch retrieves page content for scrape targets using a
// two-tier strategy: a lightweight HTTP client first, with a headless
// browser fallback for pages the plain client cannot render.
package fetch

import "context"

// browserUA is the User-Agent presented by both tiers.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Content thresholds below which a tier's result is considered
// insufficient and the next tier (or a retry) takes over.
const (
	minHTTPContent   = 700
	minChromeContent = 1000
)

// Fetcher retrieves the content of a single URL. Implementations return
// an error when the content is missing or below their usefulness
// threshold.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Name() string
}
