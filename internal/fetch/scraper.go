package fetch

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/company-match/internal/extract"
	"github.com/sells-group/company-match/internal/model"
	"github.com/sells-group/company-match/internal/resilience"
)

// retryBackoffStep is the base sleep between scrape retries; attempt n
// waits n × this.
const retryBackoffStep = 2 * time.Second

// Scraper runs the full fetch+extract cycle for one website target,
// wrapping the tier chain with per-target retries.
type Scraper struct {
	chain      *Chain
	retryCount int
}

// NewScraper creates a Scraper. retryCount is the number of retries
// around the two-tier fetch (0 = single attempt).
func NewScraper(chain *Chain, retryCount int) *Scraper {
	if retryCount < 0 {
		retryCount = 0
	}
	return &Scraper{chain: chain, retryCount: retryCount}
}

// Scrape fetches a website and extracts its contact and social signals.
// Failures after all retries yield a failed row carrying the last error;
// they are never fatal to the caller.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) model.ScrapedRow {
	return s.scrape(ctx, rawURL, retryBackoffStep)
}

func (s *Scraper) scrape(ctx context.Context, rawURL string, backoffStep time.Duration) model.ScrapedRow {
	target := rawURL
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "http://" + target
	}

	host := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		host = u.Host
	}

	retries := 0
	type fetched struct {
		content string
		source  string
	}
	result, err := resilience.DoVal(ctx, resilience.RetryConfig{
		MaxAttempts: s.retryCount + 1,
		Backoff:     resilience.LinearBackoff(backoffStep),
		OnRetry: func(attempt int, err error) {
			retries = attempt
			zap.L().Debug("scrape: retrying",
				zap.String("url", target),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		},
	}, func(ctx context.Context) (fetched, error) {
		content, source, err := s.chain.Fetch(ctx, target)
		if err != nil {
			return fetched{}, err
		}
		return fetched{content: content, source: source}, nil
	})
	if err != nil {
		return model.ScrapedRow{
			Website: target,
			Domain:  host,
			Status:  model.ScrapeFailed,
			Error:   err.Error(),
			Retries: retries,
		}
	}

	text := extract.Text(result.content)
	socials := extract.Socials(result.content)

	zap.L().Debug("scrape: success",
		zap.String("url", target),
		zap.String("tier", result.source),
		zap.Int("retries", retries),
	)

	return model.ScrapedRow{
		Website:        target,
		Domain:         host,
		Status:         model.ScrapeSuccess,
		Phones:         extract.Phones(text),
		Addresses:      extract.Addresses(text),
		FacebookLinks:  socials.Facebook,
		TwitterLinks:   socials.Twitter,
		InstagramLinks: socials.Instagram,
		LinkedinLinks:  socials.Linkedin,
		YoutubeLinks:   socials.Youtube,
		Retries:        retries,
	}
}
