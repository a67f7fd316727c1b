package fetch

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Chain tries fetchers in tier order, returning the first success.
type Chain struct {
	fetchers []Fetcher
}

// NewChain creates a Chain over the given fetchers. Fetchers are tried
// in order; the first result above its tier's content threshold wins.
func NewChain(fetchers ...Fetcher) *Chain {
	return &Chain{fetchers: fetchers}
}

// Fetch runs the tiers for a single URL. It returns the page content
// and the name of the tier that produced it, or the last tier's error
// when every tier fails.
func (c *Chain) Fetch(ctx context.Context, url string) (string, string, error) {
	var lastErr error
	for _, f := range c.fetchers {
		content, err := f.Fetch(ctx, url)
		if err == nil {
			return content, f.Name(), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		zap.L().Debug("fetch: tier failed, trying next",
			zap.String("tier", f.Name()),
			zap.String("url", url),
			zap.Error(err),
		)
	}
	if lastErr != nil {
		return "", "", lastErr
	}
	return "", "", eris.Errorf("fetch: no fetcher configured for %s", url)
}
