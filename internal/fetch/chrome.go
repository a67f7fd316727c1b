package fetch

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ChromeFetcher is the tier-2 strategy: a headless browser for pages
// that need script execution to produce their markup. A fresh browser
// is launched per page and always torn down on exit.
type ChromeFetcher struct {
	execPath string
	timeout  time.Duration
}

// NewChromeFetcher creates a ChromeFetcher. execPath optionally points
// at a pre-provisioned browser binary; empty means auto-detect.
func NewChromeFetcher(execPath string, timeout time.Duration) *ChromeFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ChromeFetcher{execPath: execPath, timeout: timeout}
}

func (f *ChromeFetcher) Name() string { return "chrome" }

// Fetch renders the page headlessly and returns the resulting HTML.
// Navigation waits for DOM-ready rather than full resource load; on
// timeout the current DOM is still read. Success requires rendered HTML
// longer than 1000 bytes.
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.DisableGPU,
		chromedp.UserAgent(browserUA),
	)
	if f.execPath != "" {
		opts = append(opts, chromedp.ExecPath(f.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	navCtx, cancelNav := context.WithTimeout(browserCtx, f.timeout)
	defer cancelNav()

	if err := chromedp.Run(navCtx, navigateDOMReady(url)); err != nil {
		if browserCtx.Err() != nil {
			return "", eris.Wrap(err, "chrome: navigate")
		}
		// Page-load timeout: the DOM may still hold usable content.
		zap.L().Debug("chrome: navigation timed out, reading current dom",
			zap.String("url", url), zap.Error(err))
	}

	// Let late content settle.
	settle := f.timeout / 5
	if settle > 2*time.Second {
		settle = 2 * time.Second
	}
	select {
	case <-time.After(settle):
	case <-browserCtx.Done():
		return "", eris.Wrap(browserCtx.Err(), "chrome: browser closed")
	}

	readCtx, cancelRead := context.WithTimeout(browserCtx, 5*time.Second)
	defer cancelRead()

	var html string
	if err := chromedp.Run(readCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", eris.Wrap(err, "chrome: read dom")
	}

	if len(html) <= minChromeContent {
		return "", eris.Errorf("chrome: insufficient content (%d bytes) for %s", len(html), url)
	}
	return html, nil
}

// navigateDOMReady starts navigation and returns once DOMContentLoaded
// fires, without waiting for images, stylesheets, or subresources.
func navigateDOMReady(url string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		ready := make(chan struct{}, 1)
		lctx, cancel := context.WithCancel(ctx)
		defer cancel()

		chromedp.ListenTarget(lctx, func(ev any) {
			if _, ok := ev.(*page.EventDomContentEventFired); ok {
				select {
				case ready <- struct{}{}:
				default:
				}
			}
		})

		if _, _, _, _, err := page.Navigate(url).Do(ctx); err != nil {
			return eris.Wrap(err, "chrome: navigate")
		}

		select {
		case <-ready:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
