package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 2 << 20

// HTTPFetcher is the tier-1 strategy: a plain GET with browser-like
// headers. Cheap and sufficient for static sites; JS-rendered pages
// fall through to the browser tier.
type HTTPFetcher struct {
	timeout  time.Duration
	client   *http.Client
	insecure *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the given total timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		timeout: timeout,
		client:  &http.Client{},
		insecure: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // deliberate last-resort fallback
			},
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// Fetch issues a GET with a short initial timeout, retries once at the
// full timeout on connection or timeout failure, and falls back to a
// verification-disabled client on TLS failure. Success requires a body
// longer than 700 bytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	short := f.timeout / 2
	if short > 5*time.Second {
		short = 5 * time.Second
	}

	body, err := f.get(ctx, f.client, url, short)
	if err != nil && ctx.Err() == nil {
		switch {
		case isTLSError(err):
			zap.L().Debug("http: tls failure, retrying without verification",
				zap.String("url", url), zap.Error(err))
			body, err = f.get(ctx, f.insecure, url, f.timeout)
		case isConnError(err):
			zap.L().Debug("http: short attempt failed, retrying at full timeout",
				zap.String("url", url), zap.Error(err))
			body, err = f.get(ctx, f.client, url, f.timeout)
			if err != nil && isTLSError(err) && ctx.Err() == nil {
				body, err = f.get(ctx, f.insecure, url, f.timeout)
			}
		}
	}
	if err != nil {
		return "", err
	}

	if len(body) <= minHTTPContent {
		return "", eris.Errorf("http: insufficient content (%d bytes) for %s", len(body), url)
	}
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, client *http.Client, url string, timeout time.Duration) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", eris.Wrap(err, "http: create request")
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("http: status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "http: read body")
	}
	return string(body), nil
}

// isConnError reports whether err is a connection or timeout failure,
// the cases worth a second attempt at the full timeout. Status errors
// and malformed responses are not retried within the tier.
func isConnError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// isTLSError reports whether err stems from certificate verification or
// the TLS handshake.
func isTLSError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "x509:") || strings.Contains(msg, "tls:")
}
