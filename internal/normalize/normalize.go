// Package normalize canonicalizes the key signals used for exact
// matching: domains, phone numbers, and facebook handles. All functions
// are pure and return "" on empty input.
package normalize

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minPhoneDigits is the smallest digit count accepted as a phone number.
const minPhoneDigits = 8

// phoneSuffixLen is the canonical comparison length for phone numbers.
const phoneSuffixLen = 10

// Domain extracts the registered domain from a URL or bare host. The
// scheme is optional; the www prefix, surrounding dots, and whitespace
// are stripped; the result is lowercased. When the public-suffix list
// recognizes the host, the registered-domain+suffix pair is returned
// (shop.acme.co.uk -> acme.co.uk); otherwise the raw host is kept.
func Domain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if lower := strings.ToLower(raw); !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "http://" + raw
	}

	host := raw
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	} else {
		host = strings.TrimPrefix(host, "http://")
		host = strings.TrimPrefix(host, "https://")
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
	}

	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.Trim(host, ". \t")
	if host == "" {
		return ""
	}

	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld
	}
	return host
}

// Phone reduces a phone number to its canonical digit string: strip
// everything but digits (a leading + is tolerated and dropped), then
// keep the last 10 digits when longer. Numbers with fewer than 8 digits
// are rejected.
func Phone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			continue
		}
	}

	digits := b.String()
	if len(digits) < minPhoneDigits {
		return ""
	}
	if len(digits) > phoneSuffixLen {
		digits = digits[len(digits)-phoneSuffixLen:]
	}
	return digits
}

var facebookPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^facebook\.com/profile\.php\?id=([0-9]+)`),
	regexp.MustCompile(`^facebook\.com/([a-z0-9._\-]+)`),
	regexp.MustCompile(`^fb\.com/([a-z0-9._\-]+)`),
}

var schemeWWWRe = regexp.MustCompile(`^https?://(www\.)?`)

// Facebook extracts the page handle (or numeric profile id) from a
// facebook URL, lowercased. Unrecognized URLs are returned stripped of
// scheme and www but otherwise unchanged.
func Facebook(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}

	stripped := schemeWWWRe.ReplaceAllString(raw, "")
	for _, re := range facebookPatterns {
		if m := re.FindStringSubmatch(stripped); m != nil {
			return m[1]
		}
	}
	return stripped
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldName lowercases a company name and strips diacritics, matching
// the lowercase+asciifolding analysis applied to indexed name fields.
func FoldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(foldTransformer, s); err == nil {
		return folded
	}
	return s
}
