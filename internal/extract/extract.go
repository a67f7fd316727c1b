// Package extract mines fetched pages for contact and social signals
// using deterministic regex patterns. Phones and addresses run on the
// text projection of a page; social links run on the raw HTML.
package extract

import (
	"regexp"
	"strings"
)

// minPhoneDigits is the smallest digit count accepted during extraction.
const minPhoneDigits = 8

var phoneRe = regexp.MustCompile(`\+?[\d\s\-()]{8,20}`)

// Phones finds phone-number candidates in text, strips formatting (a
// leading + survives), and keeps deduplicated candidates with at least
// 8 digits.
func Phones(text string) []string {
	if text == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, m := range phoneRe.FindAllString(text, -1) {
		cleaned := cleanPhone(m)
		digits := strings.TrimPrefix(cleaned, "+")
		if len(digits) < minPhoneDigits {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	return out
}

// cleanPhone drops everything but digits, preserving a leading +.
func cleanPhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// socialPatterns maps each platform to its link pattern against raw HTML.
var socialPatterns = map[string]*regexp.Regexp{
	"facebook":  regexp.MustCompile(`facebook\.com/[A-Za-z0-9._\-]+`),
	"twitter":   regexp.MustCompile(`twitter\.com/[A-Za-z0-9_]+`),
	"instagram": regexp.MustCompile(`instagram\.com/[A-Za-z0-9._\-]+`),
	"linkedin":  regexp.MustCompile(`linkedin\.com/(?:company|in)/[A-Za-z0-9._\-]+`),
	"youtube":   regexp.MustCompile(`youtube\.com/(?:user|channel)/[A-Za-z0-9._\-]+`),
}

// SocialLinks holds the per-platform link sets found on a page.
type SocialLinks struct {
	Facebook  []string
	Twitter   []string
	Instagram []string
	Linkedin  []string
	Youtube   []string
}

// Socials extracts social-media links per platform from raw HTML,
// deduplicated per platform.
func Socials(html string) SocialLinks {
	if html == "" {
		return SocialLinks{}
	}
	return SocialLinks{
		Facebook:  findAllUnique(socialPatterns["facebook"], html),
		Twitter:   findAllUnique(socialPatterns["twitter"], html),
		Instagram: findAllUnique(socialPatterns["instagram"], html),
		Linkedin:  findAllUnique(socialPatterns["linkedin"], html),
		Youtube:   findAllUnique(socialPatterns["youtube"], html),
	}
}

func findAllUnique(re *regexp.Regexp, s string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range re.FindAllString(s, -1) {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// addressRe is a best-effort pattern for US street-plus-ZIP lines. It
// misses most real-world addresses; the extracted values are treated as
// a weak supplementary signal only.
var addressRe = regexp.MustCompile(`\d+\s+[A-Za-z\s,.]+(?:Avenue|Lane|Road|Boulevard|Drive|Street|Ave|Ln|Rd|Blvd|Dr|St)[,\s.]+[A-Za-z\s]+,\s*[A-Z]{2}\s*\d{5}`)

// Addresses extracts US-style street addresses from text, deduplicated.
func Addresses(text string) []string {
	if text == "" {
		return nil
	}
	return findAllUnique(addressRe, text)
}
