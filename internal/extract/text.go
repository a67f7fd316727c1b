package extract

import (
	"regexp"
	"strings"
)

var (
	blockTagRes = func() []*regexp.Regexp {
		tags := []string{"script", "style", "nav", "footer"}
		res := make([]*regexp.Regexp, 0, len(tags))
		for _, tag := range tags {
			res = append(res, regexp.MustCompile(`(?is)<`+tag+`[^>]*>.*?</`+tag+`>`))
		}
		return res
	}()
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	spaceRe = regexp.MustCompile(`[ \t]+`)
	nlRe    = regexp.MustCompile(`\n{3,}`)
)

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// Text produces the text-only projection of an HTML page: script, style,
// nav and footer blocks are dropped, remaining tags stripped, common
// entities decoded, and whitespace collapsed.
func Text(html string) string {
	for _, re := range blockTagRes {
		html = re.ReplaceAllString(html, "")
	}
	html = tagRe.ReplaceAllString(html, " ")
	html = entityReplacer.Replace(html)
	html = spaceRe.ReplaceAllString(html, " ")
	html = nlRe.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html)
}
