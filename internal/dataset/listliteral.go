package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ParseListLiteral parses the list syntax used for multi-value CSV
// fields: square brackets around comma-separated, single-quoted tokens,
// e.g. `['a', 'b']`. Empty input and `[]` produce an empty list. Any
// other shape is treated as a bare value and wrapped as a singleton.
func ParseListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" {
		return []string{}
	}

	items, err := parseList(s)
	if err != nil {
		return []string{s}
	}
	return items
}

func parseList(s string) ([]string, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, eris.New("dataset: not a list literal")
	}

	inner := s[1 : len(s)-1]
	var items []string
	i := 0
	for {
		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i >= len(inner) {
			break
		}
		if inner[i] != '\'' {
			return nil, eris.New("dataset: expected quoted token")
		}
		i++
		start := i
		var sb strings.Builder
		for {
			if i >= len(inner) {
				return nil, eris.New("dataset: unterminated token")
			}
			if inner[i] == '\\' && i+1 < len(inner) {
				sb.WriteString(inner[start:i])
				sb.WriteByte(inner[i+1])
				i += 2
				start = i
				continue
			}
			if inner[i] == '\'' {
				break
			}
			i++
		}
		sb.WriteString(inner[start:i])
		items = append(items, sb.String())
		i++ // closing quote

		for i < len(inner) && (inner[i] == ' ' || inner[i] == '\t') {
			i++
		}
		if i >= len(inner) {
			break
		}
		if inner[i] != ',' {
			return nil, eris.New("dataset: expected comma between tokens")
		}
		i++
	}

	if items == nil {
		items = []string{}
	}
	return items, nil
}

// FormatListLiteral renders values back into the list syntax read by
// ParseListLiteral, so scraped CSVs round-trip.
func FormatListLiteral(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('\'')
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `'`, `\'`)
		b.WriteString(v)
		b.WriteByte('\'')
	}
	b.WriteByte(']')
	return b.String()
}
