package extract

import (
	"regexp"
	"strings"
)

// delimRun matches any run of Arabic/Latin commas with surrounding
// whitespace, so "a,، ،b" collapses to a single separator.
var delimRun = regexp.MustCompile(`\s*[،,]+(?:\s*[،,]+)*\s*`)

// JoinKeywords renders a keyword or hashtag list as a single paragraph
// separated by the Arabic comma, regardless of which delimiters the items
// themselves carried. No doubled, leading or trailing separators.
func JoinKeywords(items []string) string {
	joined := strings.Join(items, "، ")
	joined = delimRun.ReplaceAllString(joined, "، ")
	joined = strings.Trim(joined, "،, ")
	return strings.Join(strings.Fields(joined), " ")
}

// SplitKeywords breaks a delimited keyword string into trimmed items,
// accepting both Arabic and Latin commas.
func SplitKeywords(s string) []string {
	parts := delimRun.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
