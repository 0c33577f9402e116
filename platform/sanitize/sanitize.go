// Package sanitize turns rendered HTML into plain text.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// blockBreakRegex matches tags that end a visual line, with the source
	// whitespace after them
	blockBreakRegex = regexp.MustCompile(`(?i)(<br\s*/?>|</(p|tr|h[1-6]|li|div|table)>)\s*`)
	// cellBreakRegex matches the end of a table cell
	cellBreakRegex = regexp.MustCompile(`(?i)</t[dh]>`)
	// styleRegex matches head and style blocks whose content is never shown
	styleRegex = regexp.MustCompile(`(?is)<(head|style)[^>]*>.*?</(head|style)>`)
	spaceRegex = regexp.MustCompile(`[ \t]+`)
)

// StripHTML removes all HTML tags from a string.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// PlainText renders an HTML email body as readable text: block elements
// become line breaks, table cells are separated by spaces, and blank runs
// collapse to a single empty line.
func PlainText(s string) string {
	s = styleRegex.ReplaceAllString(s, "")
	s = blockBreakRegex.ReplaceAllString(s, "\n")
	s = cellBreakRegex.ReplaceAllString(s, " ")
	s = StripHTML(s)

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(spaceRegex.ReplaceAllString(line, " "))
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
