package ui

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	lineBreaks   = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// PlainText turns the HTML snippets of the snapshot into terminal text.
func PlainText(s string) string {
	s = lineBreaks.ReplaceAllString(s, "\n")
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
