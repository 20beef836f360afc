package scraper

import (
	"html"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	brTagRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	scriptRe     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// cleanText decodes HTML entities and collapses all whitespace runs (line
// breaks included) to single spaces.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// stripTags converts an HTML fragment to plain text: <br> becomes a space,
// remaining tags are dropped, entities decoded, whitespace collapsed.
func stripTags(fragment string) string {
	fragment = brTagRe.ReplaceAllString(fragment, " ")
	fragment = tagRe.ReplaceAllString(fragment, " ")
	return cleanText(fragment)
}

// visibleText reduces a whole HTML page to its visible text.
func visibleText(page string) string {
	page = scriptRe.ReplaceAllString(page, " ")
	page = styleRe.ReplaceAllString(page, " ")
	return stripTags(page)
}
