package scraper

import (
	"regexp"
	"sync"
)

// textDocument is the no-DOM Document strategy: everything is recovered by
// regex over the raw HTML string. It exists for hosts without a DOM parser
// (workflow engines, constrained runtimes). CSS-selector queries are
// unsupported and answer with zero values, which pushes the extractor down
// to its regex and default tiers, the same rules one tier later.
type textDocument struct {
	raw string

	once sync.Once
	text string
}

// NewTextDocument wraps raw HTML in the regex-only Document strategy.
func NewTextDocument(raw string) Document {
	return &textDocument{raw: raw}
}

func (d *textDocument) Text(string) string         { return "" }
func (d *textDocument) Attr(string, string) string { return "" }

// Texts supports only the bare "p" selector, which the description fallback
// needs; anything structural answers empty.
func (d *textDocument) Texts(selector string) []string {
	if selector == "p" {
		return d.paragraphs()
	}
	return nil
}

// Attrs supports only img/src, which the image fallback needs.
func (d *textDocument) Attrs(selector, attr string) []string {
	if selector != "img" || attr != "src" {
		return nil
	}
	var out []string
	for _, m := range imgSrcRe.FindAllStringSubmatch(d.raw, -1) {
		out = append(out, m[1])
	}
	return out
}

var (
	imgSrcRe   = regexp.MustCompile(`(?is)<img[^>]+src=["']([^"']+)["']`)
	titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaDescRe = regexp.MustCompile(`(?is)<meta\s+[^>]*name=["']description["'][^>]*content=["']([^"']*)["']`)
	paraRe     = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
)

func (d *textDocument) Title() string {
	if m := titleTagRe.FindStringSubmatch(d.raw); len(m) > 1 {
		return stripTags(m[1])
	}
	return ""
}

func (d *textDocument) MetaDescription() string {
	if m := metaDescRe.FindStringSubmatch(d.raw); len(m) > 1 {
		return cleanText(m[1])
	}
	return ""
}

func (d *textDocument) SectionAfterAnchor(marker string) string {
	if marker == "" {
		return ""
	}
	re := regexp.MustCompile(`(?is)` + regexp.QuoteMeta(marker) + `.*?</a>\s*<(?:div|p|span)[^>]*>(.*?)</(?:div|p|span)>`)
	if m := re.FindStringSubmatch(d.raw); len(m) > 1 {
		return stripTags(m[1])
	}
	return ""
}

func (d *textDocument) FullText() string {
	d.once.Do(func() { d.text = visibleText(d.raw) })
	return d.text
}

func (d *textDocument) Global(name string) PageData {
	if v, ok := extractGlobal(d.raw, name); ok {
		return NewPageData(v)
	}
	return PageData{}
}

// paragraphs returns the text of every <p> element; used by the extractor's
// description fallback when selectors are unavailable.
func (d *textDocument) paragraphs() []string {
	var out []string
	for _, m := range paraRe.FindAllStringSubmatch(d.raw, -1) {
		if t := stripTags(m[1]); t != "" {
			out = append(out, t)
		}
	}
	return out
}
