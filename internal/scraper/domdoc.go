package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// domDocument is the goquery-backed Document. CSS-selector queries run
// against a parsed DOM; page globals are recovered by scanning embedded
// <script> content, since no JavaScript executes here.
type domDocument struct {
	doc     *goquery.Document
	raw     string
	globals map[string]any
	text    string // lazily built visible text
}

// NewDOMDocument parses raw HTML into a DOM-backed Document. Parse errors
// yield a document that answers every query with zero values, keeping the
// extraction chain total.
func NewDOMDocument(raw string) Document {
	return NewDOMDocumentWithGlobals(raw, nil)
}

// NewDOMDocumentWithGlobals additionally seeds pre-evaluated page globals,
// as produced by a script-enabled browser fetch.
func NewDOMDocumentWithGlobals(raw string, globals map[string]any) Document {
	d := &domDocument{raw: raw, globals: globals}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		d.doc = doc
	}
	return d
}

func (d *domDocument) Text(selector string) string {
	if d.doc == nil {
		return ""
	}
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return cleanText(sel.Text())
}

func (d *domDocument) Attr(selector, attr string) string {
	if d.doc == nil {
		return ""
	}
	v, _ := d.doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(v)
}

func (d *domDocument) Texts(selector string) []string {
	if d.doc == nil {
		return nil
	}
	var out []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := cleanText(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

func (d *domDocument) Attrs(selector, attr string) []string {
	if d.doc == nil {
		return nil
	}
	var out []string
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	})
	return out
}

func (d *domDocument) Title() string {
	if d.doc == nil {
		return ""
	}
	return cleanText(d.doc.Find("title").First().Text())
}

func (d *domDocument) MetaDescription() string {
	return d.Attr(`meta[name="description"]`, "content")
}

func (d *domDocument) SectionAfterAnchor(marker string) string {
	if d.doc == nil || marker == "" {
		return ""
	}
	var out string
	d.doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(a.Text(), marker) {
			return true
		}
		target := a.Next()
		if target.Length() == 0 {
			target = a.Parent().Next()
		}
		if target.Length() == 0 {
			return true
		}
		if h, err := goquery.OuterHtml(target); err == nil {
			out = stripTags(h)
		}
		return false
	})
	return out
}

func (d *domDocument) FullText() string {
	if d.text == "" {
		d.text = visibleText(d.raw)
	}
	return d.text
}

func (d *domDocument) Global(name string) PageData {
	if v, ok := d.globals[name]; ok && v != nil {
		return NewPageData(v)
	}
	if d.doc == nil {
		return PageData{}
	}
	var data PageData
	d.doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := extractGlobal(s.Text(), name); ok {
			data = NewPageData(v)
			return false
		}
		return true
	})
	return data
}
