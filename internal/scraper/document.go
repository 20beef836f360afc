package scraper

// Document is the narrow view of a parsed listing page the field extractor
// works against. Two implementations exist: a goquery-backed DOM document and
// a regex-only document over the raw HTML string for environments without a
// DOM parser. Every method is total: "not found" is the zero value, never an
// error.
type Document interface {
	// Text returns the trimmed text of the first element matching the CSS
	// selector, or "" when nothing matches (or selectors are unsupported).
	Text(selector string) string

	// Attr returns the named attribute of the first matching element.
	Attr(selector, attr string) string

	// Texts returns the trimmed text of every element matching the selector.
	Texts(selector string) []string

	// Attrs returns the named attribute of every matching element, skipping
	// elements where it is absent or empty.
	Attrs(selector, attr string) []string

	// Title returns the contents of the <title> tag.
	Title() string

	// MetaDescription returns the content attribute of the description meta tag.
	MetaDescription() string

	// SectionAfterAnchor returns the entity-decoded, whitespace-collapsed text
	// of the block immediately following an anchor whose text contains marker.
	// <br> tags are converted to spaces before text extraction.
	SectionAfterAnchor(marker string) string

	// FullText returns the page's visible text with scripts and styles removed.
	FullText() string

	// Global returns the value a page script assigns to the named page-global
	// variable. Absence or malformed script data yields an empty PageData.
	Global(name string) PageData
}

// PageData is a weakly-typed view over embedded structured page data. The
// source assigns arbitrary JavaScript objects to page globals; their shape is
// never trusted, so every lookup degrades to "absent" instead of erroring.
type PageData struct {
	v any
}

// NewPageData wraps an already-decoded value.
func NewPageData(v any) PageData { return PageData{v: v} }

// OK reports whether the value is present.
func (d PageData) OK() bool { return d.v != nil }

// Field returns the named entry of an object value.
func (d PageData) Field(name string) PageData {
	if m, ok := d.v.(map[string]any); ok {
		if v, ok := m[name]; ok {
			return PageData{v: v}
		}
	}
	return PageData{}
}

// List returns the elements of an array value.
func (d PageData) List() []PageData {
	arr, ok := d.v.([]any)
	if !ok {
		return nil
	}
	out := make([]PageData, len(arr))
	for i, v := range arr {
		out[i] = PageData{v: v}
	}
	return out
}

// Str returns the string value, or "".
func (d PageData) Str() string {
	s, _ := d.v.(string)
	return s
}

// Float returns the numeric value. JSON numbers decode as float64; numeric
// strings are not coerced here.
func (d PageData) Float() (float64, bool) {
	f, ok := d.v.(float64)
	return f, ok
}

// FindString walks the value depth-first and returns the first string for
// which pred holds. Used to locate URLs nested at unpredictable depths.
func (d PageData) FindString(pred func(string) bool) string {
	switch v := d.v.(type) {
	case string:
		if pred(v) {
			return v
		}
	case map[string]any:
		for _, inner := range v {
			if s := (PageData{v: inner}).FindString(pred); s != "" {
				return s
			}
		}
	case []any:
		for _, inner := range v {
			if s := (PageData{v: inner}).FindString(pred); s != "" {
				return s
			}
		}
	}
	return ""
}
