package scraper

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The listing site assigns structured data to page globals as loose JavaScript
// object literals (unquoted keys, single quotes, trailing undefined), not
// JSON. extractGlobal locates `name = {...}` assignments in script content and
// coerces the literal into a decoded value. All failures degrade to absence;
// downstream extractors already treat missing structured data as the normal
// case.

var (
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_$][A-Za-z0-9_$]*)\s*:`)
	undefinedRe     = regexp.MustCompile(`\bundefined\b`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
)

// extractGlobal finds the first `name = {...}` (or `[...]`) assignment in src
// and returns the decoded value.
func extractGlobal(src, name string) (any, bool) {
	assignRe := regexp.MustCompile(`(?:var\s+|window\.)?` + regexp.QuoteMeta(name) + `\s*=\s*`)
	for _, loc := range assignRe.FindAllStringIndex(src, -1) {
		lit, ok := scanBalanced(src, loc[1])
		if !ok {
			continue
		}
		if v, ok := coerceLiteral(lit); ok {
			return v, true
		}
	}
	return nil, false
}

// scanBalanced returns the balanced {...} or [...] literal starting at the
// first non-space character at or after start, honoring string quoting.
func scanBalanced(s string, start int) (string, bool) {
	for start < len(s) && (s[start] == ' ' || s[start] == '\t' || s[start] == '\n' || s[start] == '\r') {
		start++
	}
	if start >= len(s) || (s[start] != '{' && s[start] != '[') {
		return "", false
	}

	depth := 0
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// coerceLiteral turns a loose JS object literal into a decoded value. Strict
// JSON is tried first; otherwise quoting is normalized segment-wise so that
// key rewriting never touches string contents.
func coerceLiteral(lit string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(lit), &v); err == nil {
		return v, true
	}
	if err := json.Unmarshal([]byte(normalizeLiteral(lit)), &v); err == nil {
		return v, true
	}
	return nil, false
}

func normalizeLiteral(s string) string {
	var b strings.Builder
	var code strings.Builder // non-string run awaiting regex fixes

	flush := func() {
		seg := code.String()
		code.Reset()
		seg = bareKeyRe.ReplaceAllString(seg, `$1"$2":`)
		seg = undefinedRe.ReplaceAllString(seg, "null")
		seg = trailingCommaRe.ReplaceAllString(seg, "$1")
		b.WriteString(seg)
	}

	i := 0
	for i < len(s) {
		switch c := s[i]; c {
		case '\'':
			flush()
			b.WriteByte('"')
			i++
			for i < len(s) {
				ch := s[i]
				if ch == '\\' && i+1 < len(s) {
					if s[i+1] == '\'' {
						b.WriteByte('\'')
					} else {
						b.WriteByte(ch)
						b.WriteByte(s[i+1])
					}
					i += 2
					continue
				}
				if ch == '\'' {
					i++
					break
				}
				if ch == '"' {
					b.WriteString(`\"`)
					i++
					continue
				}
				b.WriteByte(ch)
				i++
			}
			b.WriteByte('"')
		case '"':
			flush()
			b.WriteByte(c)
			i++
			for i < len(s) {
				ch := s[i]
				b.WriteByte(ch)
				if ch == '\\' && i+1 < len(s) {
					b.WriteByte(s[i+1])
					i += 2
					continue
				}
				i++
				if ch == '"' {
					break
				}
			}
		default:
			code.WriteByte(c)
			i++
		}
	}
	flush()
	return b.String()
}
