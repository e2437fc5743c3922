// Package component decodes the bracket-object grammar used to inject named
// UI components into streaming model output:
//
//	[{c:"Name",p:{...},style:{...},children:[...]}]
//
// Object keys arrive unquoted on the wire, and the payload may be cut off at
// any byte while streaming. Extraction is tolerant of truncation: fields of
// the result only ever appear or grow as more input arrives, and a field
// decoded from a complete span never changes value on a longer prefix. Every
// extracted prop tree passes through URL sanitization, at every nesting
// level, including partial states.
package component

import (
	"regexp"
	"strings"
)

// Component is a single extracted component declaration. A parent exclusively
// owns its Children list; the tree never contains back-references.
type Component struct {
	Name     string
	Props    map[string]any
	Style    map[string]any
	Children []*Component
}

// openMarker starts every component declaration.
const openMarker = `[{c:"`

// namePattern anchors a component object and captures its completed name.
// A name whose closing quote has not arrived yet does not match.
//
//nolint:gochecknoglobals // Compiled once.
var namePattern = regexp.MustCompile(`^\{c:"([^"]*)"`)

// Extract locates the first component declaration in content and decodes as
// much of it as has streamed in so far. It returns nil when no declaration
// with a complete name is present.
func Extract(content string) *Component {
	return ExtractNotify(content, nil)
}

// ExtractNotify is Extract with a hook invoked once for every prop value
// rejected by URL sanitization.
func ExtractNotify(content string, onReject func(url string)) *Component {
	start := strings.Index(content, openMarker)
	if start < 0 {
		return nil
	}
	return extractObject(content[start+1:], onReject)
}

// Closed reports whether the declaration at the "[{" prefix of s is fully
// terminated by its matching "}]".
func Closed(s string) bool {
	if !strings.HasPrefix(s, "[{") {
		return false
	}
	end, ok := matchDelim(s, 1)
	return ok && end+1 < len(s) && s[end+1] == ']'
}

// extractObject decodes a component object fragment beginning at `{c:"`.
func extractObject(s string, onReject func(string)) *Component {
	m := namePattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	if end, ok := matchDelim(s, 0); ok {
		// Known-complete path: the whole object span is present, so it is
		// normalized and parsed directly, children included, with no repair.
		if obj, ok2 := parseLooseObject(s[:end+1]); ok2 {
			return buildComponent(obj, onReject)
		}
	}
	comp := &Component{Name: m[1]}
	fillTruncated(comp, s, onReject)
	return comp
}

// buildComponent converts a fully decoded object into a Component, recursing
// into children and sanitizing props and style at each level.
func buildComponent(obj map[string]any, onReject func(string)) *Component {
	comp := &Component{}
	if name, ok := obj["c"].(string); ok {
		comp.Name = name
	}
	if p, ok := obj["p"].(map[string]any); ok {
		comp.Props = sanitizeMap(p, onReject)
	}
	if st, ok := obj["style"].(map[string]any); ok {
		comp.Style = sanitizeMap(st, onReject)
	}
	if kids, ok := obj["children"].([]any); ok {
		for _, k := range kids {
			if km, ok2 := k.(map[string]any); ok2 {
				comp.Children = append(comp.Children, buildComponent(km, onReject))
			}
		}
	}
	return comp
}

// fillTruncated decodes whatever top-level fields of a cut-off component
// object are locatable. Fields arrive in declaration order, so every field
// before the cut is complete and at most the last one needs repair.
func fillTruncated(comp *Component, s string, onReject func(string)) {
	if off := fieldStart(s, "p"); off >= 0 {
		comp.Props = extractMapField(s[off:], onReject)
	}
	if off := fieldStart(s, "style"); off >= 0 {
		comp.Style = extractMapField(s[off:], onReject)
	}
	if off := fieldStart(s, "children"); off >= 0 {
		comp.Children = extractChildren(s[off:], onReject)
	}
}

// extractMapField decodes the object value at the start of v, repairing it
// when its closing brace has not arrived yet.
func extractMapField(v string, onReject func(string)) map[string]any {
	b := strings.IndexByte(v, '{')
	if b < 0 || strings.TrimSpace(v[:b]) != "" {
		return nil
	}
	if end, ok := matchDelim(v, b); ok {
		if m, ok2 := parseLooseObject(v[b : end+1]); ok2 {
			return sanitizeMap(m, onReject)
		}
		return nil
	}
	if m, ok := repairFragment(v[b:]); ok {
		return sanitizeMap(m, onReject)
	}
	return nil
}

// extractChildren decodes the children array at the start of v. Each sibling
// is extracted independently up to the next sibling or end of input, which is
// what lets children reveal progressively one at a time.
func extractChildren(v string, onReject func(string)) []*Component {
	b := strings.IndexByte(v, '[')
	if b < 0 || strings.TrimSpace(v[:b]) != "" {
		return nil
	}
	inner := v[b+1:]
	if end, ok := matchDelim(v, b); ok {
		inner = v[b+1 : end]
	}
	var kids []*Component
	for _, span := range childSpans(inner) {
		if kid := extractObject(span, onReject); kid != nil {
			kids = append(kids, kid)
		}
	}
	return kids
}

// childSpans splits the inside of a children array into per-sibling object
// fragments. A truncated final sibling runs to the end of input.
func childSpans(s string) []string {
	var spans []string
	depth := 0
	inString := false
	start := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 && start >= 0 && c == '}' {
				spans = append(spans, s[start:i+1])
				start = -1
			}
		}
	}
	if start >= 0 {
		spans = append(spans, s[start:])
	}
	return spans
}

// fieldStart returns the offset just past "<key>:" for a top-level key of the
// object starting at s[0], or -1 when the key has not arrived. Both the bare
// wire form (key:) and the normalized form ("key":) are recognized.
func fieldStart(s, key string) int {
	depth := 0
	inString := false
	prev := byte(0)
	i := 0
	for i < len(s) {
		c := s[i]
		if inString {
			if c == '\\' && i+1 < len(s) {
				i += 2
				continue
			}
			if c == '"' {
				inString = false
				prev = '"'
			}
			i++
			continue
		}
		if depth == 1 && (prev == ',' || prev == '{') && c != ' ' && c != '\t' {
			if n := matchKey(s[i:], key); n > 0 {
				return i + n
			}
		}
		switch c {
		case '"':
			inString = true
			prev = '"'
		case '{', '[':
			depth++
			prev = c
		case '}', ']':
			depth--
			prev = c
		case ' ', '\t', '\n', '\r':
			// Whitespace does not change the significant predecessor.
		default:
			prev = c
		}
		i++
	}
	return -1
}

// matchKey reports the number of bytes consumed by "<key>:" (bare or quoted)
// at the start of s, or 0 when s does not begin with that key.
func matchKey(s, key string) int {
	for _, form := range []string{key, `"` + key + `"`} {
		if !strings.HasPrefix(s, form) {
			continue
		}
		rest := s[len(form):]
		t := strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(t, ":") {
			return len(form) + (len(rest) - len(t)) + 1
		}
	}
	return 0
}

// matchDelim returns the index of the delimiter matching the opening '{' or
// '[' at start, scanning string-aware. ok is false when the closer has not
// arrived yet.
func matchDelim(s string, start int) (int, bool) {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
