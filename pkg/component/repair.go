package component

import (
	"encoding/json"
	"regexp"
	"strings"
)

// trailingKey matches a final object key (quoted, optionally followed by a
// colon) that never received a value before the input was cut.
//
//nolint:gochecknoglobals // Compiled once.
var trailingKey = regexp.MustCompile(`[,{][ \t]*"(?:[^"\\]|\\.)*"[ \t]*:?[ \t]*$`)

// danglingComma matches a comma left hanging before a closing delimiter.
//
//nolint:gochecknoglobals // Compiled once.
var danglingComma = regexp.MustCompile(`,[ \t\n\r]*([}\]])`)

// parseLooseObject decodes a complete object fragment whose keys may be
// unquoted on the wire.
func parseLooseObject(fragment string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(quoteBareKeys(fragment)), &m); err != nil {
		return nil, false
	}
	return m, true
}

// repairFragment turns an object fragment truncated at an arbitrary byte into
// parseable JSON. The repair pipeline, in order: normalize unquoted keys,
// terminate an open string literal, strip a trailing comma, strip a trailing
// key that has no value yet, strip commas dangling before closers, then close
// every unmatched brace and bracket in reverse nesting order. Returns false
// when the result still does not parse.
func repairFragment(fragment string) (map[string]any, bool) {
	s := quoteBareKeys(fragment)

	// An open string literal is completed in place. This is what lets string
	// prop values reveal character by character while they stream.
	if _, open := scanOpen(s); open {
		s += `"`
	}

	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, ",")

	// A key with no value only occurs in object context, never for the last
	// element of an array.
	if stack, _ := scanOpen(s); len(stack) > 0 && stack[len(stack)-1] == '{' {
		if loc := trailingKey.FindStringIndex(s); loc != nil {
			if s[loc[0]] == '{' {
				s = s[:loc[0]+1]
			} else {
				s = s[:loc[0]]
			}
		}
	}

	s = danglingComma.ReplaceAllString(s, "$1")

	stack, _ := scanOpen(s)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			s += "}"
		} else {
			s += "]"
		}
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

// quoteBareKeys rewrites unquoted object keys to quoted JSON keys, leaving
// string contents untouched. Bare identifiers in value position (true, false,
// null) are preserved.
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	inString := false
	prev := byte(0) // last significant byte outside string literals
	i := 0
	for i < len(s) {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
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
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
			i++
		case isIdentStart(c) && (prev == '{' || prev == ','):
			j := i
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			k := j
			for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
				k++
			}
			// Quote when the identifier is followed by a colon, or when the
			// input ends mid-key.
			if k == len(s) || s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
				prev = '"'
			} else {
				b.WriteString(s[i:j])
				prev = s[j-1]
			}
			i = j
		default:
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				prev = c
			}
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// scanOpen returns the stack of unclosed braces and brackets outside string
// literals, and whether s ends inside a string literal.
func scanOpen(s string) (stack []byte, inString bool) {
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
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if n := len(stack); n > 0 && stack[n-1] == '{' {
				stack = stack[:n-1]
			}
		case ']':
			if n := len(stack); n > 0 && stack[n-1] == '[' {
				stack = stack[:n-1]
			}
		}
	}
	return stack, inString
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
