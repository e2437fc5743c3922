package component

import (
	"net/url"
	"regexp"
	"strings"
)

// allowedSchemes lists the URL protocols that survive sanitization.
// Everything else fails closed.
//
//nolint:gochecknoglobals // Read-only lookup table.
var allowedSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
	"tel":    {},
	"sms":    {},
}

// relativePrefixes are structurally relative URL forms that bypass scheme
// parsing entirely.
//
//nolint:gochecknoglobals // Read-only lookup table.
var relativePrefixes = []string{"./", "../", "/", "#"}

// schemePattern matches strings that begin with a URI scheme per RFC 3986.
// Matching is case-insensitive so that "JavaScript:" cannot slip past the
// allowlist check.
//
//nolint:gochecknoglobals // Compiled once.
var schemePattern = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*:`)

// SanitizeURL validates a link destination against the fixed allowlist.
// Allowed are http, https, mailto, tel and sms URLs plus structurally
// relative forms ("/", "#", "./", "../"), which are returned unchanged.
// Everything else, including javascript:, data:, vbscript:, file: and
// malformed strings, is rejected: ok is false and the returned string is
// empty.
func SanitizeURL(raw string) (string, bool) {
	for _, p := range relativePrefixes {
		if strings.HasPrefix(raw, p) {
			return raw, true
		}
	}
	if !schemePattern.MatchString(raw) {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if _, ok := allowedSchemes[strings.ToLower(u.Scheme)]; !ok {
		return "", false
	}
	return raw, true
}

// SanitizeProps walks an arbitrarily nested prop tree and replaces every
// rejected URL-shaped string with "". Strings that do not look like URLs and
// non-string values pass through unchanged. The input is not mutated; maps
// and slices are rebuilt.
func SanitizeProps(v any) any {
	return sanitizeValue(v, nil)
}

func sanitizeValue(v any, onReject func(string)) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = sanitizeValue(val, onReject)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = sanitizeValue(val, onReject)
		}
		return out
	case string:
		if !schemePattern.MatchString(t) {
			return t
		}
		clean, ok := SanitizeURL(t)
		if !ok {
			if onReject != nil {
				onReject(t)
			}
			return ""
		}
		return clean
	default:
		return v
	}
}

func sanitizeMap(m map[string]any, onReject func(string)) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := sanitizeValue(m, onReject).(map[string]any)
	return out
}
