// Package langdetect guesses the language of fenced code blocks whose fence
// carries no info word, using go-enry over the streamed code body.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Fence tags for common detected languages.
const (
	langGo         = "go"
	langPython     = "python"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langSQL        = "sql"
	langDockerfile = "dockerfile"
	langText       = "text"
	langBash       = "bash"
)

// classifierCandidates bounds the enry classifier to languages that actually
// show up in model output.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect returns a fence tag for code content. Returns "text" when nothing
// matches confidently; the caller treats that as "no highlighting".
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return langText
	}

	// A shebang is the strongest signal and survives truncation of the rest.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang := detectByPattern(content); lang != "" {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return langText
}

// detectByPattern short-circuits the classifier on signatures that identify
// a language on their own. Order matters: earlier checks are more specific.
func detectByPattern(content []byte) string {
	s := string(content)
	trimmed := bytes.TrimSpace(content)

	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return langGo
	case isPython(s):
		return langPython
	case isHTML(trimmed):
		return langHTML
	case (trimmed[0] == '{' || trimmed[0] == '[') && bytes.Contains(trimmed, []byte(`"`)):
		return langJSON
	case isDockerfile(content, trimmed):
		return langDockerfile
	case isSQL(s):
		return langSQL
	case strings.Contains(s, "fn main()") || strings.Contains(s, "println!") || strings.Contains(s, "let mut "):
		return "rust"
	case strings.Contains(s, "console.log") || strings.Contains(s, "=>") || strings.Contains(s, "const "):
		return langJavaScript
	case isYAML(content):
		return langYAML
	}
	return ""
}

func isPython(s string) bool {
	if strings.Contains(s, "def ") && strings.Contains(s, "):") {
		return true
	}
	if strings.Contains(s, "import ") && !strings.Contains(s, "import (") {
		if strings.Contains(s, "from ") || strings.HasPrefix(strings.TrimSpace(s), "import ") {
			return true
		}
	}
	return strings.Contains(s, "__name__") || strings.Contains(s, "__main__")
}

func isHTML(trimmed []byte) bool {
	lower := bytes.ToLower(trimmed)
	return bytes.Contains(lower, []byte("<!doctype html")) ||
		bytes.Contains(lower, []byte("<html")) ||
		bytes.Contains(lower, []byte("<head>")) ||
		bytes.Contains(lower, []byte("<body>"))
}

func isDockerfile(content, trimmed []byte) bool {
	return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
		(bytes.Contains(content, []byte("\nFROM ")) && bytes.Contains(content, []byte("\nRUN "))) ||
		(bytes.Contains(content, []byte("WORKDIR ")) && bytes.Contains(content, []byte("COPY ")))
}

func isSQL(s string) bool {
	upper := strings.TrimSpace(strings.ToUpper(s))
	for _, kw := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}

// isYAML counts root-ish "key: value" lines and list items; two or more is
// taken as YAML.
func isYAML(content []byte) bool {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.Contains(line, []byte("(")) &&
			!bytes.Contains(line, []byte("{")) &&
			line[0] != '"' {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

// normalize converts enry language names to the fence tags highlighters
// expect.
func normalize(lang string) string {
	switch lang {
	case "Shell":
		return langBash
	case "C++":
		return "cpp"
	case "C#":
		return "csharp"
	}
	return strings.ToLower(lang)
}
