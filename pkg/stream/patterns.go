package stream

import (
	"regexp"
	"strings"
)

// Confidence grades how committal a partial marker match is. The UI may show
// a block's eventual type before its first line finishes typing, but
// finalization never relies on partial matches.
type Confidence string

const (
	ConfidencePossible Confidence = "possible"
	ConfidenceLikely   Confidence = "likely"
	ConfidenceDefinite Confidence = "definite"
)

// blockPattern pairs a block type with its complete marker pattern
// (delimiter plus required space or content) and its partial pattern (the
// delimiter alone, still being typed).
type blockPattern struct {
	typ        BlockType
	complete   *regexp.Regexp
	partial    *regexp.Regexp
	confidence func(line string) Confidence
}

// blockPatterns is ordered by precedence: when several patterns match the
// same line, the earliest entry wins. Paragraph is the implicit default and
// has no entry. Setext headings are intentionally not recognized; ATX only.
//
//nolint:gochecknoglobals // Read-only lookup table.
var blockPatterns = []blockPattern{
	{
		typ:        TypeHeading,
		complete:   regexp.MustCompile(`^#{1,6} `),
		partial:    regexp.MustCompile(`^#{1,6}$`),
		confidence: constConfidence(ConfidenceDefinite),
	},
	{
		typ:        TypeCodeBlock,
		complete:   regexp.MustCompile("^(?:`{3,}|~{3,})"),
		partial:    regexp.MustCompile("^(?:`{1,2})$"),
		confidence: constConfidence(ConfidencePossible),
	},
	{
		typ:        TypeHorizontalRule,
		complete:   regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})[ \t]*$`),
		partial:    regexp.MustCompile(`^(?:-{1,2}|\*{1,2}|_{1,2})$`),
		confidence: constConfidence(ConfidencePossible),
	},
	{
		typ:      TypeOrderedList,
		complete: regexp.MustCompile(`^\d+\. `),
		partial:  regexp.MustCompile(`^\d+\.?$`),
		confidence: func(line string) Confidence {
			if strings.HasSuffix(line, ".") {
				return ConfidenceLikely
			}
			return ConfidencePossible
		},
	},
	{
		typ:        TypeUnorderedList,
		complete:   regexp.MustCompile(`^[-*+] `),
		partial:    regexp.MustCompile(`^[-*+]$`),
		confidence: constConfidence(ConfidencePossible),
	},
	{
		typ:        TypeBlockquote,
		complete:   regexp.MustCompile(`^> ?`),
		partial:    regexp.MustCompile(`^>$`),
		confidence: constConfidence(ConfidenceDefinite),
	},
	{
		typ:      TypeComponent,
		complete: regexp.MustCompile(`^\[\{c:"`),
		partial:  regexp.MustCompile(`^\[(?:\{(?:c(?::"?)?)?)?$`),
		confidence: func(line string) Confidence {
			switch {
			case strings.HasPrefix(line, "[{c"):
				return ConfidenceDefinite
			case strings.HasPrefix(line, "[{"):
				return ConfidenceLikely
			default:
				return ConfidencePossible
			}
		},
	},
	{
		typ:      TypeImage,
		complete: regexp.MustCompile(`^!\[[^\]]*\]\([^)]*\)`),
		partial:  regexp.MustCompile(`^!(?:\[.*)?$`),
		confidence: func(line string) Confidence {
			if strings.HasPrefix(line, "![") {
				return ConfidenceLikely
			}
			return ConfidencePossible
		},
	},
	{
		typ:        TypeTable,
		complete:   regexp.MustCompile(`^\|.*\|`),
		partial:    regexp.MustCompile(`^\|[^|]*$`),
		confidence: constConfidence(ConfidenceLikely),
	},
}

func constConfidence(c Confidence) func(string) Confidence {
	return func(string) Confidence { return c }
}

// MatchComplete classifies a line against the complete marker patterns, in
// precedence order. ok is false when only the paragraph default applies.
func MatchComplete(line string) (BlockType, bool) {
	for _, p := range blockPatterns {
		if p.complete.MatchString(line) {
			return p.typ, true
		}
	}
	return TypeParagraph, false
}

// MatchPartial classifies a line that may still be typing its marker. ok is
// false when no partial delimiter matches.
func MatchPartial(line string) (BlockType, Confidence, bool) {
	for _, p := range blockPatterns {
		if p.partial.MatchString(line) {
			return p.typ, p.confidence(line), true
		}
	}
	return TypeParagraph, ConfidencePossible, false
}

// ClassifyLine derives the best current type for a block from its first
// line: a complete marker wins over a partial one, and a line matching
// neither is a paragraph.
func ClassifyLine(content string) (BlockType, Confidence) {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	if bt, ok := MatchComplete(line); ok {
		return bt, ConfidenceDefinite
	}
	if bt, conf, ok := MatchPartial(line); ok {
		return bt, conf
	}
	return TypeParagraph, ConfidenceDefinite
}
