// Package inline tracks unterminated inline markdown markers in streaming
// text and repairs them for format-as-you-type display. The tracker is a full
// left-to-right rescan rather than an incremental automaton; on every update
// the whole block content is scanned again, which keeps the disambiguation
// rules simple at the cost of O(n) work per update.
package inline

import (
	"github.com/yaklabco/mdstream/pkg/component"
)

// TagType identifies an inline marker tracked on the open-tag stack.
type TagType string

const (
	TagBold          TagType = "bold"
	TagItalic        TagType = "italic"
	TagCode          TagType = "code"
	TagStrikethrough TagType = "strikethrough"
	TagLink          TagType = "link"
	TagCodeBlock     TagType = "codeBlock"

	// TagPendingFence marks one or two trailing backticks that may still grow
	// into a fence delimiter. It is hidden from previews and never completed.
	TagPendingFence TagType = "pendingFence"
)

// LinkPhase tracks which half of a link is still streaming.
type LinkPhase int

const (
	LinkPhaseNone LinkPhase = iota
	LinkPhaseText
	LinkPhaseURL
)

// Tag is one open inline marker.
type Tag struct {
	Type     TagType
	Position int    // byte offset of the opening marker
	Marker   string // literal marker that opened the tag

	Phase         LinkPhase // links only
	BracketClosed bool      // link text already terminated by ']'
}

// TagState is the result of a full rescan of a block's content.
type TagState struct {
	// Stack holds the currently open tags, outermost first. Closing them
	// innermost-first restores well-formed markup.
	Stack []Tag

	// Counts tallies how many tags of each type were opened during the scan.
	Counts map[TagType]int

	// EarliestPosition is the byte offset of the outermost open tag, or -1
	// when nothing is open. Everything before it is already well-formed.
	EarliestPosition int

	InCodeBlock  bool
	InInlineCode bool
}

// Rebuild scans text from the start and returns the open-marker state at its
// end. It is a pure function of the text.
func Rebuild(text string) TagState {
	st := TagState{Counts: make(map[TagType]int), EarliestPosition: -1}
	var stack []Tag

	push := func(t Tag) {
		stack = append(stack, t)
		st.Counts[t.Type]++
	}
	findIdx := func(tt TagType) int {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].Type == tt {
				return i
			}
		}
		return -1
	}
	removeAt := func(i int) {
		stack = append(stack[:i], stack[i+1:]...)
	}

	i := 0
	for i < len(text) {
		c := text[i]
		atLineStart := i == 0 || text[i-1] == '\n'

		// Inside a fenced block nothing is interpreted except the closing
		// fence, or a partial closer still streaming at end of input.
		if st.InCodeBlock {
			fi := findIdx(TagCodeBlock)
			if atLineStart && fi >= 0 && c == stack[fi].Marker[0] {
				run := runLen(text, i, c)
				if run >= 3 {
					removeAt(fi)
					st.InCodeBlock = false
					i += run
					continue
				}
				if c == '`' && i+run == len(text) {
					push(Tag{Type: TagPendingFence, Position: i, Marker: text[i : i+run]})
					i += run
					continue
				}
			}
			i++
			continue
		}

		if c == '`' {
			run := runLen(text, i, c)
			if atLineStart && run >= 3 && !st.InInlineCode {
				push(Tag{Type: TagCodeBlock, Position: i, Marker: text[i : i+run]})
				st.InCodeBlock = true
				i += run
				continue
			}
			if atLineStart && i+run == len(text) && !st.InInlineCode {
				// Still ambiguous between inline code and an opening fence.
				push(Tag{Type: TagPendingFence, Position: i, Marker: text[i : i+run]})
				i += run
				continue
			}
			for k := 0; k < run; k++ {
				if ci := findIdx(TagCode); ci >= 0 {
					removeAt(ci)
					st.InInlineCode = false
				} else {
					push(Tag{Type: TagCode, Position: i + k, Marker: "`"})
					st.InInlineCode = true
				}
			}
			i += run
			continue
		}

		// A component declaration region is exempt from markdown
		// tokenization entirely.
		if c == '[' && i+1 < len(text) && text[i+1] == '{' {
			i = skipComponentRegion(text, i)
			continue
		}

		// An open inline code span suppresses every other marker.
		if st.InInlineCode {
			i++
			continue
		}

		switch c {
		case '~':
			if run := runLen(text, i, '~'); atLineStart && run >= 3 {
				push(Tag{Type: TagCodeBlock, Position: i, Marker: text[i : i+run]})
				st.InCodeBlock = true
				i += run
				continue
			}
			two := i+1 < len(text) && text[i+1] == '~'
			si := findIdx(TagStrikethrough)
			switch {
			case si >= 0 && stack[si].Marker == "~~":
				if two {
					removeAt(si)
					i += 2
				} else {
					// A lone tilde after a ~~ opener is at most a pending
					// half closer; it never opens a new tag.
					i++
				}
			case si >= 0: // opened with a bare ~, closes only with ~
				removeAt(si)
				i++
			default:
				if two {
					push(Tag{Type: TagStrikethrough, Position: i, Marker: "~~"})
					i += 2
				} else {
					push(Tag{Type: TagStrikethrough, Position: i, Marker: "~"})
					i++
				}
			}

		case '*':
			if i+1 < len(text) && text[i+1] == '*' {
				if bi := findIdx(TagBold); bi >= 0 {
					removeAt(bi)
				} else {
					push(Tag{Type: TagBold, Position: i, Marker: "**"})
				}
				i += 2
				continue
			}
			if ii := findIdx(TagItalic); ii >= 0 {
				removeAt(ii)
				i++
				continue
			}
			if bi := findIdx(TagBold); bi >= 0 && i == len(text)-1 {
				// A final lone star while bold is open is the first half of
				// the ** closer, unless it sits right on the opener with no
				// content between: then *** opened bold and italic together.
				if i == stack[bi].Position+2 {
					push(Tag{Type: TagItalic, Position: i, Marker: "*"})
				}
				i++
				continue
			}
			push(Tag{Type: TagItalic, Position: i, Marker: "*"})
			i++

		case '[':
			push(Tag{Type: TagLink, Position: i, Marker: "[", Phase: LinkPhaseText})
			i++

		case ']':
			li := linkIdx(stack, LinkPhaseText)
			if li < 0 {
				i++
				continue
			}
			switch {
			case i+1 < len(text) && text[i+1] == '(':
				stack[li].Phase = LinkPhaseURL
				i += 2
			case i == len(text)-1:
				stack[li].BracketClosed = true
				i++
			default:
				// Bracket closed without a destination: not a link.
				removeAt(li)
				i++
			}

		case ')':
			if li := linkIdx(stack, LinkPhaseURL); li >= 0 {
				removeAt(li)
			}
			i++

		default:
			i++
		}
	}

	st.Stack = stack
	if len(stack) > 0 {
		st.EarliestPosition = stack[0].Position
	}
	return st
}

// linkIdx returns the innermost open link tag in the given phase.
func linkIdx(stack []Tag, phase LinkPhase) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Type == TagLink && stack[i].Phase == phase {
			return i
		}
	}
	return -1
}

// skipComponentRegion advances past a [{...}] declaration starting at the '['
// at position i, tracking brace depth string-aware. A truncated declaration
// exempts everything through end of input.
func skipComponentRegion(text string, i int) int {
	depth := 0
	inString := false
	for j := i + 1; j < len(text); j++ {
		c := text[j]
		if inString {
			if c == '\\' {
				j++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if j+1 < len(text) && text[j+1] == ']' {
					return j + 2
				}
				return j + 1
			}
		}
	}
	return len(text)
}

// componentTerminated reports whether the declaration at the "[{" prefix of s
// closes within s.
func componentTerminated(s string) bool {
	return component.Closed(s)
}

func runLen(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}
