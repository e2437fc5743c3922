package inline

import (
	"regexp"
	"strings"
)

// zeroWidthSpace pads an empty italic closer so the hide pass can remove the
// whole marker pair cleanly later.
const zeroWidthSpace = "\u200b"

// hideSuffixes are empty or placeholder marker sequences removed from the end
// of a preview, longest pattern first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var hideSuffixes = []string{
	"***" + zeroWidthSpace + "***", // empty bold+italic, zero-width variant
	"******",                       // empty bold+italic
	"****",                         // empty bold
	"*" + zeroWidthSpace + "*",     // empty italic
	"~~~~",                         // empty strikethrough, ~~ variant
	"~~",                           // empty strikethrough, ~ variant
	"``",                           // empty inline code
	"[](#)",                        // placeholder link
	"[]()",                         // empty link
	"[]",
	"[",
}

// trailingOrdinal matches a bare number at end of input that looks like an
// ordered-list marker still missing its dot.
//
//nolint:gochecknoglobals // Compiled once.
var trailingOrdinal = regexp.MustCompile(`\n\d+$`)

// Fix returns a preview of text with every open tag in state auto-closed or
// hidden. It only ever touches the unterminated tail: on input whose tag
// state is fully closed the text comes back unchanged, so fixing is
// idempotent.
func Fix(text string, state TagState) string {
	// Closers must land before trailing spaces and tabs to parse correctly;
	// newlines stay with the body.
	body, trail := splitTrailingBlanks(text)
	origLen := len(body)

	first := true
	for idx := len(state.Stack) - 1; idx >= 0; idx-- {
		tag := state.Stack[idx]
		switch tag.Type {
		case TagPendingFence:
			// Hidden, never completed.
			continue

		case TagBold:
			closer := "**"
			if first && trailingRun(body, '*') == 1 && !strings.HasSuffix(body, "***") {
				// The text already ends with the first half of the closer.
				closer = "*"
			}
			body += closer

		case TagItalic:
			if tag.Position+len(tag.Marker) >= origLen {
				body += zeroWidthSpace + "*"
			} else {
				body += "*"
			}

		case TagCode:
			body += "`"

		case TagStrikethrough:
			closer := tag.Marker
			if tag.Marker == "~~" && first && trailingRun(body, '~') == 1 {
				closer = "~"
			}
			body += closer

		case TagCodeBlock:
			fc := tag.Marker[0]
			// Drop a partial closing fence before appending the real one.
			if n := trailingRun(body, fc); n > 0 && n < 3 {
				body = body[:len(body)-n]
			}
			if body != "" && !strings.HasSuffix(body, "\n") {
				body += "\n"
			}
			body += strings.Repeat(string(fc), 3)

		case TagLink:
			switch {
			case tag.Phase == LinkPhaseURL:
				body += ")"
			case tag.BracketClosed:
				body += "(#)"
			default:
				body += "](#)"
			}
		}
		first = false
	}

	if trailingOrdinal.MatchString(body) {
		body += "."
	}

	// A declaration still streaming its payload is hidden entirely until it
	// terminates.
	if i := strings.LastIndex(body, "[{"); i >= 0 && !componentTerminated(body[i:]) {
		body = body[:i]
	}

	// Empty-marker hiding applies only within the unterminated tail, so
	// markers belonging to already well-formed text are never stripped.
	if len(state.Stack) > 0 {
		min := state.EarliestPosition
		for {
			trimmed := false
			for _, h := range hideSuffixes {
				if strings.HasSuffix(body, h) && len(body)-len(h) >= min {
					body = body[:len(body)-len(h)]
					trimmed = true
					break
				}
			}
			if !trimmed {
				break
			}
		}
	}

	return body + trail
}

// splitTrailingBlanks separates trailing spaces and tabs (not newlines) from
// the end of s.
func splitTrailingBlanks(s string) (body, trail string) {
	i := len(s)
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		i--
	}
	return s[:i], s[i:]
}

func trailingRun(s string, c byte) int {
	n := 0
	for len(s)-1-n >= 0 && s[len(s)-1-n] == c {
		n++
	}
	return n
}
