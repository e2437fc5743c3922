package stream

import (
	"context"
	"strconv"
	"strings"

	"github.com/yaklabco/mdstream/pkg/component"
	"github.com/yaklabco/mdstream/pkg/inline"
	"github.com/yaklabco/mdstream/pkg/langdetect"
)

// Splitter drives boundary detection over a growing text buffer. It holds
// only configuration; all per-stream state lives in the Registry, so one
// Splitter can serve any number of streams.
type Splitter struct {
	parser     Parser
	obs        *Observer
	detectLang bool
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithParser caches a structural parse on every finalized block that is not
// a component declaration.
func WithParser(p Parser) Option {
	return func(s *Splitter) { s.parser = p }
}

// WithObserver routes splitter telemetry to the given observer.
func WithObserver(o *Observer) Option {
	return func(s *Splitter) { s.obs = o }
}

// WithLanguageDetection toggles language detection for code blocks whose
// fence carries no info word. Enabled by default.
func WithLanguageDetection(enabled bool) Option {
	return func(s *Splitter) { s.detectLang = enabled }
}

// NewSplitter returns a Splitter with the given options applied.
func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{detectLang: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process consumes fullText, which must contain everything processed so far
// plus any new bytes, and returns the updated registry version. Calls where
// fullText has not grown are no-ops. The increment is replayed one byte at a
// time so that block boundaries land identically no matter how the caller
// chunks the stream.
//
// Replay makes a single call over n new bytes cost O(n) tag-state rescans of
// the active block; callers feeding very large buffers should batch at safe
// boundaries.
func (s *Splitter) Process(ctx context.Context, r *Registry, fullText string) *Registry {
	if len(fullText) <= r.Cursor {
		return r
	}
	nr := r.clone()
	for pos := nr.Cursor; pos < len(fullText); pos++ {
		s.consume(ctx, nr, fullText, pos)
	}
	nr.Cursor = len(fullText)
	return nr
}

// Finalize force-converts a non-blank active block into a stable block at
// stream end, independent of natural boundary detection.
func (s *Splitter) Finalize(ctx context.Context, r *Registry) *Registry {
	if r.Active == nil {
		return r
	}
	nr := r.clone()
	s.finalizeActive(ctx, nr)
	return nr
}

// consume advances the registry by the single byte full[pos], applying the
// boundary rules in priority order.
func (s *Splitter) consume(ctx context.Context, r *Registry, full string, pos int) {
	c := full[pos]

	if r.Active == nil {
		if c == '\n' {
			// Leading blank lines are trimmed; the cursor still accounts
			// for them.
			return
		}
		r.Active = &ActiveBlock{Content: full[pos : pos+1], StartPos: pos}
		r.Active.Type, _ = ClassifyLine(r.Active.Content)
		r.ActiveTagState = inline.Rebuild(r.Active.Content)
		return
	}

	a := r.Active
	a.Content = full[a.StartPos : pos+1]

	// Rule 1: explicitly delimited kinds finalize the moment their closing
	// delimiter balances.
	if a.Type == TypeCodeBlock && fenceClosed(a.Content) {
		s.finalizeActive(ctx, r)
		return
	}
	if a.Type == TypeComponent && component.Closed(a.Content) {
		s.finalizeActive(ctx, r)
		return
	}

	if c == '\n' {
		// Rule 2: headings and rules are single-line. A rule guessed from a
		// partial marker must have completed by the time its line ends, or
		// the guess is withdrawn and the line is an ordinary paragraph.
		if a.Type == TypeHeading {
			a.Content = a.Content[:len(a.Content)-1]
			s.finalizeActive(ctx, r)
			return
		}
		if a.Type == TypeHorizontalRule {
			line := a.Content[:len(a.Content)-1]
			if bt, ok := MatchComplete(line); ok && bt == TypeHorizontalRule {
				a.Content = line
				s.finalizeActive(ctx, r)
				return
			}
			a.Type = TypeParagraph
		}
		// Rule 4: a blank line ends every kind except those whose content
		// actually opened an explicit delimiter; their bodies may contain
		// blank lines. A partial-marker type guess alone never exempts,
		// since its delimiter can no longer balance. The newlines are
		// consumed but never stored.
		if !delimiterOpened(a) && strings.HasSuffix(a.Content, "\n\n") {
			a.Content = strings.TrimRight(a.Content, "\n")
			s.finalizeActive(ctx, r)
			return
		}
	}

	// Rule 3: a paragraph yields when its newest line turns out to start a
	// different block.
	if a.Type == TypeParagraph {
		if i := strings.LastIndexByte(a.Content, '\n'); i >= 0 {
			tail := a.Content[i+1:]
			if bt, ok := MatchComplete(tail); ok && bt != TypeParagraph {
				s.appendBlock(ctx, r, TypeParagraph, a.Content[:i], a.StartPos)
				tailStart := a.StartPos + i + 1
				r.Active = &ActiveBlock{Type: bt, Content: full[tailStart : pos+1], StartPos: tailStart}
				r.ActiveTagState = inline.Rebuild(r.Active.Content)
				return
			}
		}
	}

	// Rule 5: refresh the best-guess type and rescan the tag state.
	a.Type = classifyActive(a.Content)
	r.ActiveTagState = inline.Rebuild(a.Content)
}

// classifyActive re-derives the active block's type. A partial-marker guess
// holds only while the first line is still typing; once a newline lands
// without the marker completing, the block is a paragraph.
func classifyActive(content string) BlockType {
	bt, conf := ClassifyLine(content)
	if conf != ConfidenceDefinite && strings.ContainsRune(content, '\n') {
		return TypeParagraph
	}
	return bt
}

// delimiterOpened reports whether the active block's content actually opened
// its explicit delimiter: a complete fence run for a code block, the object
// opener for a component. Type guesses from partial markers do not count.
func delimiterOpened(a *ActiveBlock) bool {
	switch a.Type {
	case TypeCodeBlock:
		line := a.Content
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
	case TypeComponent:
		return strings.HasPrefix(a.Content, "[{")
	default:
		return false
	}
}

// finalizeActive converts the active block into a stable block and clears
// the active slot. A blank active block is dropped.
func (s *Splitter) finalizeActive(ctx context.Context, r *Registry) {
	a := r.Active
	r.Active = nil
	r.ActiveTagState = inline.Rebuild("")
	content := strings.TrimRight(a.Content, "\n")
	s.appendBlock(ctx, r, a.Type, content, a.StartPos)
}

// appendBlock builds and appends a stable block, skipping blank content.
func (s *Splitter) appendBlock(ctx context.Context, r *Registry, typ BlockType, content string, startPos int) {
	if strings.TrimSpace(content) == "" {
		return
	}
	blk := StableBlock{
		ID:          r.nextID(),
		Type:        typ,
		Content:     content,
		ContentHash: contentHash(content),
		StartPos:    startPos,
		EndPos:      startPos + len(content),
		Meta:        s.buildMeta(typ, content),
	}
	if typ == TypeComponent {
		blk.Component = component.ExtractNotify(content, func(raw string) {
			s.obs.urlRejected(blk.ID, raw)
		})
		if blk.Component != nil {
			blk.Meta.ComponentName = blk.Component.Name
		}
	} else if s.parser != nil {
		tree, err := s.parser.Parse(ctx, []byte(content))
		if err != nil {
			// One malformed block must not halt the stream; the block simply
			// carries no cached tree.
			s.obs.parseDegraded(blk.ID, err)
		} else {
			blk.AST = tree
		}
	}
	r.Blocks = append(r.Blocks, blk)
	s.obs.blockFinalized(&blk)
}

// buildMeta captures per-type details from finalized content.
func (s *Splitter) buildMeta(typ BlockType, content string) Meta {
	var m Meta
	switch typ {
	case TypeHeading:
		for m.HeadingLevel < len(content) && content[m.HeadingLevel] == '#' {
			m.HeadingLevel++
		}
		if m.HeadingLevel > 6 {
			m.HeadingLevel = 6
		}
	case TypeOrderedList:
		digits := content[:len(content)-len(strings.TrimLeft(content, "0123456789"))]
		if n, err := strconv.Atoi(digits); err == nil {
			m.ListStart = n
		}
	case TypeCodeBlock:
		m.Language = fenceInfo(content)
		if m.Language == "" && s.detectLang {
			m.Language = langdetect.Detect([]byte(fenceBody(content)))
		}
	}
	return m
}

// fenceClosed reports whether content, whose first line opens a fence, now
// ends with a balancing closing fence.
func fenceClosed(content string) bool {
	nl := strings.IndexByte(content, '\n')
	if nl <= 0 {
		return false
	}
	fc := content[0]
	if fc != '`' && fc != '~' {
		return false
	}
	openLen := 0
	for openLen < nl && content[openLen] == fc {
		openLen++
	}
	if openLen < 3 {
		return false
	}
	last := content[strings.LastIndexByte(content, '\n')+1:]
	if last == "" || strings.TrimRight(last, string(fc)) != "" {
		return false
	}
	return len(last) >= openLen
}

// fenceInfo returns the info word following the opening fence delimiter.
func fenceInfo(content string) string {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	info := strings.TrimSpace(strings.TrimLeft(line, "`~"))
	if f := strings.Fields(info); len(f) > 0 {
		return f[0]
	}
	return ""
}

// fenceBody returns the code between the opening fence line and the closing
// fence, or everything after the opener when the block never closed.
func fenceBody(content string) string {
	nl := strings.IndexByte(content, '\n')
	if nl < 0 {
		return ""
	}
	body := content[nl+1:]
	if fenceClosed(content) {
		if i := strings.LastIndexByte(body, '\n'); i >= 0 {
			body = body[:i]
		} else {
			body = ""
		}
	}
	return body
}
