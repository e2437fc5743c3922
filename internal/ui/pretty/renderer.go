package pretty

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdstream/pkg/stream"
)

// Renderer writes blocks and snapshots as styled terminal output.
type Renderer struct {
	styles    *Styles
	writer    io.Writer
	termWidth int
}

// NewRenderer creates a renderer for the given writer.
func NewRenderer(styles *Styles, writer io.Writer) *Renderer {
	return &Renderer{
		styles:    styles,
		writer:    writer,
		termWidth: TerminalWidth(writer),
	}
}

// RenderBlock writes one finalized block with its chrome line.
func (r *Renderer) RenderBlock(b *stream.StableBlock) {
	chrome := r.styles.BlockID.Render(b.ID) + "  " + r.styles.BlockType.Render(string(b.Type))
	switch {
	case b.Meta.HeadingLevel > 0:
		chrome += r.styles.Dim.Render(fmt.Sprintf(" h%d", b.Meta.HeadingLevel))
	case b.Meta.Language != "":
		chrome += "  " + r.styles.Language.Render(b.Meta.Language)
	case b.Meta.ComponentName != "":
		chrome += "  " + r.styles.Component.Render(b.Meta.ComponentName)
	}
	fmt.Fprintln(r.writer, chrome)
	fmt.Fprintln(r.writer, r.blockStyle(b.Type).Render(b.Content))
	fmt.Fprintln(r.writer, r.divider())
}

// RenderActive writes the auto-fixed preview of the in-progress block.
func (r *Renderer) RenderActive(typ stream.BlockType, preview string) {
	if preview == "" {
		return
	}
	fmt.Fprintln(r.writer, r.styles.ActiveMarker.Render("~ active")+"  "+r.styles.BlockType.Render(string(typ)))
	fmt.Fprintln(r.writer, r.blockStyle(typ).Render(preview))
}

// RenderSnapshot writes an inspection snapshot: counters, finalized block
// previews, and the open tag stack.
func (r *Renderer) RenderSnapshot(snap stream.Snapshot) {
	fmt.Fprintln(r.writer, r.styles.Cursor.Render(
		fmt.Sprintf("cursor=%d (+%d)", snap.Cursor, snap.NewChars)))

	for _, b := range snap.Blocks {
		fmt.Fprintf(r.writer, "  %s  %-14s %s\n",
			r.styles.BlockID.Render(b.ID),
			r.styles.BlockType.Render(string(b.Type)),
			b.Preview)
	}

	if snap.ActivePreview != "" || snap.ActiveType != "" {
		fmt.Fprintf(r.writer, "  %s  %-14s %s\n",
			r.styles.ActiveMarker.Render("~ active"),
			r.styles.BlockType.Render(string(snap.ActiveType)),
			snap.ActivePreview)
	}

	if len(snap.TagStack) > 0 {
		names := make([]string, 0, len(snap.TagStack))
		for _, t := range snap.TagStack {
			names = append(names, string(t.Type))
		}
		fmt.Fprintln(r.writer, "  "+r.styles.TagStack.Render("open: "+strings.Join(names, " > ")))
	}
}

func (r *Renderer) blockStyle(typ stream.BlockType) lipgloss.Style {
	switch typ {
	case stream.TypeHeading:
		return r.styles.Heading
	case stream.TypeCodeBlock:
		return r.styles.CodeBlock
	case stream.TypeBlockquote:
		return r.styles.Blockquote
	case stream.TypeComponent:
		return r.styles.Component
	default:
		return r.styles.Paragraph
	}
}

func (r *Renderer) divider() string {
	width := r.termWidth
	if width > defaultTermWidth {
		width = defaultTermWidth
	}
	return r.styles.Divider.Render(strings.Repeat("-", width))
}
