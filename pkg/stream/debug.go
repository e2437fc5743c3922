package stream

import (
	"strings"

	"github.com/yaklabco/mdstream/pkg/inline"
)

const previewRunes = 48

// Snapshot is a point-in-time view of a registry for inspection tooling. It
// copies everything it reports, so holding one never pins a registry version.
type Snapshot struct {
	Cursor        int
	NewChars      int
	ActiveType    BlockType
	ActivePreview string
	TagStack      []inline.Tag
	Blocks        []BlockPreview
}

// BlockPreview is the display form of one finalized block.
type BlockPreview struct {
	ID      string
	Type    BlockType
	Preview string
}

// Snapshot reports the state of cur, with NewChars relative to prev. prev may
// be nil for the first snapshot of a stream.
func (s *Splitter) Snapshot(prev, cur *Registry) Snapshot {
	snap := Snapshot{Cursor: cur.Cursor, NewChars: cur.Cursor}
	if prev != nil {
		snap.NewChars = cur.Cursor - prev.Cursor
	}
	for _, b := range cur.Blocks {
		snap.Blocks = append(snap.Blocks, BlockPreview{
			ID:      b.ID,
			Type:    b.Type,
			Preview: preview(b.Content),
		})
	}
	if cur.Active != nil {
		snap.ActiveType = cur.Active.Type
		snap.ActivePreview = preview(cur.ActivePreview())
		snap.TagStack = append([]inline.Tag(nil), cur.ActiveTagState.Stack...)
	}
	return snap
}

// preview truncates content to its first line, capped at previewRunes runes.
func preview(content string) string {
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	rs := []rune(content)
	if len(rs) > previewRunes {
		return string(rs[:previewRunes]) + "…"
	}
	return content
}
