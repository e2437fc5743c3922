// Package stream incrementally converts a growing model response into a
// sequence of immutable stable blocks plus one mutable in-progress block.
// Splitting is chunk-invariant: the final registry state depends only on the
// accumulated text, never on how the caller partitioned it across calls.
package stream

import (
	"context"

	"github.com/yaklabco/mdstream/pkg/component"
)

// BlockType classifies a block by its opening marker.
type BlockType string

const (
	TypeParagraph      BlockType = "paragraph"
	TypeHeading        BlockType = "heading"
	TypeCodeBlock      BlockType = "codeBlock"
	TypeBlockquote     BlockType = "blockquote"
	TypeOrderedList    BlockType = "orderedList"
	TypeUnorderedList  BlockType = "unorderedList"
	TypeHorizontalRule BlockType = "horizontalRule"
	TypeComponent      BlockType = "component"
	TypeImage          BlockType = "image"
	TypeTable          BlockType = "table"
)

// Meta carries per-type details captured when a block is classified or
// finalized.
type Meta struct {
	// HeadingLevel is 1-6 for heading blocks, 0 otherwise.
	HeadingLevel int

	// Language is the fence info word of a code block, or a detected
	// language when the fence carried none.
	Language string

	// ListStart is the first marker number of an ordered list.
	ListStart int

	// ComponentName is the declared name of a component block.
	ComponentName string
}

// Tree is an opaque structural parse of a finalized block.
type Tree interface {
	// PlainText returns the flattened text content of the tree.
	PlainText() string

	// Degraded reports whether the tree is a plain-text fallback produced
	// after the underlying parser failed.
	Degraded() bool
}

// Parser parses finalized or auto-fixed markdown into a structural tree. It
// is never handed raw truncated text. Implementations must be deterministic
// and side-effect free; a failure must degrade, not propagate, so that one
// malformed block cannot halt the stream.
type Parser interface {
	Parse(ctx context.Context, content []byte) (Tree, error)
}

// StableBlock is a finalized block. It is never mutated after creation,
// which is what lets consumers memoize on it without synchronization.
type StableBlock struct {
	// ID is a stable identifier seeded by the registry's block counter.
	ID string

	Type    BlockType
	Content string

	// ContentHash is a cheap fnv-1a hash of Content, for memoization
	// equality only.
	ContentHash uint32

	// StartPos and EndPos are byte offsets of Content within the full
	// accumulated text.
	StartPos int
	EndPos   int

	Meta Meta

	// Component holds the decoded declaration of a component block.
	Component *component.Component

	// AST is the cached structural parse, when a Parser was configured.
	AST Tree
}

// ActiveBlock is the single block still receiving characters. Its type is a
// best current guess and may change as more of the line arrives; its content
// is append-only.
type ActiveBlock struct {
	Type     BlockType
	Content  string
	StartPos int
}
