package stream

import (
	"fmt"
	"hash/fnv"

	"github.com/yaklabco/mdstream/pkg/inline"
)

// Registry is the accumulated splitting state for one stream. Values are
// immutable per version: every mutating operation returns a new Registry and
// leaves the receiver untouched. The blocks list is append-only and at most
// one active block exists at a time.
//
// A Registry is created once per stream. When new input is not an extension
// of the previous input the caller must discard the registry and start over;
// the splitter never attempts to recover from a diverged stream.
type Registry struct {
	// Blocks holds the finalized blocks in order of appearance.
	Blocks []StableBlock

	// Active is the single block still receiving characters, nil between
	// blocks.
	Active *ActiveBlock

	// ActiveTagState is the open inline-marker state of the active block,
	// rebuilt from scratch on every update.
	ActiveTagState inline.TagState

	// Cursor is the number of bytes of input consumed so far.
	Cursor int

	// counter seeds stable block ids; monotonic for the life of the stream.
	counter int
}

// NewRegistry returns an empty registry for a fresh stream.
func NewRegistry() *Registry {
	return &Registry{ActiveTagState: inline.Rebuild("")}
}

// ActivePreview returns the auto-fixed display form of the active block, or
// "" when no block is active.
func (r *Registry) ActivePreview() string {
	if r.Active == nil {
		return ""
	}
	return inline.Fix(r.Active.Content, r.ActiveTagState)
}

// clone returns a shallow copy sharing the blocks backing array. Appends to
// the copy never change what earlier versions can see.
func (r *Registry) clone() *Registry {
	nr := *r
	if r.Active != nil {
		a := *r.Active
		nr.Active = &a
	}
	return &nr
}

// nextID mints a stable block id from the monotonic counter.
func (r *Registry) nextID() string {
	id := fmt.Sprintf("block-%d", r.counter)
	r.counter++
	return id
}

// contentHash is a cheap non-cryptographic hash used by consumers for
// memoization equality.
func contentHash(content string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))
	return h.Sum32()
}
