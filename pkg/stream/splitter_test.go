package stream_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdstream/pkg/stream"
)

type fakeTree struct{ text string }

func (f fakeTree) PlainText() string { return f.text }
func (f fakeTree) Degraded() bool    { return false }

type fakeParser struct{ calls int }

func (p *fakeParser) Parse(_ context.Context, content []byte) (stream.Tree, error) {
	p.calls++
	return fakeTree{text: string(content)}, nil
}

func newTestSplitter() *stream.Splitter {
	return stream.NewSplitter(stream.WithLanguageDetection(false))
}

func TestHeadingFinalizesAtNewline(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "# Hello\nWorld")

	require.Len(t, reg.Blocks, 1)
	blk := reg.Blocks[0]
	assert.Equal(t, stream.TypeHeading, blk.Type)
	assert.Equal(t, "# Hello", blk.Content)
	assert.Equal(t, 1, blk.Meta.HeadingLevel)
	assert.Equal(t, 0, blk.StartPos)
	assert.Equal(t, 7, blk.EndPos)

	require.NotNil(t, reg.Active)
	assert.Equal(t, stream.TypeParagraph, reg.Active.Type)
	assert.Equal(t, "World", reg.Active.Content)
}

func TestFinalizeFlushesActive(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	ctx := context.Background()
	reg := s.Process(ctx, stream.NewRegistry(), "Some text")

	require.NotNil(t, reg.Active)
	assert.Empty(t, reg.Blocks)

	final := s.Finalize(ctx, reg)
	require.Len(t, final.Blocks, 1)
	assert.Equal(t, stream.TypeParagraph, final.Blocks[0].Type)
	assert.Equal(t, "Some text", final.Blocks[0].Content)
	assert.Nil(t, final.Active)

	// The pre-finalize version is untouched.
	assert.NotNil(t, reg.Active)
	assert.Empty(t, reg.Blocks)
}

func TestBlankLineEndsParagraph(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "para one\n\npara two")

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, "para one", reg.Blocks[0].Content)
	require.NotNil(t, reg.Active)
	assert.Equal(t, "para two", reg.Active.Content)
}

func TestParagraphYieldsToNewMarker(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "text\n# Head")

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, stream.TypeParagraph, reg.Blocks[0].Type)
	assert.Equal(t, "text", reg.Blocks[0].Content)

	require.NotNil(t, reg.Active)
	assert.Equal(t, stream.TypeHeading, reg.Active.Type)
	assert.Equal(t, "# Head", reg.Active.Content)
	assert.Equal(t, 5, reg.Active.StartPos)
}

func TestMultilineParagraphStaysTogether(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "line one\nline two\nline three")

	assert.Empty(t, reg.Blocks)
	require.NotNil(t, reg.Active)
	assert.Equal(t, "line one\nline two\nline three", reg.Active.Content)
}

func TestCodeFenceFinalizesAtClosingFence(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "```go\ncode()\n```\nafter")

	require.Len(t, reg.Blocks, 1)
	blk := reg.Blocks[0]
	assert.Equal(t, stream.TypeCodeBlock, blk.Type)
	assert.Equal(t, "```go\ncode()\n```", blk.Content)
	assert.Equal(t, "go", blk.Meta.Language)

	require.NotNil(t, reg.Active)
	assert.Equal(t, "after", reg.Active.Content)
}

func TestCodeFenceIgnoresBlankLinesInside(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "```\na\n\n\nb\n```")

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, "```\na\n\n\nb\n```", reg.Blocks[0].Content)
}

func TestLongerFenceNeedsMatchingCloser(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "````\n```\n````")

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, "````\n```\n````", reg.Blocks[0].Content)
}

func TestComponentFinalizesWhenTerminated(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	doc := `[{c:"Card",p:{"title":"Hi"}}]` + "\nmore"
	reg := s.Process(context.Background(), stream.NewRegistry(), doc)

	require.Len(t, reg.Blocks, 1)
	blk := reg.Blocks[0]
	assert.Equal(t, stream.TypeComponent, blk.Type)
	assert.Equal(t, "Card", blk.Meta.ComponentName)
	require.NotNil(t, blk.Component)
	assert.Equal(t, "Card", blk.Component.Name)
	assert.Equal(t, map[string]any{"title": "Hi"}, blk.Component.Props)

	require.NotNil(t, reg.Active)
	assert.Equal(t, "more", reg.Active.Content)
}

func TestHorizontalRuleFinalizesAtNewline(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "---\nnext")

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, stream.TypeHorizontalRule, reg.Blocks[0].Type)
	assert.Equal(t, "---", reg.Blocks[0].Content)
}

// A one-character line that only might open a fence or component must not
// exempt the block from the blank-line rule: its delimiter can never balance,
// and without the demotion every later block would be swallowed until
// Finalize.
func TestPartialDelimiterGuessDoesNotSwallowStream(t *testing.T) {
	t.Parallel()

	t.Run("lone backtick", func(t *testing.T) {
		t.Parallel()
		s := newTestSplitter()
		reg := s.Process(context.Background(), stream.NewRegistry(),
			"`\ntext\n\n# Heading\n\npara two\n\n")

		require.Len(t, reg.Blocks, 3)
		assert.Equal(t, stream.TypeParagraph, reg.Blocks[0].Type)
		assert.Equal(t, "`\ntext", reg.Blocks[0].Content)
		assert.Equal(t, stream.TypeHeading, reg.Blocks[1].Type)
		assert.Equal(t, "# Heading", reg.Blocks[1].Content)
		assert.Equal(t, "para two", reg.Blocks[2].Content)
	})

	t.Run("lone open bracket", func(t *testing.T) {
		t.Parallel()
		s := newTestSplitter()
		reg := s.Process(context.Background(), stream.NewRegistry(),
			"[\nnote\n\n# Done\n")

		require.Len(t, reg.Blocks, 2)
		assert.Equal(t, stream.TypeParagraph, reg.Blocks[0].Type)
		assert.Equal(t, "[\nnote", reg.Blocks[0].Content)
		assert.Equal(t, stream.TypeHeading, reg.Blocks[1].Type)
	})

	t.Run("real fence still holds blank lines", func(t *testing.T) {
		t.Parallel()
		s := newTestSplitter()
		reg := s.Process(context.Background(), stream.NewRegistry(), "```\na\n\nb\n\n")

		assert.Empty(t, reg.Blocks)
		require.NotNil(t, reg.Active)
		assert.Equal(t, stream.TypeCodeBlock, reg.Active.Type)
	})
}

// A lone dash might become a rule, but once its line ends without the marker
// completing the guess is withdrawn; only a complete marker finalizes.
func TestPartialRuleGuessBecomesParagraph(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "-\ntext\n\nafter")

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, stream.TypeParagraph, reg.Blocks[0].Type)
	assert.Equal(t, "-\ntext", reg.Blocks[0].Content)

	require.NotNil(t, reg.Active)
	assert.Equal(t, "after", reg.Active.Content)
}

func TestOrderedListMeta(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	ctx := context.Background()
	reg := s.Process(ctx, stream.NewRegistry(), "12. first\n13. second")
	reg = s.Finalize(ctx, reg)

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, stream.TypeOrderedList, reg.Blocks[0].Type)
	assert.Equal(t, 12, reg.Blocks[0].Meta.ListStart)
}

func TestLeadingBlankLinesSkipped(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	reg := s.Process(context.Background(), stream.NewRegistry(), "\n\n# Title\n")

	require.Len(t, reg.Blocks, 1)
	assert.Equal(t, "# Title", reg.Blocks[0].Content)
	assert.Equal(t, 2, reg.Blocks[0].StartPos)
	assert.Nil(t, reg.Active)
}

func TestRegistryVersionsAreImmutable(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	ctx := context.Background()

	v0 := stream.NewRegistry()
	v1 := s.Process(ctx, v0, "# One\n")
	v2 := s.Process(ctx, v1, "# One\n# Two\n")

	assert.Equal(t, 0, v0.Cursor)
	assert.Empty(t, v0.Blocks)

	assert.Equal(t, 6, v1.Cursor)
	require.Len(t, v1.Blocks, 1)
	assert.Equal(t, "# One", v1.Blocks[0].Content)

	require.Len(t, v2.Blocks, 2)
	assert.Equal(t, "# Two", v2.Blocks[1].Content)
}

func TestProcessWithoutGrowthIsNoOp(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	ctx := context.Background()
	reg := s.Process(ctx, stream.NewRegistry(), "abc")
	again := s.Process(ctx, reg, "abc")
	assert.Same(t, reg, again)
}

func TestBlockIDsAreStable(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	ctx := context.Background()
	reg := s.Process(ctx, stream.NewRegistry(), "# a\n# b\n# c\n")

	require.Len(t, reg.Blocks, 3)
	for i, blk := range reg.Blocks {
		assert.Equal(t, fmt.Sprintf("block-%d", i), blk.ID)
	}
}

func TestParserAttachesAST(t *testing.T) {
	t.Parallel()

	parser := &fakeParser{}
	s := stream.NewSplitter(stream.WithParser(parser), stream.WithLanguageDetection(false))
	ctx := context.Background()

	doc := "# Title\n" + `[{c:"Card",p:{}}]` + "\npara\n\n"
	reg := s.Process(ctx, stream.NewRegistry(), doc)

	require.Len(t, reg.Blocks, 3)

	require.NotNil(t, reg.Blocks[0].AST)
	assert.Equal(t, "# Title", reg.Blocks[0].AST.PlainText())

	// Component blocks are decoded, not parsed as markdown.
	assert.Nil(t, reg.Blocks[1].AST)
	require.NotNil(t, reg.Blocks[1].Component)

	require.NotNil(t, reg.Blocks[2].AST)
	assert.Equal(t, 2, parser.calls)
}

// The final registry state must depend only on the accumulated text, never on
// how it was chunked across Process calls.
func TestChunkInvariance(t *testing.T) {
	t.Parallel()

	doc := "# Title\n\nintro paragraph\nstill intro\n\n```go\nfmt.Println(\"hi\")\n```\n" +
		`[{c:"Card",p:{"title":"On-call"}}]` + "\n- one\n- two\n\n> quoted\n\ntail **bold"

	s := newTestSplitter()
	ctx := context.Background()

	type shape struct {
		blocks  []stream.StableBlock
		active  *stream.ActiveBlock
		preview string
	}

	run := func(chunkSize int) shape {
		reg := stream.NewRegistry()
		for end := chunkSize; ; end += chunkSize {
			if end > len(doc) {
				end = len(doc)
			}
			reg = s.Process(ctx, reg, doc[:end])
			if end == len(doc) {
				break
			}
		}
		return shape{blocks: reg.Blocks, active: reg.Active, preview: reg.ActivePreview()}
	}

	want := run(len(doc))
	for _, size := range []int{1, 2, 3, 7, 16, 64} {
		got := run(size)
		require.Len(t, got.blocks, len(want.blocks), "chunk size %d", size)
		for i := range want.blocks {
			assert.Equal(t, want.blocks[i].Type, got.blocks[i].Type, "chunk size %d block %d", size, i)
			assert.Equal(t, want.blocks[i].Content, got.blocks[i].Content, "chunk size %d block %d", size, i)
			assert.Equal(t, want.blocks[i].StartPos, got.blocks[i].StartPos, "chunk size %d block %d", size, i)
		}
		require.NotNil(t, got.active, "chunk size %d", size)
		assert.Equal(t, want.active.Content, got.active.Content, "chunk size %d", size)
		assert.Equal(t, want.preview, got.preview, "chunk size %d", size)
	}

	// And the trailing open bold is auto-closed in the preview.
	assert.Equal(t, "tail **bold**", want.preview)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	s := newTestSplitter()
	ctx := context.Background()

	v1 := s.Process(ctx, stream.NewRegistry(), "# Title\n")
	v2 := s.Process(ctx, v1, "# Title\nopen *ital")

	snap := s.Snapshot(v1, v2)
	assert.Equal(t, len("# Title\nopen *ital"), snap.Cursor)
	assert.Equal(t, len("open *ital"), snap.NewChars)
	require.Len(t, snap.Blocks, 1)
	assert.Equal(t, "# Title", snap.Blocks[0].Preview)
	assert.Equal(t, stream.TypeParagraph, snap.ActiveType)
	assert.Equal(t, "open *ital*", snap.ActivePreview)
	require.Len(t, snap.TagStack, 1)

	first := s.Snapshot(nil, v1)
	assert.Equal(t, 8, first.Cursor)
	assert.Equal(t, 8, first.NewChars)
}

func FuzzProcess(f *testing.F) {
	f.Add("# Title\n\npara **bold")
	f.Add("```go\nx := 1\n```\ntail")
	f.Add(`[{c:"Card",p:{"t":"hi"}}]`)
	f.Add("- one\n- two\n\n---\n")
	f.Fuzz(func(t *testing.T, doc string) {
		s := newTestSplitter()
		ctx := context.Background()

		oneShot := s.Finalize(ctx, s.Process(ctx, stream.NewRegistry(), doc))

		chunked := stream.NewRegistry()
		for end := 1; end <= len(doc); end++ {
			chunked = s.Process(ctx, chunked, doc[:end])
		}
		chunked = s.Finalize(ctx, chunked)

		if len(oneShot.Blocks) != len(chunked.Blocks) {
			t.Fatalf("block count diverged: %d vs %d", len(oneShot.Blocks), len(chunked.Blocks))
		}
		for i := range oneShot.Blocks {
			a, b := oneShot.Blocks[i], chunked.Blocks[i]
			if a.ID != b.ID || a.Type != b.Type || a.Content != b.Content ||
				a.StartPos != b.StartPos || a.EndPos != b.EndPos {
				t.Fatalf("block %d diverged", i)
			}
		}
	})
}
