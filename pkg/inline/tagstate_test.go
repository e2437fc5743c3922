package inline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdstream/pkg/inline"
)

func tagTypes(st inline.TagState) []inline.TagType {
	var out []inline.TagType
	for _, tag := range st.Stack {
		out = append(out, tag.Type)
	}
	return out
}

func TestRebuildEmphasis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []inline.TagType
	}{
		{name: "open bold", text: "**bold", want: []inline.TagType{inline.TagBold}},
		{name: "closed bold", text: "**bold**", want: nil},
		{name: "open italic", text: "*i", want: []inline.TagType{inline.TagItalic}},
		{name: "closed italic", text: "*i*", want: nil},
		{name: "triple star opens both", text: "***", want: []inline.TagType{inline.TagBold, inline.TagItalic}},
		{name: "bold italic with content", text: "***x", want: []inline.TagType{inline.TagBold, inline.TagItalic}},
		{name: "bold italic closed", text: "***x***", want: nil},
		{name: "trailing star is a half closer", text: "**bold*", want: []inline.TagType{inline.TagBold}},
		{name: "nested italic in bold", text: "**a *b", want: []inline.TagType{inline.TagBold, inline.TagItalic}},
		{name: "plain text", text: "no markers here", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := inline.Rebuild(tt.text)
			assert.Equal(t, tt.want, tagTypes(st))
		})
	}
}

func TestRebuildStrikethrough(t *testing.T) {
	t.Parallel()

	t.Run("double tilde opener", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("~~del")
		require.Len(t, st.Stack, 1)
		assert.Equal(t, inline.TagStrikethrough, st.Stack[0].Type)
		assert.Equal(t, "~~", st.Stack[0].Marker)
	})

	t.Run("single tilde opener", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("~del")
		require.Len(t, st.Stack, 1)
		assert.Equal(t, "~", st.Stack[0].Marker)
	})

	t.Run("matched double tilde", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, inline.Rebuild("~~del~~").Stack)
	})

	t.Run("trailing lone tilde stays a half closer", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("~~del~")
		require.Len(t, st.Stack, 1)
		assert.Equal(t, "~~", st.Stack[0].Marker)
	})
}

func TestRebuildCode(t *testing.T) {
	t.Parallel()

	t.Run("open inline code suppresses other markers", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("`x **not bold")
		assert.Equal(t, []inline.TagType{inline.TagCode}, tagTypes(st))
		assert.True(t, st.InInlineCode)
	})

	t.Run("closed inline code", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("`x`")
		assert.Empty(t, st.Stack)
		assert.False(t, st.InInlineCode)
	})

	t.Run("open fence suppresses content", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("```go\nfmt.Println(\"**\")")
		assert.Equal(t, []inline.TagType{inline.TagCodeBlock}, tagTypes(st))
		assert.True(t, st.InCodeBlock)
	})

	t.Run("closed fence", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("```go\ncode\n```")
		assert.Empty(t, st.Stack)
		assert.False(t, st.InCodeBlock)
	})

	t.Run("trailing backticks at line start are a pending fence", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("``")
		assert.Equal(t, []inline.TagType{inline.TagPendingFence}, tagTypes(st))
	})

	t.Run("partial closing fence inside block is pending", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("```go\nx\n``")
		assert.Equal(t, []inline.TagType{inline.TagCodeBlock, inline.TagPendingFence}, tagTypes(st))
		assert.True(t, st.InCodeBlock)
	})

	t.Run("tilde fence", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("~~~\ncode")
		assert.Equal(t, []inline.TagType{inline.TagCodeBlock}, tagTypes(st))
	})
}

func TestRebuildLinks(t *testing.T) {
	t.Parallel()

	t.Run("streaming link text", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("[docs")
		require.Len(t, st.Stack, 1)
		assert.Equal(t, inline.TagLink, st.Stack[0].Type)
		assert.Equal(t, inline.LinkPhaseText, st.Stack[0].Phase)
	})

	t.Run("streaming link url", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("[docs](https://exa")
		require.Len(t, st.Stack, 1)
		assert.Equal(t, inline.LinkPhaseURL, st.Stack[0].Phase)
	})

	t.Run("bracket just closed at end of input", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild("[docs]")
		require.Len(t, st.Stack, 1)
		assert.True(t, st.Stack[0].BracketClosed)
	})

	t.Run("bracket closed mid text is not a link", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, inline.Rebuild("[note] taken").Stack)
	})

	t.Run("complete link", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, inline.Rebuild("[docs](https://example.com)").Stack)
	})
}

func TestRebuildComponentRegionExempt(t *testing.T) {
	t.Parallel()

	t.Run("complete declaration", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild(`see [{c:"Card",p:{"t":"*not italic*"}}] done`)
		assert.Empty(t, st.Stack)
	})

	t.Run("truncated declaration exempts the tail", func(t *testing.T) {
		t.Parallel()
		st := inline.Rebuild(`see [{c:"Card",p:{"t":"**`)
		assert.Empty(t, st.Stack)
	})
}

func TestRebuildBookkeeping(t *testing.T) {
	t.Parallel()

	st := inline.Rebuild("a **b `c")
	assert.Equal(t, 2, st.Stack[0].Position)
	assert.Equal(t, 2, st.EarliestPosition)
	assert.Equal(t, 1, st.Counts[inline.TagBold])
	assert.Equal(t, 1, st.Counts[inline.TagCode])

	empty := inline.Rebuild("done")
	assert.Equal(t, -1, empty.EarliestPosition)
}

func FuzzRebuild(f *testing.F) {
	f.Add("**bold *ital")
	f.Add("```go\nx := `raw`\n")
	f.Add(`[{c:"Card",p:{"t":"**`)
	f.Add("[text](url **not")
	f.Add("~~~")
	f.Fuzz(func(t *testing.T, text string) {
		st := inline.Rebuild(text)
		for _, tag := range st.Stack {
			if tag.Position < 0 || tag.Position >= len(text) {
				t.Fatalf("tag position %d out of range for %d bytes", tag.Position, len(text))
			}
		}
	})
}
