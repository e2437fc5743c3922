package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdstream/pkg/component"
)

func TestExtractComplete(t *testing.T) {
	t.Parallel()

	t.Run("full declaration", func(t *testing.T) {
		t.Parallel()
		comp := component.Extract(`[{c:"Card",p:{"title":"Status","url":"https://x.io"},style:{"w":"40%"}}]`)
		require.NotNil(t, comp)
		assert.Equal(t, "Card", comp.Name)
		assert.Equal(t, map[string]any{"title": "Status", "url": "https://x.io"}, comp.Props)
		assert.Equal(t, map[string]any{"w": "40%"}, comp.Style)
		assert.Empty(t, comp.Children)
	})

	t.Run("children recurse", func(t *testing.T) {
		t.Parallel()
		comp := component.Extract(`[{c:"List",p:{},children:[{c:"Item",p:{"t":"a"}},{c:"Item",p:{"t":"b"}}]}]`)
		require.NotNil(t, comp)
		assert.Equal(t, "List", comp.Name)
		require.Len(t, comp.Children, 2)
		assert.Equal(t, "Item", comp.Children[0].Name)
		assert.Equal(t, map[string]any{"t": "a"}, comp.Children[0].Props)
		assert.Equal(t, map[string]any{"t": "b"}, comp.Children[1].Props)
	})

	t.Run("props are sanitized", func(t *testing.T) {
		t.Parallel()
		var rejected []string
		comp := component.ExtractNotify(
			`[{c:"Link",p:{"href":"javascript:alert(1)","label":"click"}}]`,
			func(u string) { rejected = append(rejected, u) },
		)
		require.NotNil(t, comp)
		assert.Equal(t, "", comp.Props["href"])
		assert.Equal(t, "click", comp.Props["label"])
		assert.Equal(t, []string{"javascript:alert(1)"}, rejected)
	})
}

func TestExtractTruncated(t *testing.T) {
	t.Parallel()

	t.Run("partial prop string", func(t *testing.T) {
		t.Parallel()
		comp := component.Extract(`[{c:"Card",p:{"title":"On-call","d`)
		require.NotNil(t, comp)
		assert.Equal(t, "Card", comp.Name)
		assert.Equal(t, map[string]any{"title": "On-call"}, comp.Props)
		assert.Nil(t, comp.Style)
		assert.Nil(t, comp.Children)
	})

	t.Run("name without closing quote yields nothing", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, component.Extract(`[{c:"Car`))
		assert.Nil(t, component.Extract(`[{c:"`))
		assert.Nil(t, component.Extract(`[{`))
	})

	t.Run("complete name alone", func(t *testing.T) {
		t.Parallel()
		comp := component.Extract(`[{c:"Card"`)
		require.NotNil(t, comp)
		assert.Equal(t, "Card", comp.Name)
		assert.Nil(t, comp.Props)
	})

	t.Run("children reveal one sibling at a time", func(t *testing.T) {
		t.Parallel()
		comp := component.Extract(`[{c:"List",p:{},children:[{c:"Item",p:{"t":"a"}},{c:"It`)
		require.NotNil(t, comp)
		require.Len(t, comp.Children, 1)
		assert.Equal(t, "Item", comp.Children[0].Name)
		assert.Equal(t, map[string]any{"t": "a"}, comp.Children[0].Props)
	})

	t.Run("truncated child with complete name appears", func(t *testing.T) {
		t.Parallel()
		comp := component.Extract(`[{c:"List",children:[{c:"Item",p:{"t":"a`)
		require.NotNil(t, comp)
		require.Len(t, comp.Children, 1)
		assert.Equal(t, map[string]any{"t": "a"}, comp.Children[0].Props)
	})

	t.Run("truncated props are sanitized too", func(t *testing.T) {
		t.Parallel()
		comp := component.Extract(`[{c:"Link",p:{"href":"javascript:alert(1)","x`)
		require.NotNil(t, comp)
		assert.Equal(t, "", comp.Props["href"])
	})
}

// A field decoded from a complete span must keep its value on every longer
// prefix, and fields only ever appear or grow.
func TestExtractMonotonicRevelation(t *testing.T) {
	t.Parallel()

	full := `[{c:"Card",p:{"title":"On-call","n":2},style:{"w":"40%"},children:[{c:"Item",p:{"t":"a"}}]}]`
	var prevProps map[string]any
	for i := 1; i <= len(full); i++ {
		comp := component.Extract(full[:i])
		if comp == nil {
			continue
		}
		assert.Equal(t, "Card", comp.Name, "prefix length %d", i)
		if prevProps != nil && prevProps["title"] == "On-call" {
			require.NotNil(t, comp.Props, "prefix length %d", i)
			assert.Equal(t, "On-call", comp.Props["title"], "prefix length %d", i)
		}
		if comp.Props != nil {
			prevProps = comp.Props
		}
	}

	final := component.Extract(full)
	require.NotNil(t, final)
	assert.Equal(t, map[string]any{"title": "On-call", "n": float64(2)}, final.Props)
	assert.Equal(t, map[string]any{"w": "40%"}, final.Style)
	require.Len(t, final.Children, 1)
	assert.Equal(t, "Item", final.Children[0].Name)
}

func TestClosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "terminated", in: `[{c:"X",p:{}}]`, want: true},
		{name: "missing bracket", in: `[{c:"X",p:{}}`, want: false},
		{name: "mid payload", in: `[{c:"X",p:{"a`, want: false},
		{name: "brace inside string", in: `[{c:"X",p:{"t":"}]"}}]`, want: true},
		{name: "not a declaration", in: `hello`, want: false},
		{name: "nested children", in: `[{c:"L",children:[{c:"I"}]}]`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, component.Closed(tt.in))
		})
	}
}

func FuzzExtract(f *testing.F) {
	f.Add(`[{c:"Card",p:{"title":"On-call","d`)
	f.Add(`[{c:"List",children:[{c:"Item"}]}]`)
	f.Add(`[{c:"`)
	f.Add(`[{c:"X",p:{"href":"javascript:x"}}]`)
	f.Add("plain text with [brackets] and {braces}")

	f.Fuzz(func(_ *testing.T, s string) {
		// Must never panic, whatever arrives on the wire.
		_ = component.Extract(s)
		_ = component.Closed(s)
	})
}
