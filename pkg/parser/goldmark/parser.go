// Package goldmark adapts the goldmark library to the stream.Parser
// interface. A library failure degrades to a plain-text tree instead of
// propagating, so one malformed block never halts a stream.
package goldmark

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdstream/pkg/stream"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Parser implements stream.Parser using goldmark.
type Parser struct {
	flavor string
	md     goldmark.Markdown
}

// New creates a goldmark-based parser for the given flavor. Supported
// flavors are "commonmark" and "gfm"; anything else defaults to "gfm".
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse converts finalized block content into a Tree. The input is copied,
// so the returned tree stays valid however the caller reuses content. A
// goldmark panic is recovered into a degraded fallback tree.
//
//nolint:ireturn // Implements stream.Parser.
func (p *Parser) Parse(ctx context.Context, content []byte) (stream.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	src := copyContent(content)
	root, err := p.parse(src)
	if err != nil {
		return Fallback(src), nil
	}
	return &Tree{root: root, source: src}, nil
}

// parse runs goldmark under a recover so a library panic surfaces as an
// error.
func (p *Parser) parse(src []byte) (root ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			root = nil
			err = fmt.Errorf("goldmark panic: %v", r)
		}
	}()
	reader := text.NewReader(src)
	return p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext())), nil
}

// Tree is a parsed block. It implements stream.Tree.
type Tree struct {
	root     ast.Node
	source   []byte
	degraded bool
}

// Fallback returns a degraded tree that exposes content as plain text only.
func Fallback(content []byte) *Tree {
	return &Tree{source: copyContent(content), degraded: true}
}

// Root returns the goldmark document node, nil for a degraded tree.
func (t *Tree) Root() ast.Node { return t.root }

// Source returns the bytes the tree was parsed from.
func (t *Tree) Source() []byte { return t.source }

// Degraded reports whether the tree is a plain-text fallback.
func (t *Tree) Degraded() bool { return t.degraded }

// PlainText flattens the tree's text content in document order, including
// the lines of fenced and indented code blocks. A degraded tree returns its
// source verbatim.
func (t *Tree) PlainText() string {
	if t.degraded || t.root == nil {
		return string(t.source)
	}

	var buf bytes.Buffer
	_ = ast.Walk(t.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(t.source))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(t.source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

// flavorOrDefault returns the flavor if valid, otherwise GFM.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorGFM
	}
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
