// Package sitter adapts the tree-sitter-elixir concrete syntax tree to the
// typed syntax tree the engines consume. Parsing itself stays external: a
// parser is created per call, the CST is lowered into a syntax.Builder and
// released before Parse returns. tree-sitter is error-tolerant, so sources
// with syntax errors still yield a tree; every ERROR region leaves an X001
// diagnostic and its healthy children are lowered in place.
package sitter

import (
	"context"
	"errors"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/elixir"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
)

// ErrEmptySource is returned for sources that lower to no nodes at all.
var ErrEmptySource = errors.New("sitter: source produced no syntax nodes")

// Parse lowers src into a syntax tree. The returned diagnostics carry the
// recoverable problems the lowering noticed; they never make the parse an
// error. file is only used to label diagnostics.
func Parse(ctx context.Context, file string, src []byte) (*syntax.Tree, []*diagnostics.DiagnosticError, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(elixir.GetLanguage())

	cst, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, nil, err
	}
	defer cst.Close()

	l := &lowerer{src: src, file: file, b: syntax.NewBuilder()}
	entries := l.lowerMany(namedChildren(cst.RootNode()), false)
	root := l.b.Node(syntax.KindSource, l.span(cst.RootNode()), entries...)
	tree, err := l.b.Build(root)
	if err != nil {
		return nil, l.diags, err
	}
	if tree.ChildCount(tree.Root()) == 0 && len(src) > 0 && len(l.diags) > 0 {
		return tree, l.diags, ErrEmptySource
	}
	return tree, l.diags, nil
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func allChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.ChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}
