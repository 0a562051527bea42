// Package quoting turns syntax trees into the canonical quoted terms the
// Elixir compiler produces for the same source. The engine is total over
// node kinds: every node either yields a term or reports a structural
// failure for its own subtree without poisoning siblings.
package quoting

import (
	"errors"
	"fmt"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

// ErrMalformedTree marks structural failures: a node is missing a child the
// grammar guarantees. Containers skip the failed child and keep quoting;
// nodes whose shape requires the child fail upward with this error.
var ErrMalformedTree = errors.New("malformed syntax tree")

// Context carries one quoting run over a single tree. Diagnostics
// accumulate here; the tree is never modified.
type Context struct {
	Tree   *syntax.Tree
	File   string
	Errors []*diagnostics.DiagnosticError
}

func NewContext(tree *syntax.Tree) *Context {
	return &Context{Tree: tree}
}

// Quote produces the quoted term for the subtree rooted at id.
func (c *Context) Quote(id syntax.NodeID) (term.Term, error) {
	return c.quoteNode(id, false)
}

// Quote quotes id within tree under a fresh context and returns the
// diagnostics the run produced.
func Quote(tree *syntax.Tree, id syntax.NodeID) (term.Term, []*diagnostics.DiagnosticError, error) {
	c := NewContext(tree)
	t, err := c.Quote(id)
	return t, c.Errors, err
}

func (c *Context) span(id syntax.NodeID) diagnostics.Span {
	sp := c.Tree.Span(id)
	return diagnostics.Span{
		File:   c.File,
		Line:   sp.StartLine,
		Column: sp.StartCol,
		Text:   c.Tree.Text(id),
	}
}

func (c *Context) report(code diagnostics.ErrorCode, id syntax.NodeID, msg string) {
	c.Errors = append(c.Errors, diagnostics.NewError(code, c.span(id), msg))
}

func (c *Context) malformed(id syntax.NodeID, msg string) error {
	c.report(diagnostics.ErrQ001, id, msg)
	return fmt.Errorf("%w: %s", ErrMalformedTree, msg)
}

// meta builds a node's metadata: line always, column only in pattern
// position.
func (c *Context) meta(id syntax.NodeID, pat bool) term.Metadata {
	sp := c.Tree.Span(id)
	m := term.Meta(sp.StartLine)
	if pat {
		m = m.WithColumn(sp.StartCol)
	}
	return m
}
