package quoting

import (
	"testing"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

// buildExpr assembles a one-expression tree and returns it with the
// expression's id. The callback gets the builder and returns the node to
// hang under the source root.
func buildExpr(t *testing.T, f func(b *syntax.Builder) syntax.NodeID) (*syntax.Tree, syntax.NodeID) {
	t.Helper()
	b := syntax.NewBuilder()
	expr := f(b)
	root := b.Node(syntax.KindSource, syntax.At(1, 1), expr)
	tree, err := b.Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tree, expr
}

// expectQuote quotes id and compares the rendering. The context is returned
// so tests can inspect accumulated diagnostics.
func expectQuote(t *testing.T, tree *syntax.Tree, id syntax.NodeID, want string) *Context {
	t.Helper()
	c := NewContext(tree)
	got, err := c.Quote(id)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if s := term.Inspect(got); s != want {
		t.Errorf("quoted term mismatch\n got: %s\nwant: %s", s, want)
	}
	return c
}

func expectCode(t *testing.T, c *Context, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	for _, e := range c.Errors {
		if e.Code == code {
			return e
		}
	}
	t.Fatalf("no %s diagnostic, got %v", code, c.Errors)
	return nil
}

func expectClean(t *testing.T, c *Context) {
	t.Helper()
	if len(c.Errors) != 0 {
		t.Errorf("unexpected diagnostics: %v", c.Errors)
	}
}

// Shorthand leaf constructors keep the tree-building tests readable.

func num(b *syntax.Builder, text string, col int) syntax.NodeID {
	return b.Leaf(syntax.KindInteger, text, syntax.At(1, col))
}

func ident(b *syntax.Builder, name string, col int) syntax.NodeID {
	return b.Leaf(syntax.KindIdentifier, name, syntax.At(1, col))
}

func op(b *syntax.Builder, text string, col int) syntax.NodeID {
	return b.Leaf(syntax.KindOperator, text, syntax.At(1, col))
}

func frag(b *syntax.Builder, text string) syntax.NodeID {
	return b.Leaf(syntax.KindFragment, text, syntax.At(1, 2))
}

func binOp(b *syntax.Builder, kind syntax.NodeKind, text string, col int, l, r syntax.NodeID) syntax.NodeID {
	return b.Node(kind, syntax.At(1, col), op(b, text, col), l, r)
}
