package quoting

import (
	"strings"
	"testing"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
)

// ============================================================
// Literals
// ============================================================

func TestQuoteIntegerLiterals(t *testing.T) {
	cases := []struct{ text, want string }{
		{"42", "42"},
		{"1_000", "1000"},
		{"0xFF", "255"},
		{"0o17", "15"},
		{"0b101", "5"},
	}
	for _, tc := range cases {
		tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
			return num(b, tc.text, 1)
		})
		c := expectQuote(t, tree, e, tc.want)
		expectClean(t, c)
	}
}

func TestQuoteFloatAndChar(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Leaf(syntax.KindFloat, "3.14", syntax.At(1, 1))
	})
	expectQuote(t, tree, e, "3.14")

	tree, e = buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Leaf(syntax.KindChar, "?a", syntax.At(1, 1))
	})
	expectQuote(t, tree, e, "97")
}

func TestQuoteAtoms(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Leaf(syntax.KindAtom, "ok", syntax.At(1, 1))
	})
	expectQuote(t, tree, e, ":ok")

	// true/false/nil are atoms and carry no metadata.
	tree, e = buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Leaf(syntax.KindAtom, "true", syntax.At(1, 1))
	})
	expectQuote(t, tree, e, "true")
}

func TestLiteralsCarryNoMetadata(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return num(b, "7", 1)
	})
	c := NewContext(tree)
	got, err := c.Quote(e)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if strings.Contains(got.String(), "line") {
		t.Errorf("integer literal leaked metadata: %s", got)
	}
}

// ============================================================
// Variables and aliases
// ============================================================

func TestQuoteVariable(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return ident(b, "count", 1)
	})
	// nil in the third slot, not an empty argument list.
	expectQuote(t, tree, e, "{:count, [line: 1], nil}")
}

func TestQuoteAlias(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Leaf(syntax.KindAlias, "Foo.Bar", syntax.At(1, 1))
	})
	expectQuote(t, tree, e, "{:__aliases__, [line: 1], [:Foo, :Bar]}")

	tree, e = buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Leaf(syntax.KindAlias, "Enum", syntax.At(2, 1))
	})
	c := NewContext(tree)
	got, err := c.Quote(e)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.String() != "{:__aliases__, [line: 2], [:Enum]}" {
		t.Errorf("single-segment alias = %s", got)
	}
}

// ============================================================
// Operations
// ============================================================

func TestQuotePrecedenceShape(t *testing.T) {
	// 1 + 2 * 3: the parser already nested multiplication tighter.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		mul := binOp(b, syntax.KindUnmatchedOperation, "*", 7, num(b, "2", 5), num(b, "3", 9))
		return binOp(b, syntax.KindUnmatchedOperation, "+", 3, num(b, "1", 1), mul)
	})
	c := expectQuote(t, tree, e, "{:+, [line: 1], [1, {:*, [line: 1], [2, 3]}]}")
	expectClean(t, c)
}

func TestQuoteUnaryNeverFoldsLiterals(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindUnaryOperation, syntax.At(1, 1), op(b, "-", 1), num(b, "1", 2))
	})
	expectQuote(t, tree, e, "{:-, [line: 1], [1]}")
}

func TestQuoteNotIn(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		list := b.Node(syntax.KindList, syntax.At(1, 10), num(b, "2", 11))
		return binOp(b, syntax.KindUnmatchedOperation, "not in", 3, num(b, "1", 1), list)
	})
	expectQuote(t, tree, e, "{:not, [line: 1], [{:in, [line: 1], [1, [2]]}]}")
}

func TestQuoteCaptureOperator(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindUnaryOperation, syntax.At(1, 1), op(b, "&", 1), num(b, "1", 2))
	})
	expectQuote(t, tree, e, "{:&, [line: 1], [1]}")
}

func TestQuoteAtOperation(t *testing.T) {
	// Reading an attribute: the operand keeps the variable shape.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindAtOperation, syntax.At(1, 1), op(b, "@", 1), ident(b, "moduledoc", 2))
	})
	expectQuote(t, tree, e, "{:@, [line: 1], [{:moduledoc, [line: 1], nil}]}")
}

// ============================================================
// Pattern position
// ============================================================

func TestMatchedOperationAddsColumns(t *testing.T) {
	// Pattern-position nodes carry the column key; the same operator in
	// expression position does not.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return binOp(b, syntax.KindMatchedOperation, "=", 3, ident(b, "x", 1), num(b, "1", 5))
	})
	c := expectQuote(t, tree, e,
		"{:=, [line: 1, column: 3], [{:x, [line: 1, column: 1], nil}, 1]}")
	expectClean(t, c)

	tree, e = buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return binOp(b, syntax.KindUnmatchedOperation, "=", 3, ident(b, "x", 1), num(b, "1", 5))
	})
	expectQuote(t, tree, e,
		"{:=, [line: 1], [{:x, [line: 1, column: 1], nil}, 1]}")
}

func TestMatchRightSideStaysExpression(t *testing.T) {
	// x = y |> f(): the pipe on the right of an expression-level match must
	// not be rejected.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		call := b.Node(syntax.KindCallParenthesized, syntax.At(1, 10),
			ident(b, "f", 10), b.Node(syntax.KindArguments, syntax.At(1, 11)))
		pipe := binOp(b, syntax.KindUnmatchedOperation, "|>", 7, ident(b, "y", 5), call)
		return binOp(b, syntax.KindUnmatchedOperation, "=", 3, ident(b, "x", 1), pipe)
	})
	c := NewContext(tree)
	if _, err := c.Quote(e); err != nil {
		t.Fatalf("quote: %v", err)
	}
	expectClean(t, c)
}

func TestInvalidPatternConstruct(t *testing.T) {
	// x |> f in pattern position is rejected but still quotes.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return binOp(b, syntax.KindMatchedOperation, "|>", 3, ident(b, "x", 1), ident(b, "f", 6))
	})
	c := NewContext(tree)
	got, err := c.Quote(e)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got == nil {
		t.Fatal("invalid pattern construct should still produce a term")
	}
	expectCode(t, c, diagnostics.ErrQ002)
}

func TestWhenGuardIsExpressionPosition(t *testing.T) {
	// x when x > 0: the guard may use comparison operators freely.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		guard := binOp(b, syntax.KindUnmatchedOperation, ">", 10, ident(b, "x", 8), num(b, "0", 12))
		return binOp(b, syntax.KindMatchedOperation, "when", 3, ident(b, "x", 1), guard)
	})
	c := NewContext(tree)
	if _, err := c.Quote(e); err != nil {
		t.Fatalf("quote: %v", err)
	}
	expectClean(t, c)
}

func TestPinInPattern(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		pin := b.Node(syntax.KindUnaryOperation, syntax.At(1, 1), op(b, "^", 1), ident(b, "x", 2))
		return binOp(b, syntax.KindMatchedOperation, "=", 4, pin, num(b, "1", 6))
	})
	c := NewContext(tree)
	if _, err := c.Quote(e); err != nil {
		t.Fatalf("quote: %v", err)
	}
	expectClean(t, c)
}

// ============================================================
// Malformed trees
// ============================================================

func TestMalformedOperationFailsSubtreeOnly(t *testing.T) {
	// A list survives one malformed element.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		broken := b.Node(syntax.KindUnmatchedOperation, syntax.At(1, 5), op(b, "+", 5))
		return b.Node(syntax.KindList, syntax.At(1, 1), num(b, "1", 2), broken, num(b, "2", 9))
	})
	c := NewContext(tree)
	got, err := c.Quote(e)
	if err != nil {
		t.Fatalf("quote of container should recover: %v", err)
	}
	if got.String() != "[1, 2]" {
		t.Errorf("container = %s, want [1, 2]", got)
	}
	expectCode(t, c, diagnostics.ErrQ001)
}

func TestMalformedRootErrors(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindUnmatchedOperation, syntax.At(1, 1), op(b, "+", 1))
	})
	c := NewContext(tree)
	if _, err := c.Quote(e); err == nil {
		t.Fatal("malformed root should error")
	}
	expectCode(t, c, diagnostics.ErrQ001)
}
