package quoting

import (
	"testing"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
)

func escape(b *syntax.Builder, raw string) syntax.NodeID {
	return b.Leaf(syntax.KindEscapeSequence, raw, syntax.At(1, 3))
}

func interp(b *syntax.Builder, expr syntax.NodeID) syntax.NodeID {
	return b.Node(syntax.KindInterpolation, syntax.At(1, 8), expr)
}

// ============================================================
// Plain strings
// ============================================================

func TestQuotePlainString(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1), frag(b, "hello"))
	})
	c := expectQuote(t, tree, e, `"hello"`)
	expectClean(t, c)
}

func TestQuoteEmptyString(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1))
	})
	expectQuote(t, tree, e, `""`)
}

func TestQuoteStringEscapes(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1),
			frag(b, "a"), escape(b, `\n`), frag(b, "b"), escape(b, `\x41`))
	})
	c := expectQuote(t, tree, e, `"a\nbA"`)
	expectClean(t, c)
}

func TestQuoteStringUnicodeEscapes(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1), escape(b, `\u{48}`), escape(b, `i`))
	})
	expectQuote(t, tree, e, `"Hi"`)
}

func TestInvalidEscapeKeepsQuoting(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1),
			frag(b, "a"), escape(b, `\q`), frag(b, "b"))
	})
	c := expectQuote(t, tree, e, "\"a�b\"")
	d := expectCode(t, c, diagnostics.ErrQ003)
	if d.Span.Line != 1 {
		t.Errorf("diagnostic line = %d, want 1", d.Span.Line)
	}
}

func TestByteEscapeProducesRawBytes(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1), escape(b, `\xFF`))
	})
	expectQuote(t, tree, e, "<<255>>")
}

// ============================================================
// Interpolation
// ============================================================

func TestInterpolationFoldsRight(t *testing.T) {
	// "Hello #{name}!" becomes "Hello " <> (name <> "!").
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1),
			frag(b, "Hello "), interp(b, ident(b, "name", 9)), frag(b, "!"))
	})
	expectQuote(t, tree, e,
		`{:<>, [line: 1], ["Hello ", {:<>, [line: 1], [{:name, [line: 1], nil}, "!"]}]}`)
}

func TestInterpolationOnlyString(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindStringLine, syntax.At(1, 1), interp(b, ident(b, "x", 4)))
	})
	expectQuote(t, tree, e, "{:x, [line: 1], nil}")
}

// ============================================================
// Heredocs
// ============================================================

func TestHeredocStripsClosingIndentation(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		l1 := b.Node(syntax.KindHeredocLine, syntax.At(2, 1), frag(b, "  hello\n"))
		l2 := b.Node(syntax.KindHeredocLine, syntax.At(3, 1), frag(b, "    world\n"))
		prefix := b.Leaf(syntax.KindHeredocPrefix, "  ", syntax.At(4, 1))
		return b.Node(syntax.KindStringHeredoc, syntax.At(1, 1), l1, l2, prefix)
	})
	expectQuote(t, tree, e, `"hello\n  world\n"`)
}

func TestHeredocShortLineStripsWhatItHas(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		l1 := b.Node(syntax.KindHeredocLine, syntax.At(2, 1), frag(b, "\n"))
		l2 := b.Node(syntax.KindHeredocLine, syntax.At(3, 1), frag(b, "    x\n"))
		prefix := b.Leaf(syntax.KindHeredocPrefix, "    ", syntax.At(4, 1))
		return b.Node(syntax.KindStringHeredoc, syntax.At(1, 1), l1, l2, prefix)
	})
	expectQuote(t, tree, e, `"\nx\n"`)
}

func TestHeredocStripHappensBeforeEscapes(t *testing.T) {
	// The escape contributes its character after the indent of its line is
	// gone; it can never be consumed by the strip.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		l1 := b.Node(syntax.KindHeredocLine, syntax.At(2, 1), frag(b, "  "), escape(b, `\s`), frag(b, "a\n"))
		prefix := b.Leaf(syntax.KindHeredocPrefix, "  ", syntax.At(3, 1))
		return b.Node(syntax.KindStringHeredoc, syntax.At(1, 1), l1, prefix)
	})
	expectQuote(t, tree, e, `" a\n"`)
}

func TestHeredocInterpolation(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		l1 := b.Node(syntax.KindHeredocLine, syntax.At(2, 1),
			frag(b, "  x: "), interp(b, ident(b, "x", 7)), frag(b, "\n"))
		prefix := b.Leaf(syntax.KindHeredocPrefix, "  ", syntax.At(3, 1))
		return b.Node(syntax.KindStringHeredoc, syntax.At(1, 1), l1, prefix)
	})
	expectQuote(t, tree, e,
		`{:<>, [line: 1], ["x: ", {:<>, [line: 1], [{:x, [line: 1], nil}, "\n"]}]}`)
}

// ============================================================
// Char lists
// ============================================================

func TestQuoteCharList(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindCharListLine, syntax.At(1, 1), frag(b, "abc"))
	})
	expectQuote(t, tree, e, "[97, 98, 99]")
}

func TestQuoteEmptyCharList(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindCharListLine, syntax.At(1, 1))
	})
	expectQuote(t, tree, e, "[]")
}

func TestQuoteCharListInterpolation(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return b.Node(syntax.KindCharListLine, syntax.At(1, 1),
			frag(b, "ab"), interp(b, ident(b, "x", 5)))
	})
	expectQuote(t, tree, e, "{:++, [line: 1], [[97, 98], {:x, [line: 1], nil}]}")
}

// ============================================================
// Sigils
// ============================================================

func sigil(b *syntax.Builder, letter, delim, mods string, content ...syntax.NodeID) syntax.NodeID {
	kids := []syntax.NodeID{b.Leaf(syntax.KindSigilName, letter, syntax.At(1, 2))}
	kids = append(kids, content...)
	if mods != "" {
		kids = append(kids, b.Leaf(syntax.KindSigilModifiers, mods, syntax.At(1, 12)))
	}
	return b.TextNode(syntax.KindSigil, delim, syntax.At(1, 1), kids...)
}

func TestSigilContentStaysWhole(t *testing.T) {
	// ~w(foo bar)a keeps its content as one binary; word splitting is the
	// sigil macro's job, not the quoter's.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return sigil(b, "w", "(", "a", frag(b, "foo bar"))
	})
	c := expectQuote(t, tree, e,
		`{:sigil_w, [line: 1], [{:<<>>, [line: 1], ["foo bar"]}, [97]]}`)
	expectClean(t, c)
}

func TestSigilWithoutModifiers(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return sigil(b, "r", "/", "", frag(b, "a+b"))
	})
	expectQuote(t, tree, e, `{:sigil_r, [line: 1], [{:<<>>, [line: 1], ["a+b"]}, []]}`)
}

func TestLowercaseSigilProcessesEscapesAndInterpolation(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return sigil(b, "s", "(", "", frag(b, "a"), escape(b, `\n`), interp(b, ident(b, "x", 7)))
	})
	expectQuote(t, tree, e,
		`{:sigil_s, [line: 1], [{:<<>>, [line: 1], ["a\n", {:x, [line: 1], nil}]}, []]}`)
}

func TestUppercaseSigilIsRaw(t *testing.T) {
	// ~S leaves escapes untouched except for the delimiter.
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return sigil(b, "S", "(", "", frag(b, "a"), escape(b, `\n`), escape(b, `\)`))
	})
	expectQuote(t, tree, e, `{:sigil_S, [line: 1], [{:<<>>, [line: 1], ["a\\n)"]}, []]}`)
}

func TestEmptySigil(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return sigil(b, "w", "(", "")
	})
	expectQuote(t, tree, e, `{:sigil_w, [line: 1], [{:<<>>, [line: 1], [""]}, []]}`)
}

func TestMultiLetterSigil(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		return sigil(b, "HTML", "(", "", frag(b, "<p>hi</p>"))
	})
	expectQuote(t, tree, e,
		`{:sigil_HTML, [line: 1], [{:<<>>, [line: 1], ["<p>hi</p>"]}, []]}`)
}

func TestSigilHeredocStripsIndent(t *testing.T) {
	tree, e := buildExpr(t, func(b *syntax.Builder) syntax.NodeID {
		name := b.Leaf(syntax.KindSigilName, "s", syntax.At(1, 2))
		l1 := b.Node(syntax.KindHeredocLine, syntax.At(2, 1), frag(b, "  text\n"))
		prefix := b.Leaf(syntax.KindHeredocPrefix, "  ", syntax.At(3, 1))
		return b.TextNode(syntax.KindSigil, `"""`, syntax.At(1, 1), name, l1, prefix)
	})
	expectQuote(t, tree, e, `{:sigil_s, [line: 1], [{:<<>>, [line: 1], ["text\n"]}, []]}`)
}
