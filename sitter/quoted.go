package sitter

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
)

// contentTypes are the CST node types that carry quoted content.
var contentTypes = map[string]bool{
	"quoted_content":  true,
	"escape_sequence": true,
	"interpolation":   true,
}

func isHeredocDelimiter(typ string) bool { return typ == `"""` || typ == "'''" }

// lowerQuoted lowers a string or charlist. Single-line literals get their
// fragment, escape and interpolation children directly; heredocs get a
// HeredocPrefix leaf sized to the closing delimiter's indentation plus one
// HeredocLine per content line, the shape the quoter's indentation
// stripping works on.
func (l *lowerer) lowerQuoted(n *sitter.Node, lineKind, heredocKind syntax.NodeKind) syntax.NodeID {
	kids := allChildren(n)
	heredoc := len(kids) > 0 && isHeredocDelimiter(kids[0].Type())
	if !heredoc {
		return l.b.Node(lineKind, l.span(n), l.lowerContent(kids)...)
	}
	return l.b.Node(heredocKind, l.span(n), l.lowerHeredocContent(n, kids)...)
}

// lowerContent lowers the content children of a single-line quoted literal.
func (l *lowerer) lowerContent(kids []*sitter.Node) []syntax.NodeID {
	var out []syntax.NodeID
	for _, k := range kids {
		if !contentTypes[k.Type()] {
			continue
		}
		switch k.Type() {
		case "quoted_content":
			out = append(out, l.b.Leaf(syntax.KindFragment, l.text(k), l.span(k)))
		case "escape_sequence":
			out = append(out, l.b.Leaf(syntax.KindEscapeSequence, l.text(k), l.span(k)))
		case "interpolation":
			out = append(out, l.lower(k, false))
		}
	}
	return out
}

// heredocLines accumulates one heredoc line at a time.
type heredocLines struct {
	l       *lowerer
	current []syntax.NodeID
	lines   []syntax.NodeID
	span    syntax.Span
}

func (h *heredocLines) add(id syntax.NodeID, sp syntax.Span) {
	if len(h.current) == 0 {
		h.span = sp
	}
	h.current = append(h.current, id)
}

func (h *heredocLines) finish() {
	if len(h.current) == 0 {
		return
	}
	h.lines = append(h.lines, h.l.b.Node(syntax.KindHeredocLine, h.span, h.current...))
	h.current = nil
}

// lowerHeredocContent splits heredoc content into per-line nodes. The
// newline that follows the opening delimiter is not content; the whitespace
// run before the closing delimiter is the indentation prefix, not a line.
func (l *lowerer) lowerHeredocContent(n *sitter.Node, kids []*sitter.Node) []syntax.NodeID {
	closeCol := 0
	for i := len(kids) - 1; i >= 0; i-- {
		if isHeredocDelimiter(kids[i].Type()) && i > 0 {
			closeCol = int(kids[i].StartPoint().Column)
			break
		}
	}
	prefix := l.b.Leaf(syntax.KindHeredocPrefix, strings.Repeat(" ", closeCol), l.span(n))

	h := heredocLines{l: l}
	first := true
	for _, k := range kids {
		if !contentTypes[k.Type()] {
			continue
		}
		switch k.Type() {
		case "quoted_content":
			text := l.text(k)
			sp := l.span(k)
			if first {
				text = strings.TrimPrefix(strings.TrimPrefix(text, "\r\n"), "\n")
				sp.StartLine++
				sp.StartCol = 1
				first = false
			}
			l.splitHeredocText(&h, text, sp)
		case "escape_sequence":
			first = false
			h.add(l.b.Leaf(syntax.KindEscapeSequence, l.text(k), l.span(k)), l.span(k))
		case "interpolation":
			first = false
			h.add(l.lower(k, false), l.span(k))
		}
	}
	h.finish()
	return append([]syntax.NodeID{prefix}, h.lines...)
}

// splitHeredocText breaks one content token into line fragments, each
// keeping its trailing newline. A final all-whitespace remainder is the
// closing delimiter's indentation and is dropped.
func (l *lowerer) splitHeredocText(h *heredocLines, text string, sp syntax.Span) {
	line := sp.StartLine
	byteAt := sp.StartByte
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			if strings.TrimLeft(text, " \t") != "" {
				fs := syntax.Span{StartByte: byteAt, EndByte: byteAt + len(text), StartLine: line, StartCol: sp.StartCol}
				h.add(l.b.Leaf(syntax.KindFragment, text, fs), fs)
			}
			return
		}
		seg := text[:i+1]
		fs := syntax.Span{StartByte: byteAt, EndByte: byteAt + len(seg), StartLine: line, StartCol: sp.StartCol}
		h.add(l.b.Leaf(syntax.KindFragment, seg, fs), fs)
		h.finish()
		text = text[i+1:]
		byteAt += len(seg)
		line++
		sp.StartCol = 1
	}
}

// lowerSigil lowers ~X|content|mods. The opening delimiter is stored as the
// sigil node's text so the quoter can decide which escaped delimiter stays
// literal in raw mode; heredoc delimiters additionally switch the content
// to line shape.
func (l *lowerer) lowerSigil(n *sitter.Node) syntax.NodeID {
	kids := allChildren(n)

	var nameLeaf syntax.NodeID = syntax.NoNode
	delim := ""
	for i, k := range kids {
		if k.Type() == "sigil_name" {
			nameLeaf = l.b.Leaf(syntax.KindSigilName, l.text(k), l.span(k))
			if i+1 < len(kids) {
				delim = kids[i+1].Type()
			}
			break
		}
	}
	if nameLeaf == syntax.NoNode {
		l.diag(diagnostics.ErrX001, n, "sigil without a letter")
		return syntax.NoNode
	}

	var content []syntax.NodeID
	if isHeredocDelimiter(delim) {
		content = l.lowerHeredocContent(n, kids)
	} else {
		content = l.lowerContent(kids)
	}

	out := append([]syntax.NodeID{nameLeaf}, content...)
	for _, k := range kids {
		if k.Type() == "sigil_modifiers" {
			out = append(out, l.b.Leaf(syntax.KindSigilModifiers, l.text(k), l.span(k)))
			break
		}
	}
	return l.b.TextNode(syntax.KindSigil, delim, l.span(n), out...)
}

// lowerQuotedAtom lowers :"..." to an Atom carrying the raw content text.
// Interpolations stay as children so the quoter can flag the raw-text
// rendering with its diagnostic.
func (l *lowerer) lowerQuotedAtom(n *sitter.Node) syntax.NodeID {
	var raw strings.Builder
	var interps []syntax.NodeID
	for _, k := range allChildren(n) {
		switch k.Type() {
		case "quoted_content", "escape_sequence":
			raw.WriteString(l.text(k))
		case "interpolation":
			raw.WriteString(l.text(k))
			interps = append(interps, l.lower(k, false))
		}
	}
	return l.b.TextNode(syntax.KindAtom, raw.String(), l.span(n), interps...)
}
