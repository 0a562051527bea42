package quoting

import (
	"fmt"
	"unicode/utf8"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/operator"
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

// part is one element of string-family content: either accumulated literal
// bytes or a quoted interpolation.
type part struct {
	lit    []byte
	interp term.Term
}

type partsBuilder struct {
	c     *Context
	parts []part
	buf   []byte
}

func (pb *partsBuilder) literal(s string) {
	pb.buf = append(pb.buf, s...)
}

func (pb *partsBuilder) flush() {
	if len(pb.buf) > 0 {
		pb.parts = append(pb.parts, part{lit: pb.buf})
		pb.buf = nil
	}
}

func (pb *partsBuilder) done() []part {
	pb.flush()
	return pb.parts
}

// child consumes one content node. In raw mode (uppercase sigils) escape
// sequences stay verbatim except for the delimiter.
func (pb *partsBuilder) child(k syntax.NodeID, raw bool, open, clos byte) {
	c := pb.c
	switch c.Tree.Kind(k) {
	case syntax.KindFragment:
		pb.literal(c.Tree.Text(k))
	case syntax.KindEscapeSequence:
		if raw {
			text := c.Tree.Text(k)
			if len(text) == 2 && (text[1] == open || text[1] == clos) {
				pb.buf = append(pb.buf, text[1])
			} else {
				pb.literal(text)
			}
			return
		}
		pb.buf = c.appendEscape(pb.buf, k)
	case syntax.KindInterpolation:
		q, err := c.quoteInterpolation(k)
		if err != nil {
			return
		}
		pb.flush()
		pb.parts = append(pb.parts, part{interp: q})
	}
}

// appendEscape decodes one escape node onto buf. Invalid sequences decode to
// the replacement character and leave a diagnostic; the run never aborts.
func (c *Context) appendEscape(buf []byte, id syntax.NodeID) []byte {
	raw := c.Tree.Text(id)
	cp, bytewise, ok := operator.DecodeEscape(raw)
	if !ok {
		c.report(diagnostics.ErrQ003, id, fmt.Sprintf("invalid escape sequence %q", raw))
		return utf8.AppendRune(buf, utf8.RuneError)
	}
	if bytewise {
		return append(buf, byte(cp))
	}
	return utf8.AppendRune(buf, cp)
}

// stringParts assembles the content of any string-family node. Heredoc
// lines lose the closing delimiter's indentation before any escape
// processing; raw mode applies to uppercase sigils.
func (c *Context) stringParts(id syntax.NodeID, raw bool, open, clos byte) []part {
	t := c.Tree
	pb := partsBuilder{c: c}

	lines := t.ChildrenOfKind(id, syntax.KindHeredocLine)
	if len(lines) > 0 {
		prefix := 0
		if p := t.FirstChildOfKind(id, syntax.KindHeredocPrefix); p != syntax.NoNode {
			prefix = len(t.Text(p))
		}
		for _, line := range lines {
			kids := t.Children(line)
			for i, k := range kids {
				if i == 0 && t.Kind(k) == syntax.KindFragment {
					pb.literal(stripIndent(t.Text(k), prefix))
					continue
				}
				pb.child(k, raw, open, clos)
			}
		}
		return pb.done()
	}

	for _, k := range t.Children(id) {
		pb.child(k, raw, open, clos)
	}
	return pb.done()
}

// stripIndent removes up to n leading whitespace characters. Lines indented
// less than the heredoc delimiter keep whatever content they have.
func stripIndent(s string, n int) string {
	i := 0
	for i < n && i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

func (c *Context) quoteString(id syntax.NodeID, pat bool) (term.Term, error) {
	parts := c.stringParts(id, false, 0, 0)
	return foldParts(parts, "<>", c.meta(id, pat), func(lit []byte) term.Term {
		return term.Binary(lit)
	}), nil
}

func (c *Context) quoteCharList(id syntax.NodeID, pat bool) (term.Term, error) {
	parts := c.stringParts(id, false, 0, 0)
	if len(parts) == 0 {
		return term.List{}, nil
	}
	return foldParts(parts, "++", c.meta(id, pat), func(lit []byte) term.Term {
		return term.Charlist(string(lit))
	}), nil
}

// foldParts renders literal parts through lit and right-folds everything
// with op, so "a#{b}c" becomes a <> (b <> c) shapes rather than the
// bitstring segment encoding.
func foldParts(parts []part, op string, m term.Metadata, lit func([]byte) term.Term) term.Term {
	if len(parts) == 0 {
		return lit(nil)
	}
	terms := make([]term.Term, len(parts))
	for i, p := range parts {
		if p.interp != nil {
			terms[i] = p.interp
		} else {
			terms[i] = lit(p.lit)
		}
	}
	out := terms[len(terms)-1]
	for i := len(terms) - 2; i >= 0; i-- {
		out = term.NewCall(term.Atom(op), m, term.List{terms[i], out})
	}
	return out
}

func (c *Context) quoteSigil(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	nameNode := t.FirstChildOfKind(id, syntax.KindSigilName)
	if nameNode == syntax.NoNode || t.Text(nameNode) == "" {
		return nil, c.malformed(id, "sigil without a letter")
	}
	letter := t.Text(nameNode)
	raw := letter[0] >= 'A' && letter[0] <= 'Z'
	open, clos := delimiterPair(t.Text(id))

	parts := c.stringParts(id, raw, open, clos)
	m := c.meta(id, pat)

	content := make(term.List, 0, len(parts))
	for _, p := range parts {
		if p.interp != nil {
			content = append(content, p.interp)
		} else {
			content = append(content, term.Binary(p.lit))
		}
	}
	if len(content) == 0 {
		content = term.List{term.Binary("")}
	}
	inner := term.NewCall(term.Atom("<<>>"), m, content)

	mods := term.List{}
	if modsNode := t.FirstChildOfKind(id, syntax.KindSigilModifiers); modsNode != syntax.NoNode {
		mods = term.Charlist(t.Text(modsNode))
	}
	return term.NewCall(term.Atom("sigil_"+letter), m, term.List{inner, mods}), nil
}

// delimiterPair maps a sigil's opening delimiter to its opening and closing
// bytes. Bracket pairs close with their partner; every other delimiter
// closes with itself.
func delimiterPair(open string) (byte, byte) {
	if open == "" {
		return 0, 0
	}
	o := open[0]
	switch o {
	case '(':
		return o, ')'
	case '[':
		return o, ']'
	case '{':
		return o, '}'
	case '<':
		return o, '>'
	}
	return o, o
}

// quoteInterpolation quotes the expression sequence inside #{}.
func (c *Context) quoteInterpolation(id syntax.NodeID) (term.Term, error) {
	kids := c.Tree.Children(id)
	switch len(kids) {
	case 0:
		return term.NewCall(term.Atom("__block__"), c.meta(id, false), term.List{}), nil
	case 1:
		return c.quoteNode(kids[0], false)
	}
	elems, err := c.quoteElems(id, false)
	if err != nil {
		return nil, err
	}
	return term.NewCall(term.Atom("__block__"), c.meta(id, false), elems), nil
}
