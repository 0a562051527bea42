package sitter

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
)

// defHeads are the call names whose first argument is a clause head and
// therefore lowers in pattern position.
var defHeads = map[string]bool{
	"def": true, "defp": true, "defmacro": true, "defmacrop": true,
	"defguard": true, "defguardp": true,
}

type lowerer struct {
	src   []byte
	file  string
	b     *syntax.Builder
	diags []*diagnostics.DiagnosticError
}

func (l *lowerer) span(n *sitter.Node) syntax.Span {
	p := n.StartPoint()
	return syntax.Span{
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		StartLine: int(p.Row) + 1,
		StartCol:  int(p.Column) + 1,
	}
}

func (l *lowerer) text(n *sitter.Node) string { return n.Content(l.src) }

func (l *lowerer) diag(code diagnostics.ErrorCode, n *sitter.Node, msg string) {
	p := n.StartPoint()
	l.diags = append(l.diags, diagnostics.NewError(code, diagnostics.Span{
		File:   l.file,
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
		Text:   l.text(n),
	}, msg))
}

// lowerMany lowers a sequence of sibling expressions. ERROR regions are
// reported once and their named children lowered in place, so one bad
// expression does not take its neighbors down.
func (l *lowerer) lowerMany(nodes []*sitter.Node, pat bool) []syntax.NodeID {
	var out []syntax.NodeID
	for _, n := range nodes {
		if n.Type() == "ERROR" {
			l.diag(diagnostics.ErrX001, n, "source contains syntax errors")
			out = append(out, l.lowerMany(namedChildren(n), pat)...)
			continue
		}
		if id := l.lower(n, pat); id != syntax.NoNode {
			out = append(out, id)
		}
	}
	return out
}

// lower maps one CST node onto its syntax kind. pat tracks pattern
// position: match left-hand sides, clause heads and case/with patterns. It
// decides the Matched/Unmatched split and reaches the quoter as column
// metadata and the pattern legality check.
func (l *lowerer) lower(n *sitter.Node, pat bool) syntax.NodeID {
	if n == nil {
		return syntax.NoNode
	}
	if n.IsMissing() {
		l.diag(diagnostics.ErrX001, n, "missing "+n.Type())
		return syntax.NoNode
	}
	switch n.Type() {
	case "comment":
		return syntax.NoNode

	case "ERROR":
		l.diag(diagnostics.ErrX001, n, "source contains syntax errors")
		kids := namedChildren(n)
		if len(kids) == 1 {
			return l.lower(kids[0], pat)
		}
		return syntax.NoNode

	case "identifier", "operator_identifier":
		return l.b.Leaf(syntax.KindIdentifier, l.text(n), l.span(n))

	case "alias":
		return l.b.Leaf(syntax.KindAlias, l.text(n), l.span(n))

	case "atom":
		return l.b.Leaf(syntax.KindAtom, strings.TrimPrefix(l.text(n), ":"), l.span(n))

	case "quoted_atom":
		return l.lowerQuotedAtom(n)

	case "boolean", "nil":
		return l.b.Leaf(syntax.KindAtom, l.text(n), l.span(n))

	case "integer":
		return l.b.Leaf(syntax.KindInteger, l.text(n), l.span(n))

	case "float":
		return l.b.Leaf(syntax.KindFloat, l.text(n), l.span(n))

	case "char":
		return l.b.Leaf(syntax.KindChar, l.text(n), l.span(n))

	case "string":
		return l.lowerQuoted(n, syntax.KindStringLine, syntax.KindStringHeredoc)

	case "charlist":
		return l.lowerQuoted(n, syntax.KindCharListLine, syntax.KindCharListHeredoc)

	case "sigil":
		return l.lowerSigil(n)

	case "interpolation":
		return l.b.Node(syntax.KindInterpolation, l.span(n), l.lowerMany(namedChildren(n), false)...)

	case "escape_sequence":
		return l.b.Leaf(syntax.KindEscapeSequence, l.text(n), l.span(n))

	case "binary_operator":
		return l.lowerBinary(n, pat)

	case "unary_operator":
		return l.lowerUnary(n, pat)

	case "dot":
		return l.lowerDot(n, pat)

	case "call":
		return l.lowerCall(n, pat)

	case "access_call":
		return l.lowerAccess(n, pat)

	case "list":
		return l.b.Node(syntax.KindList, l.span(n), l.lowerItems(namedChildren(n), pat, true)...)

	case "tuple":
		return l.b.Node(syntax.KindTuple, l.span(n), l.lowerItems(namedChildren(n), pat, false)...)

	case "bitstring":
		return l.b.Node(syntax.KindBitString, l.span(n), l.lowerItems(namedChildren(n), pat, false)...)

	case "map":
		return l.lowerMap(n, pat)

	case "keywords":
		return l.lowerKeywords(n, pat)

	case "pair":
		return l.lowerPair(n, pat)

	case "do_block":
		return l.lowerDoBlock(n)

	case "stab_clause":
		return l.lowerStabClause(n)

	case "anonymous_function":
		var clauses []syntax.NodeID
		for _, k := range namedChildren(n) {
			if k.Type() == "stab_clause" {
				clauses = append(clauses, l.lowerStabClause(k))
			}
		}
		return l.b.Node(syntax.KindAnonymousFunction, l.span(n), clauses...)

	case "block":
		return l.b.Node(syntax.KindBlock, l.span(n), l.lowerMany(namedChildren(n), pat)...)

	case "body", "source":
		return l.b.Node(syntax.KindBlock, l.span(n), l.lowerMany(namedChildren(n), pat)...)
	}

	l.diag(diagnostics.ErrX002, n, fmt.Sprintf("unrecognized parse node %q", n.Type()))
	if kids := namedChildren(n); len(kids) == 1 {
		return l.lower(kids[0], pat)
	}
	return syntax.NoNode
}

// operatorText reads the operator lexeme from the gap between two known
// children, which stays correct whatever field name the grammar gives the
// operator token. Interior whitespace collapses so `not  in` and `not in`
// compare equal.
func (l *lowerer) operatorText(from, to uint32) string {
	if int(from) > len(l.src) || int(to) > len(l.src) || from >= to {
		return ""
	}
	return strings.Join(strings.Fields(string(l.src[from:to])), " ")
}

func (l *lowerer) lowerBinary(n *sitter.Node, pat bool) syntax.NodeID {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		l.diag(diagnostics.ErrX001, n, "operator without both operands")
		return syntax.NoNode
	}
	op := l.operatorText(left.EndByte(), right.StartByte())

	kind := syntax.KindUnmatchedOperation
	if pat {
		kind = syntax.KindMatchedOperation
	}
	leftPat, rightPat := pat, pat
	switch op {
	case "=":
		leftPat = true
	case "<-":
		leftPat, rightPat = true, false
	case "when":
		rightPat = false
	}

	opSpan := l.span(n)
	opSpan.StartByte = int(left.EndByte())
	opSpan.EndByte = int(right.StartByte())
	opLeaf := l.b.Leaf(syntax.KindOperator, op, opSpan)
	lid := l.lower(left, leftPat)
	rid := l.lower(right, rightPat)
	if lid == syntax.NoNode || rid == syntax.NoNode {
		return syntax.NoNode
	}
	return l.b.Node(kind, l.span(n), opLeaf, lid, rid)
}

func (l *lowerer) lowerUnary(n *sitter.Node, pat bool) syntax.NodeID {
	operand := n.ChildByFieldName("operand")
	if operand == nil {
		l.diag(diagnostics.ErrX001, n, "unary operator without an operand")
		return syntax.NoNode
	}
	op := l.operatorText(n.StartByte(), operand.StartByte())

	kind := syntax.KindUnaryOperation
	if op == "@" {
		kind = syntax.KindAtOperation
	}
	opSpan := l.span(n)
	opSpan.EndByte = int(operand.StartByte())
	opLeaf := l.b.Leaf(syntax.KindOperator, op, opSpan)
	oid := l.lower(operand, pat)
	if oid == syntax.NoNode {
		return syntax.NoNode
	}
	return l.b.Node(kind, l.span(n), opLeaf, oid)
}

// aliasChainText renders a dot chain of aliases ("Foo.Bar.Baz") in one
// string, or "" when the chain mixes in anything beside aliases.
func (l *lowerer) aliasChainText(n *sitter.Node) string {
	switch n.Type() {
	case "alias":
		return l.text(n)
	case "dot":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if left == nil || right == nil || right.Type() != "alias" {
			return ""
		}
		prefix := l.aliasChainText(left)
		if prefix == "" {
			return ""
		}
		return prefix + "." + l.text(right)
	}
	return ""
}

// lowerDot handles `.` outside call position: alias chains collapse into
// one Alias leaf, everything else is a parens-free qualified reference.
func (l *lowerer) lowerDot(n *sitter.Node, pat bool) syntax.NodeID {
	if chain := l.aliasChainText(n); chain != "" {
		return l.b.Leaf(syntax.KindAlias, chain, l.span(n))
	}
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		l.diag(diagnostics.ErrX001, n, "dot without both sides")
		return syntax.NoNode
	}
	qual := l.lower(left, pat)
	if qual == syntax.NoNode {
		return syntax.NoNode
	}
	rel := l.b.Leaf(syntax.KindRelativeIdentifier, l.text(right), l.span(right))
	return l.b.Node(syntax.KindQualifiedNoArgumentsCall, l.span(n), qual, rel)
}

func (l *lowerer) lowerCall(n *sitter.Node, pat bool) syntax.NodeID {
	target := n.ChildByFieldName("target")
	if target == nil {
		l.diag(diagnostics.ErrX001, n, "call without a target")
		return syntax.NoNode
	}

	argsNode := firstOfType(n, "arguments")
	doNode := firstOfType(n, "do_block")

	if target.Type() == "dot" {
		return l.lowerDottedCall(n, target, argsNode, doNode, pat)
	}

	name := l.b.Leaf(syntax.KindIdentifier, l.text(target), l.span(target))
	kind := syntax.KindCallNoParentheses
	if argsParenthesized(argsNode) {
		kind = syntax.KindCallParenthesized
	}

	headPat := defHeads[l.text(target)]
	kids := []syntax.NodeID{name}
	if argsNode != nil {
		kids = append(kids, l.lowerArguments(argsNode, pat, headPat))
	}
	if doNode != nil {
		kids = append(kids, l.lowerDoBlock(doNode))
	}
	return l.b.Node(kind, l.span(n), kids...)
}

func (l *lowerer) lowerDottedCall(n, dot *sitter.Node, argsNode, doNode *sitter.Node, pat bool) syntax.NodeID {
	left := dot.ChildByFieldName("left")
	right := dot.ChildByFieldName("right")
	if left == nil {
		l.diag(diagnostics.ErrX001, dot, "dot call without a callee")
		return syntax.NoNode
	}

	// fun.(args) has no name after the dot.
	if right == nil {
		callee := l.lower(left, pat)
		if callee == syntax.NoNode {
			return syntax.NoNode
		}
		kids := []syntax.NodeID{callee}
		if argsNode != nil {
			kids = append(kids, l.lowerArguments(argsNode, pat, false))
		}
		if doNode != nil {
			kids = append(kids, l.lowerDoBlock(doNode))
		}
		return l.b.Node(syntax.KindDotCall, l.span(n), kids...)
	}

	var qual syntax.NodeID
	if chain := l.aliasChainText(left); chain != "" {
		qual = l.b.Leaf(syntax.KindAlias, chain, l.span(left))
	} else {
		qual = l.lower(left, pat)
	}
	if qual == syntax.NoNode {
		return syntax.NoNode
	}
	rel := l.b.Leaf(syntax.KindRelativeIdentifier, l.text(right), l.span(right))

	kids := []syntax.NodeID{qual, rel}
	if argsNode != nil {
		kids = append(kids, l.lowerArguments(argsNode, pat, false))
	}
	if doNode != nil {
		kids = append(kids, l.lowerDoBlock(doNode))
	}
	return l.b.Node(syntax.KindQualifiedCall, l.span(n), kids...)
}

// lowerArguments builds the Arguments node. headPat marks def-family calls,
// whose first argument is the clause head and lowers in pattern position.
func (l *lowerer) lowerArguments(args *sitter.Node, pat, headPat bool) syntax.NodeID {
	var kids []syntax.NodeID
	for i, a := range namedChildren(args) {
		p := pat
		if headPat && i == 0 {
			p = true
		}
		if a.Type() == "keywords" {
			kids = append(kids, l.lowerKeywords(a, p))
			continue
		}
		if id := l.lower(a, p); id != syntax.NoNode {
			kids = append(kids, id)
		}
	}
	return l.b.Node(syntax.KindArguments, l.span(args), kids...)
}

func (l *lowerer) lowerAccess(n *sitter.Node, pat bool) syntax.NodeID {
	target := n.ChildByFieldName("target")
	key := n.ChildByFieldName("key")
	if target == nil || key == nil {
		kids := namedChildren(n)
		if len(kids) < 2 {
			l.diag(diagnostics.ErrX001, n, "access without a container and a key")
			return syntax.NoNode
		}
		target, key = kids[0], kids[1]
	}
	tid := l.lower(target, pat)
	kid := l.lower(key, false)
	if tid == syntax.NoNode || kid == syntax.NoNode {
		return syntax.NoNode
	}
	return l.b.Node(syntax.KindAccessCall, l.span(n), tid, kid)
}

// lowerItems lowers container elements. Lists splice keyword tails into
// individual pairs, matching the literal they desugar to; tuples and
// bitstrings keep the tail as one keyword-list element.
func (l *lowerer) lowerItems(items []*sitter.Node, pat, splice bool) []syntax.NodeID {
	var out []syntax.NodeID
	for _, item := range items {
		if item.Type() == "keywords" {
			if splice {
				for _, pair := range namedChildren(item) {
					if id := l.lowerPair(pair, pat); id != syntax.NoNode {
						out = append(out, id)
					}
				}
			} else {
				out = append(out, l.lowerKeywords(item, pat))
			}
			continue
		}
		if id := l.lower(item, pat); id != syntax.NoNode {
			out = append(out, id)
		}
	}
	return out
}

func (l *lowerer) lowerKeywords(n *sitter.Node, pat bool) syntax.NodeID {
	var kids []syntax.NodeID
	for _, pair := range namedChildren(n) {
		if id := l.lowerPair(pair, pat); id != syntax.NoNode {
			kids = append(kids, id)
		}
	}
	return l.b.Node(syntax.KindKeywordList, l.span(n), kids...)
}

func (l *lowerer) lowerPair(n *sitter.Node, pat bool) syntax.NodeID {
	key := n.ChildByFieldName("key")
	value := n.ChildByFieldName("value")
	if key == nil || value == nil {
		l.diag(diagnostics.ErrX001, n, "keyword pair without key and value")
		return syntax.NoNode
	}
	keyLeaf := l.b.Leaf(syntax.KindKeywordKey, keywordName(l.text(key)), l.span(key))
	vid := l.lower(value, pat)
	if vid == syntax.NoNode {
		return syntax.NoNode
	}
	return l.b.Node(syntax.KindKeywordPair, l.span(n), keyLeaf, vid)
}

// keywordName strips the trailing colon (and quotes) off a keyword token.
func keywordName(text string) string {
	text = strings.TrimRight(strings.TrimSpace(text), ":")
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		text = text[1 : len(text)-1]
	}
	return text
}

func (l *lowerer) lowerMap(n *sitter.Node, pat bool) syntax.NodeID {
	var structName *sitter.Node
	var items []*sitter.Node
	for _, k := range namedChildren(n) {
		switch k.Type() {
		case "struct":
			if kids := namedChildren(k); len(kids) > 0 {
				structName = kids[0]
			} else {
				structName = k
			}
		case "map_content":
			items = append(items, namedChildren(k)...)
		default:
			items = append(items, k)
		}
	}

	var pairs []syntax.NodeID
	for _, item := range items {
		switch item.Type() {
		case "keywords":
			for _, pair := range namedChildren(item) {
				if id := l.lowerPair(pair, pat); id != syntax.NoNode {
					pairs = append(pairs, id)
				}
			}
		case "binary_operator":
			if id := l.lowerMapAssociation(item, pat); id != syntax.NoNode {
				pairs = append(pairs, id)
			}
		default:
			if id := l.lower(item, pat); id != syntax.NoNode {
				pairs = append(pairs, id)
			}
		}
	}
	args := l.b.Node(syntax.KindMapArguments, l.span(n), pairs...)

	if structName != nil {
		name := l.lower(structName, pat)
		if name == syntax.NoNode {
			return syntax.NoNode
		}
		return l.b.Node(syntax.KindStructOperation, l.span(n), name, args)
	}
	return l.b.Node(syntax.KindMapOperation, l.span(n), args)
}

// lowerMapAssociation turns `key => value` inside a map into an Association
// node; any other operator inside map content lowers normally.
func (l *lowerer) lowerMapAssociation(n *sitter.Node, pat bool) syntax.NodeID {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || l.operatorText(left.EndByte(), right.StartByte()) != "=>" {
		return l.lowerBinary(n, pat)
	}
	kid := l.lower(left, pat)
	vid := l.lower(right, pat)
	if kid == syntax.NoNode || vid == syntax.NoNode {
		return syntax.NoNode
	}
	return l.b.Node(syntax.KindAssociation, l.span(n), kid, vid)
}

// sectionBlocks maps auxiliary do-block section node types to their keys.
var sectionBlocks = map[string]string{
	"else_block":   "else",
	"rescue_block": "rescue",
	"catch_block":  "catch",
	"after_block":  "after",
}

func (l *lowerer) lowerDoBlock(n *sitter.Node) syntax.NodeID {
	var mainBody []*sitter.Node
	var sections []*sitter.Node
	for _, k := range namedChildren(n) {
		if _, ok := sectionBlocks[k.Type()]; ok {
			sections = append(sections, k)
			continue
		}
		mainBody = append(mainBody, k)
	}

	entries := []syntax.NodeID{l.blockEntry(n, "do", mainBody)}
	for _, s := range sections {
		entries = append(entries, l.blockEntry(s, sectionBlocks[s.Type()], namedChildren(s)))
	}
	return l.b.Node(syntax.KindDoBlock, l.span(n), entries...)
}

func (l *lowerer) blockEntry(at *sitter.Node, key string, body []*sitter.Node) syntax.NodeID {
	keyLeaf := l.b.Leaf(syntax.KindKeywordKey, key, l.span(at))
	block := l.b.Node(syntax.KindBlock, l.span(at), l.lowerMany(body, false)...)
	return l.b.Node(syntax.KindBlockEntry, l.span(at), keyLeaf, block)
}

func (l *lowerer) lowerStabClause(n *sitter.Node) syntax.NodeID {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")

	var kids []syntax.NodeID
	if left != nil {
		var heads []syntax.NodeID
		if left.Type() == "arguments" {
			heads = l.lowerItems(namedChildren(left), true, false)
		} else if id := l.lower(left, true); id != syntax.NoNode {
			heads = append(heads, id)
		}
		kids = append(kids, l.b.Node(syntax.KindStabHead, l.span(left), heads...))
	}
	if right != nil {
		kids = append(kids, l.b.Node(syntax.KindBlock, l.span(right), l.lowerMany(namedChildren(right), false)...))
	} else {
		kids = append(kids, l.b.Node(syntax.KindBlock, l.span(n)))
	}
	return l.b.Node(syntax.KindStabClause, l.span(n), kids...)
}

func firstOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, k := range namedChildren(n) {
		if k.Type() == typ {
			return k
		}
	}
	return nil
}

// argsParenthesized reports whether the arguments node opens with a paren,
// the split between CallParenthesized and CallNoParentheses.
func argsParenthesized(args *sitter.Node) bool {
	if args == nil {
		return false
	}
	first := args.Child(0)
	return first != nil && first.Type() == "("
}
