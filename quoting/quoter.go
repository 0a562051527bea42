package quoting

import (
	"fmt"
	"strings"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/operator"
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

// quoteNode dispatches on the node kind. pat reports pattern position:
// inside a match left-hand side, a clause head or a Matched operation.
// Pattern position adds the column metadata key and activates the operator
// legality check.
func (c *Context) quoteNode(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	switch t.Kind(id) {
	case syntax.KindInteger:
		n, err := operator.ParseInteger(t.Text(id))
		if err != nil {
			return nil, c.malformed(id, err.Error())
		}
		return term.Integer(n), nil

	case syntax.KindFloat:
		f, err := operator.ParseFloat(t.Text(id))
		if err != nil {
			return nil, c.malformed(id, err.Error())
		}
		return term.Float(f), nil

	case syntax.KindChar:
		cp, err := operator.ParseChar(t.Text(id))
		if err != nil {
			return nil, c.malformed(id, err.Error())
		}
		return term.Integer(cp), nil

	case syntax.KindAtom:
		return c.quoteAtom(id)

	case syntax.KindIdentifier:
		if t.Text(id) == "" {
			return nil, c.malformed(id, "identifier without a name")
		}
		return term.NewVar(t.Text(id), c.meta(id, pat)), nil

	case syntax.KindRelativeIdentifier:
		return term.Atom(t.Text(id)), nil

	case syntax.KindAlias:
		return c.quoteAlias(id, pat)

	case syntax.KindMatchedOperation, syntax.KindUnmatchedOperation:
		return c.quoteOperation(id, pat)

	case syntax.KindUnaryOperation, syntax.KindAtOperation:
		return c.quoteUnary(id, pat)

	case syntax.KindStringLine, syntax.KindStringHeredoc:
		return c.quoteString(id, pat)

	case syntax.KindCharListLine, syntax.KindCharListHeredoc:
		return c.quoteCharList(id, pat)

	case syntax.KindSigil:
		return c.quoteSigil(id, pat)

	case syntax.KindInterpolation:
		return c.quoteInterpolation(id)

	case syntax.KindFragment:
		return term.Binary(t.Text(id)), nil

	case syntax.KindEscapeSequence:
		var buf []byte
		buf = c.appendEscape(buf, id)
		return term.Binary(buf), nil

	case syntax.KindList:
		elems, err := c.quoteElems(id, pat)
		if err != nil {
			return nil, err
		}
		return elems, nil

	case syntax.KindTuple:
		return c.quoteTuple(id, pat)

	case syntax.KindBitString:
		elems, err := c.quoteElems(id, pat)
		if err != nil {
			return nil, err
		}
		return term.NewCall(term.Atom("<<>>"), c.meta(id, pat), elems), nil

	case syntax.KindMapOperation:
		return c.quoteMap(id, pat)

	case syntax.KindStructOperation:
		return c.quoteStruct(id, pat)

	case syntax.KindAssociation:
		return c.quoteAssociation(id, pat)

	case syntax.KindKeywordPair:
		return c.quoteKeywordPair(id, pat)

	case syntax.KindKeywordList:
		elems, err := c.quoteElems(id, pat)
		if err != nil {
			return nil, err
		}
		return elems, nil

	case syntax.KindCallNoParentheses, syntax.KindCallParenthesized:
		return c.quoteUnqualifiedCall(id, pat)

	case syntax.KindQualifiedCall, syntax.KindQualifiedNoArgumentsCall:
		return c.quoteQualifiedCall(id, pat)

	case syntax.KindDotCall:
		return c.quoteDotCall(id, pat)

	case syntax.KindAccessCall:
		return c.quoteAccessCall(id, pat)

	case syntax.KindDoBlock:
		return c.quoteDoBlock(id)

	case syntax.KindBlock, syntax.KindSource:
		return c.quoteBlockBody(id, pat)

	case syntax.KindStabClause:
		return c.quoteStabClause(id)

	case syntax.KindAnonymousFunction:
		return c.quoteAnonymousFunction(id, pat)
	}
	return nil, c.malformed(id, fmt.Sprintf("cannot quote %s node", t.Kind(id)))
}

func (c *Context) quoteAtom(id syntax.NodeID) (term.Term, error) {
	t := c.Tree
	if t.FirstChildOfKind(id, syntax.KindInterpolation) != syntax.NoNode {
		c.report(diagnostics.ErrQ004, id, "interpolated atom quoted as raw text")
	}
	if t.Text(id) == "" {
		return nil, c.malformed(id, "atom without a name")
	}
	return term.Atom(t.Text(id)), nil
}

func (c *Context) quoteAlias(id syntax.NodeID, pat bool) (term.Term, error) {
	text := c.Tree.Text(id)
	if text == "" {
		return nil, c.malformed(id, "alias without segments")
	}
	segs := strings.Split(text, ".")
	parts := make(term.List, 0, len(segs))
	for _, s := range segs {
		if s == "" {
			return nil, c.malformed(id, fmt.Sprintf("alias %q has an empty segment", text))
		}
		parts = append(parts, term.Atom(s))
	}
	return term.NewCall(term.Atom("__aliases__"), c.meta(id, pat), parts), nil
}

func (c *Context) quoteOperation(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	kids := t.Children(id)
	if len(kids) < 3 || t.Kind(kids[0]) != syntax.KindOperator {
		return nil, c.malformed(id, "operation needs an operator and two operands")
	}
	op := t.Text(kids[0])
	p := pat || t.Kind(id) == syntax.KindMatchedOperation
	if p && !operator.ValidInPattern(op) {
		c.report(diagnostics.ErrQ002, kids[0],
			fmt.Sprintf("operator %s is not allowed in patterns", op))
	}
	m := c.meta(id, p)

	operands := kids[1:]
	args := make(term.List, 0, len(operands))
	for i, k := range operands {
		q, err := c.quoteNode(k, operandPattern(op, i, len(operands), p))
		if err != nil {
			return nil, err
		}
		args = append(args, q)
	}

	// `a not in b` is sugar for not(a in b).
	if op == "not in" {
		inner := term.NewCall(term.Atom("in"), m, args)
		return term.NewCall(term.Atom("not"), m, term.List{inner}), nil
	}
	return term.NewCall(term.Atom(op), m, args), nil
}

// operandPattern decides the pattern flag for one operand. Matches and
// generators bind their left side; when-guards and default values are
// expressions even inside a clause head.
func operandPattern(op string, i, n int, p bool) bool {
	switch op {
	case "=", "<-":
		if i == 0 {
			return true
		}
		if op == "<-" {
			return false
		}
		return p
	case "\\\\":
		if i == 0 {
			return p
		}
		return false
	case "when":
		// The guard is the final operand; everything before it is part of
		// the clause head.
		if i == n-1 {
			return false
		}
		return p
	}
	return p
}

func (c *Context) quoteUnary(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	kids := t.Children(id)
	if len(kids) != 2 || t.Kind(kids[0]) != syntax.KindOperator {
		return nil, c.malformed(id, "unary operation needs an operator and one operand")
	}
	op := t.Text(kids[0])
	if pat && !operator.ValidInPattern(op) {
		c.report(diagnostics.ErrQ002, kids[0],
			fmt.Sprintf("operator %s is not allowed in patterns", op))
	}
	operand, err := c.quoteNode(kids[1], pat)
	if err != nil {
		return nil, err
	}
	return term.NewCall(term.Atom(op), c.meta(id, pat), term.List{operand}), nil
}
