package quoting

import (
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

func (c *Context) quoteUnqualifiedCall(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	name := t.Child(id, 0)
	if name == syntax.NoNode ||
		(t.Kind(name) != syntax.KindIdentifier && t.Kind(name) != syntax.KindOperator) {
		return nil, c.malformed(id, "call without a function name")
	}
	args, err := c.callArguments(id, pat)
	if err != nil {
		return nil, err
	}
	return term.NewCall(term.Atom(t.Text(name)), c.meta(id, pat), args), nil
}

func (c *Context) quoteQualifiedCall(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	kids := t.Children(id)
	if len(kids) < 2 || t.Kind(kids[1]) != syntax.KindRelativeIdentifier {
		return nil, c.malformed(id, "qualified call needs a qualifier and a name")
	}
	qual, err := c.quoteNode(kids[0], pat)
	if err != nil {
		return nil, err
	}
	args, err := c.callArguments(id, pat)
	if err != nil {
		return nil, err
	}
	m := c.meta(id, pat)
	dot := term.Tuple{term.Atom("."), m.Term(), term.List{qual, term.Atom(t.Text(kids[1]))}}

	outer := m
	if t.Kind(id) == syntax.KindQualifiedNoArgumentsCall {
		// A bare Mod.fun reference still quotes as a call, flagged so a
		// requote can restore the parenthesis-free form.
		sp := t.Span(id)
		outer = term.NewMeta().With("no_parens", term.AtomTrue).With("line", term.Integer(sp.StartLine))
		if pat {
			outer = outer.WithColumn(sp.StartCol)
		}
	}
	return term.NewCall(dot, outer, args), nil
}

// quoteDotCall handles anonymous invocation fun.(args): the dot tuple holds
// only the callee.
func (c *Context) quoteDotCall(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	target := t.Child(id, 0)
	if target == syntax.NoNode {
		return nil, c.malformed(id, "dot call without a callee")
	}
	callee, err := c.quoteNode(target, pat)
	if err != nil {
		return nil, err
	}
	args, err := c.callArguments(id, pat)
	if err != nil {
		return nil, err
	}
	m := c.meta(id, pat)
	dot := term.Tuple{term.Atom("."), m.Term(), term.List{callee}}
	return term.NewCall(dot, m, args), nil
}

// quoteAccessCall lowers container[key] onto Access.get, the module atom
// the parser itself injects.
func (c *Context) quoteAccessCall(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	kids := t.Children(id)
	if len(kids) != 2 {
		return nil, c.malformed(id, "access needs a container and a key")
	}
	container, err := c.quoteNode(kids[0], pat)
	if err != nil {
		return nil, err
	}
	key, err := c.quoteNode(kids[1], pat)
	if err != nil {
		return nil, err
	}
	m := c.meta(id, pat)
	dot := term.Tuple{term.Atom("."), m.Term(), term.List{term.Atom("Elixir.Access"), term.Atom("get")}}
	return term.NewCall(dot, m, term.List{container, key}), nil
}

// callArguments gathers a call node's argument list: the Arguments child's
// elements, with the do-block keyword list appended as the final argument
// when present.
func (c *Context) callArguments(id syntax.NodeID, pat bool) (term.List, error) {
	t := c.Tree
	args := term.List{}
	if argsNode := t.FirstChildOfKind(id, syntax.KindArguments); argsNode != syntax.NoNode {
		elems, err := c.quoteElems(argsNode, pat)
		if err != nil {
			return nil, err
		}
		args = elems
	}
	if doBlock := t.FirstChildOfKind(id, syntax.KindDoBlock); doBlock != syntax.NoNode {
		kw, err := c.quoteDoBlock(doBlock)
		if err != nil {
			return nil, err
		}
		args = append(args, kw)
	}
	return args, nil
}

// quoteDoBlock renders do/else/rescue/catch/after sections as the trailing
// keyword list of the enclosing call.
func (c *Context) quoteDoBlock(id syntax.NodeID) (term.Term, error) {
	t := c.Tree
	entries := term.List{}
	for _, entry := range t.Children(id) {
		if t.Kind(entry) != syntax.KindBlockEntry {
			continue
		}
		key := t.FirstChildOfKind(entry, syntax.KindKeywordKey)
		body := t.FirstChildOfKind(entry, syntax.KindBlock)
		if key == syntax.NoNode || body == syntax.NoNode {
			return nil, c.malformed(entry, "block entry needs a keyword and a body")
		}
		val, err := c.quoteBlockBody(body, false)
		if err != nil {
			continue
		}
		entries = append(entries, term.Tuple{term.Atom(t.Text(key)), val})
	}
	if len(entries) == 0 {
		return nil, c.malformed(id, "do block without entries")
	}
	return entries, nil
}

// quoteBlockBody quotes an expression sequence: a single expression stays
// bare, several wrap in __block__, and a body of stab clauses becomes the
// clause list.
func (c *Context) quoteBlockBody(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	kids := t.Children(id)

	stabs := true
	for _, k := range kids {
		if t.Kind(k) != syntax.KindStabClause {
			stabs = false
			break
		}
	}
	if stabs && len(kids) > 0 {
		clauses := make(term.List, 0, len(kids))
		for _, k := range kids {
			q, err := c.quoteStabClause(k)
			if err != nil {
				continue
			}
			clauses = append(clauses, q)
		}
		return clauses, nil
	}

	elems, err := c.quoteElems(id, pat)
	if err != nil {
		return nil, err
	}
	switch len(elems) {
	case 1:
		return elems[0], nil
	default:
		return term.NewCall(term.Atom("__block__"), c.meta(id, pat), elems), nil
	}
}

func (c *Context) quoteStabClause(id syntax.NodeID) (term.Term, error) {
	t := c.Tree
	body := t.FirstChildOfKind(id, syntax.KindBlock)
	if body == syntax.NoNode {
		return nil, c.malformed(id, "stab clause without a body")
	}
	heads := term.List{}
	if head := t.FirstChildOfKind(id, syntax.KindStabHead); head != syntax.NoNode {
		elems, err := c.quoteHeadElems(head)
		if err != nil {
			return nil, err
		}
		heads = elems
	}
	val, err := c.quoteBlockBody(body, false)
	if err != nil {
		return nil, err
	}
	return term.NewCall(term.Atom("->"), c.meta(id, false), term.List{heads, val}), nil
}

// quoteHeadElems quotes clause-head arguments in pattern position.
func (c *Context) quoteHeadElems(id syntax.NodeID) (term.List, error) {
	kids := c.Tree.Children(id)
	elems := make(term.List, 0, len(kids))
	for _, k := range kids {
		q, err := c.quoteNode(k, true)
		if err != nil {
			continue
		}
		elems = append(elems, q)
	}
	return elems, nil
}

func (c *Context) quoteAnonymousFunction(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	clauses := term.List{}
	for _, k := range t.Children(id) {
		if t.Kind(k) != syntax.KindStabClause {
			continue
		}
		q, err := c.quoteStabClause(k)
		if err != nil {
			continue
		}
		clauses = append(clauses, q)
	}
	if len(clauses) == 0 {
		return nil, c.malformed(id, "anonymous function without clauses")
	}
	return term.NewCall(term.Atom("fn"), c.meta(id, pat), clauses), nil
}
