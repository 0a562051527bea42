package quoting

import (
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

// quoteElems quotes a container's children in order. A failed child has
// already produced its diagnostic, so it is skipped and the rest of the
// container survives.
func (c *Context) quoteElems(id syntax.NodeID, pat bool) (term.List, error) {
	kids := c.Tree.Children(id)
	elems := make(term.List, 0, len(kids))
	for _, k := range kids {
		q, err := c.quoteNode(k, pat)
		if err != nil {
			continue
		}
		elems = append(elems, q)
	}
	return elems, nil
}

// quoteTuple keeps two-element tuples literal; every other arity becomes a
// {} call, matching the reference AST's special case.
func (c *Context) quoteTuple(id syntax.NodeID, pat bool) (term.Term, error) {
	elems, err := c.quoteElems(id, pat)
	if err != nil {
		return nil, err
	}
	if len(elems) == 2 {
		return term.Tuple{elems[0], elems[1]}, nil
	}
	return term.NewCall(term.Atom("{}"), c.meta(id, pat), elems), nil
}

func (c *Context) quoteMap(id syntax.NodeID, pat bool) (term.Term, error) {
	args := c.Tree.FirstChildOfKind(id, syntax.KindMapArguments)
	if args == syntax.NoNode {
		return nil, c.malformed(id, "map without arguments")
	}
	pairs, err := c.quoteElems(args, pat)
	if err != nil {
		return nil, err
	}
	return term.NewCall(term.Atom("%{}"), c.meta(id, pat), pairs), nil
}

func (c *Context) quoteStruct(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	kids := t.Children(id)
	if len(kids) != 2 || t.Kind(kids[1]) != syntax.KindMapArguments {
		return nil, c.malformed(id, "struct needs a name and map arguments")
	}
	name, err := c.quoteNode(kids[0], pat)
	if err != nil {
		return nil, err
	}
	pairs, err := c.quoteElems(kids[1], pat)
	if err != nil {
		return nil, err
	}
	m := c.meta(id, pat)
	mapTerm := term.NewCall(term.Atom("%{}"), m, pairs)
	return term.NewCall(term.Atom("%"), m, term.List{name, mapTerm}), nil
}

// quoteAssociation quotes one `key => value` entry to a literal 2-tuple.
func (c *Context) quoteAssociation(id syntax.NodeID, pat bool) (term.Term, error) {
	kids := c.Tree.Children(id)
	if len(kids) != 2 {
		return nil, c.malformed(id, "association needs a key and a value")
	}
	key, err := c.quoteNode(kids[0], pat)
	if err != nil {
		return nil, err
	}
	val, err := c.quoteNode(kids[1], pat)
	if err != nil {
		return nil, err
	}
	return term.Tuple{key, val}, nil
}

// quoteKeywordPair quotes one `key: value` entry. The key leaf stores the
// name without its trailing colon.
func (c *Context) quoteKeywordPair(id syntax.NodeID, pat bool) (term.Term, error) {
	t := c.Tree
	kids := t.Children(id)
	if len(kids) != 2 || t.Kind(kids[0]) != syntax.KindKeywordKey {
		return nil, c.malformed(id, "keyword pair needs a key and a value")
	}
	val, err := c.quoteNode(kids[1], pat)
	if err != nil {
		return nil, err
	}
	return term.Tuple{term.Atom(t.Text(kids[0])), val}, nil
}
