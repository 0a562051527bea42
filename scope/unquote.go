package scope

import (
	"github.com/exalt-dev/exalt/call"
	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/syntax"
)

// followUnquote resolves the inner call of the unquote splice at id and
// continues the walk inside every definition clause it names, as if each
// clause body had been substituted at the splice. An inner call that
// resolves to nothing degrades to Continue, never to a failure. Each splice
// is followed at most once per request: resolving the inner call walks the
// scope the splice sits in, which visits the splice again.
func (w *walker) followUnquote(splice syntax.NodeID) Signal {
	t := w.resolver.tree
	inner := call.UnquoteArgument(t, splice)
	if inner == syntax.NoNode || !t.Kind(inner).IsCall() {
		return Continue
	}
	if w.followed[splice] {
		return Continue
	}
	w.followed[splice] = true
	bodies := w.spliceBodies(inner)
	if len(bodies) == 0 {
		w.diag(diagnostics.ErrR002, splice, "unquote argument does not resolve to a definition clause")
		return Continue
	}
	for _, body := range bodies {
		if w.walkFrom(body) == Stop {
			return Stop
		}
	}
	return Continue
}

// spliceBodies resolves the inner call and returns the bodies of every
// valid definition clause it reached. Each clause is followed at most once
// per request, so mutually splicing definitions terminate.
func (w *walker) spliceBodies(inner syntax.NodeID) []syntax.NodeID {
	t := w.resolver.tree
	req := w.resolver.NewRequest(inner)
	if req.Name == "" {
		return nil
	}
	var bodies []syntax.NodeID
	sub := &walker{
		resolver: w.resolver,
		req:      req,
		seen:     make(map[candidateKey]bool),
		followed: w.followed,
		diags:    w.diags,
	}
	sub.keep = func(c Candidate) Signal {
		if !c.Valid || c.Kind != CandidateClause || w.followed[c.Node] {
			return Continue
		}
		w.followed[c.Node] = true
		cl, ok := call.ClauseAt(t, c.Node)
		if !ok {
			return Continue
		}
		if body := cl.Body(t); body != syntax.NoNode {
			bodies = append(bodies, body)
		}
		return Continue
	}
	sub.run()
	return bodies
}

// walkFrom continues the walk for the original request as if it sat inside
// body: the body's own entries first, then the scope chain the body itself
// lives in.
func (w *walker) walkFrom(body syntax.NodeID) Signal {
	t := w.resolver.tree
	sub := w.sub(Request{From: body, Name: w.req.Name, Arity: w.req.Arity})
	entries := bodyEntries(t, body)
	for i := len(entries) - 1; i >= 0; i-- {
		if sub.scanBinding(entries[i]) == Stop {
			return Stop
		}
	}
	for _, entry := range entries {
		if sub.scanDeclaration(entry) == Stop {
			return Stop
		}
	}
	return sub.walkChain()
}

// bodyEntries flattens a clause body into its evaluated expressions: the do
// section's block entries for a do block, the block's children for a bare
// block, otherwise the single short-form expression.
func bodyEntries(t *syntax.Tree, body syntax.NodeID) []syntax.NodeID {
	switch t.Kind(body) {
	case syntax.KindDoBlock:
		var out []syntax.NodeID
		for _, entry := range t.ChildrenOfKind(body, syntax.KindBlockEntry) {
			key := t.FirstChildOfKind(entry, syntax.KindKeywordKey)
			if key != syntax.NoNode && t.Text(key) != "do" {
				continue
			}
			if block := t.FirstChildOfKind(entry, syntax.KindBlock); block != syntax.NoNode {
				out = append(out, t.Children(block)...)
			}
		}
		return out
	case syntax.KindBlock:
		return t.Children(body)
	}
	return []syntax.NodeID{body}
}
