package scope

import (
	"strings"

	"github.com/exalt-dev/exalt/call"
	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/modindex"
	"github.com/exalt-dev/exalt/syntax"
)

// walker carries one resolution walk. Sub-walks spawned for unquote
// following share the continuation, the dedup set and the cycle guard, so
// the whole request behaves as a single stream of candidates.
type walker struct {
	resolver *Resolver
	req      Request
	keep     func(Candidate) Signal
	seen     map[candidateKey]bool
	followed map[syntax.NodeID]bool
	diags    *[]*diagnostics.DiagnosticError
	imports  []modindex.Import
}

// candidateKey identifies a candidate across walk branches. Table rows for
// the same name at different arities are distinct candidates, so the
// interval is part of the key.
type candidateKey struct {
	kind    CandidateKind
	node    syntax.NodeID
	module  string
	name    string
	arities call.ArityInterval
}

func (w *walker) sub(req Request) *walker {
	return &walker{
		resolver: w.resolver,
		req:      req,
		keep:     w.keep,
		seen:     w.seen,
		followed: w.followed,
		diags:    w.diags,
	}
}

func (w *walker) run() Signal {
	t := w.resolver.tree
	if inner := call.UnquoteArgument(t, w.req.From); inner != syntax.NoNode && t.Kind(inner).IsCall() {
		// The literal word unquote is never the reference. A nameless
		// request resolves to the inner call's own candidates; a named one
		// continues inside the clauses the inner call reaches.
		if w.req.Name == "" {
			sub := w.sub(w.resolver.NewRequest(inner))
			if sub.req.Name == "" {
				return Continue
			}
			return sub.run()
		}
		return w.followUnquote(w.req.From)
	}

	if w.req.Name == "" {
		w.req = w.resolver.seedName(w.req)
	}
	if w.req.Name == "" {
		return Continue
	}
	if t.Kind(w.req.From) == syntax.KindAlias {
		return w.resolveAlias()
	}
	if site, ok := call.SiteAt(t, w.req.From); ok && site.Module != "" {
		return w.resolveQualified(site)
	}
	return w.walkChain()
}

// walkChain is the lexical walk, innermost level first: enclosing blocks
// bind and declare, stab and definition clauses bind their parameters,
// comprehension-style calls bind their generators. Import directives are
// gathered on the way out and consulted with the table once the chain is
// spent.
func (w *walker) walkChain() Signal {
	t := w.resolver.tree
	for p := t.Parent(w.req.From); p != syntax.NoNode; p = t.Parent(p) {
		var sig Signal
		switch {
		case t.Kind(p) == syntax.KindBlock || t.Kind(p) == syntax.KindSource:
			sig = w.scanBlock(p)
		case t.Kind(p) == syntax.KindStabClause:
			sig = w.scanStabParams(p)
		case call.IsDefinition(t, p):
			sig = w.scanClauseParams(p)
		case t.Kind(p).IsCall():
			sig = w.scanGenerators(p)
		}
		if sig == Stop {
			return Stop
		}
	}
	return w.tableLevels()
}

// scanBlock visits one block level. Bindings are position-sensitive and
// nearest-first; the entry containing the request is skipped so the right
// side of x = f(x) resolves x one level out. Definitions and attributes
// match anywhere in the block, import directives only when they precede the
// request.
func (w *walker) scanBlock(block syntax.NodeID) Signal {
	t := w.resolver.tree
	kids := t.Children(block)
	limit := containedChildIndex(t, block, w.req.From)

	for i := limit - 1; i >= 0; i-- {
		if w.scanBinding(kids[i]) == Stop {
			return Stop
		}
	}
	for _, entry := range kids {
		if w.scanDeclaration(entry) == Stop {
			return Stop
		}
	}
	for i := 0; i < limit; i++ {
		if imp, ok := readImport(t, kids[i]); ok {
			w.imports = append(w.imports, imp)
		}
	}
	return Continue
}

// scanBinding emits the bindings an already-evaluated entry introduced:
// every match left-hand side in it. Clause bodies and do blocks keep their
// bindings to themselves, and generators never outlive their comprehension.
func (w *walker) scanBinding(entry syntax.NodeID) Signal {
	t := w.resolver.tree
	sig := Continue
	t.Walk(entry, func(id syntax.NodeID) syntax.WalkSignal {
		k := t.Kind(id)
		if k == syntax.KindDoBlock || k == syntax.KindAnonymousFunction || k == syntax.KindStabClause {
			return syntax.SkipChildren
		}
		if !k.IsOperation() {
			return syntax.Continue
		}
		kids := t.Children(id)
		if len(kids) != 3 || t.Text(kids[0]) != "=" {
			return syntax.Continue
		}
		if w.bindPattern(kids[1]) == Stop {
			sig = Stop
			return syntax.Stop
		}
		return syntax.Continue
	})
	return sig
}

// scanDeclaration handles the order-independent entries of a block:
// definition clauses, attribute definitions, and unquote splices that may
// expand to further declarations.
func (w *walker) scanDeclaration(entry syntax.NodeID) Signal {
	t := w.resolver.tree
	switch {
	case call.IsDefinition(t, entry):
		return w.emitClauseAt(entry)
	case t.Kind(entry) == syntax.KindAtOperation:
		return w.emitAttribute(entry)
	case call.UnquoteArgument(t, entry) != syntax.NoNode:
		return w.followUnquote(entry)
	}
	return Continue
}

// scanStabParams binds the head patterns of a fn/case/receive clause.
func (w *walker) scanStabParams(clause syntax.NodeID) Signal {
	t := w.resolver.tree
	head := t.FirstChildOfKind(clause, syntax.KindStabHead)
	if head == syntax.NoNode {
		return Continue
	}
	for _, p := range t.Children(head) {
		if w.bindPattern(call.UnwrapGuards(t, p)) == Stop {
			return Stop
		}
	}
	return Continue
}

// scanClauseParams binds the parameters of the enclosing definition clause.
func (w *walker) scanClauseParams(def syntax.NodeID) Signal {
	t := w.resolver.tree
	cl, ok := call.ClauseAt(t, def)
	if !ok && !cl.Dynamic {
		return Continue
	}
	args := t.FirstChildOfKind(cl.Head, syntax.KindArguments)
	if args == syntax.NoNode {
		return Continue
	}
	for _, p := range t.Children(args) {
		if w.bindPattern(p) == Stop {
			return Stop
		}
	}
	return Continue
}

// scanGenerators binds pat <- expr and pat = expr arguments of the
// enclosing call for everything after them, which is how for and with make
// earlier generators visible to later ones and to the do block.
func (w *walker) scanGenerators(node syntax.NodeID) Signal {
	t := w.resolver.tree
	args := t.FirstChildOfKind(node, syntax.KindArguments)
	if args == syntax.NoNode {
		return Continue
	}
	kids := t.Children(args)
	limit := containedChildIndex(t, args, w.req.From)
	if limit > len(kids) {
		limit = len(kids)
	}
	for i := limit - 1; i >= 0; i-- {
		if !t.Kind(kids[i]).IsOperation() {
			continue
		}
		parts := t.Children(kids[i])
		if len(parts) != 3 || (t.Text(parts[0]) != "<-" && t.Text(parts[0]) != "=") {
			continue
		}
		if w.bindPattern(parts[1]) == Stop {
			return Stop
		}
	}
	return Continue
}

// bindPattern emits a binding candidate for each occurrence of the
// requested name in pattern position. Pinned subtrees reference existing
// bindings instead of introducing them, default values and map keys sit in
// expression position, and the wildcard binds nothing. Bindings carry no
// arity, so arity-filtered requests skip them entirely.
func (w *walker) bindPattern(pat syntax.NodeID) Signal {
	if w.req.Arity >= 0 || w.req.Name == "_" {
		return Continue
	}
	t := w.resolver.tree
	sig := Continue
	t.Walk(pat, func(id syntax.NodeID) syntax.WalkSignal {
		switch t.Kind(id) {
		case syntax.KindIdentifier:
			if t.Text(id) != w.req.Name {
				return syntax.Continue
			}
			if w.emit(Candidate{Kind: CandidateBinding, Node: id, Name: w.req.Name, Valid: true}) == Stop {
				sig = Stop
				return syntax.Stop
			}

		case syntax.KindUnaryOperation:
			if kids := t.Children(id); len(kids) == 2 && t.Text(kids[0]) == "^" {
				return syntax.SkipChildren
			}

		case syntax.KindMatchedOperation, syntax.KindUnmatchedOperation:
			kids := t.Children(id)
			if len(kids) != 3 {
				return syntax.Continue
			}
			switch t.Text(kids[0]) {
			case `\\`, "when":
				if w.bindPattern(kids[1]) == Stop {
					sig = Stop
					return syntax.Stop
				}
				return syntax.SkipChildren
			}

		case syntax.KindAssociation:
			if w.bindPattern(t.Child(id, 1)) == Stop {
				sig = Stop
				return syntax.Stop
			}
			return syntax.SkipChildren
		}
		return syntax.Continue
	})
	return sig
}

// emitClauseAt emits the definition clause at entry when it can define the
// requested name at the requested arity. Heads whose name is spliced at
// expansion time could define anything, so they surface with Valid false
// and the caller decides whether to trust them.
func (w *walker) emitClauseAt(entry syntax.NodeID) Signal {
	t := w.resolver.tree
	cl, ok := call.ClauseAt(t, entry)
	switch {
	case ok && cl.Name == w.req.Name && w.arityOK(cl.Arities):
		return w.emit(Candidate{
			Kind:    CandidateClause,
			Node:    entry,
			Module:  owningModule(t, entry),
			Name:    cl.Name,
			Arities: cl.Arities,
			Macro:   cl.Macro,
			Valid:   true,
		})
	case !ok && cl.Dynamic && w.arityOK(cl.Arities) && !strings.HasPrefix(w.req.Name, "@"):
		return w.emit(Candidate{
			Kind:    CandidateClause,
			Node:    entry,
			Module:  owningModule(t, entry),
			Name:    w.req.Name,
			Arities: cl.Arities,
			Macro:   cl.Macro,
			Valid:   false,
		})
	}
	return Continue
}

// emitAttribute surfaces @name value declarations. Bare @name reads the
// attribute rather than defining it.
func (w *walker) emitAttribute(entry syntax.NodeID) Signal {
	if w.req.Arity >= 0 {
		return Continue
	}
	t := w.resolver.tree
	name := attributeName(t, entry)
	if name == "" || name != w.req.Name {
		return Continue
	}
	operand := t.Child(entry, 1)
	if !t.Kind(operand).IsCall() {
		return Continue
	}
	args := t.FirstChildOfKind(operand, syntax.KindArguments)
	if args == syntax.NoNode || t.ChildCount(args) == 0 {
		return Continue
	}
	return w.emit(Candidate{Kind: CandidateAttribute, Node: entry, Name: name, Valid: true})
}

func (w *walker) emit(c Candidate) Signal {
	if c.Node != syntax.NoNode && c.Node == w.req.From {
		return Continue
	}
	key := candidateKey{kind: c.Kind, node: c.Node, module: c.Module, name: c.Name, arities: c.Arities}
	if w.seen[key] {
		return Continue
	}
	w.seen[key] = true
	return w.keep(c)
}

func (w *walker) arityOK(iv call.ArityInterval) bool {
	return w.req.Arity < 0 || iv.Contains(w.req.Arity)
}

func (w *walker) diag(code diagnostics.ErrorCode, id syntax.NodeID, msg string) {
	sp := w.resolver.tree.Span(id)
	span := diagnostics.Span{
		Line:   sp.StartLine,
		Column: sp.StartCol,
		Text:   w.resolver.tree.Text(id),
	}
	*w.diags = append(*w.diags, diagnostics.NewError(code, span, msg))
}

// containedChildIndex returns the index of block's child whose subtree
// contains id, or the child count when no child does.
func containedChildIndex(t *syntax.Tree, block, id syntax.NodeID) int {
	for p := id; p != syntax.NoNode; p = t.Parent(p) {
		if t.Parent(p) == block {
			return t.ChildIndex(block, p)
		}
	}
	return t.ChildCount(block)
}
