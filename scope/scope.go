// Package scope resolves identifiers and call sites against lexical and
// module scope. A Resolver pairs one immutable syntax tree with one module
// table snapshot and walks the scope chain outward from the request node:
// enclosing blocks, clause parameters, the module body, import and alias
// directives, finally the table itself. Candidates stream through an
// explicit continuation so callers choose their own policy; an empty result
// is a normal outcome, not an error.
package scope

import (
	"github.com/exalt-dev/exalt/call"
	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/modindex"
	"github.com/exalt-dev/exalt/syntax"
)

// Signal steers the resolution walk from the consumer's side.
type Signal int

const (
	// Continue keeps the walk going.
	Continue Signal = iota
	// Stop ends the walk, or prunes the current branch during unquote
	// following. First-match-wins consumers return it after one keep.
	Stop
)

// State names the phases a resolution request moves through.
type State uint8

const (
	// Seed is the initial state: the request node's name and arity are
	// being read.
	Seed State = iota
	// WalkingScope is the outward scope-chain walk.
	WalkingScope
	// Resolved means at least one candidate was found.
	Resolved
	// Exhausted means the walk finished without candidates.
	Exhausted
)

var stateNames = [...]string{
	Seed:         "Seed",
	WalkingScope: "WalkingScope",
	Resolved:     "Resolved",
	Exhausted:    "Exhausted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// CandidateKind says what sort of definition a candidate points at.
type CandidateKind uint8

const (
	// CandidateBinding is a pattern binding: a clause parameter, a match
	// left-hand side variable or a generator binding.
	CandidateBinding CandidateKind = iota
	// CandidateClause is a def/defp/defmacro/defmacrop/defguard/defguardp
	// clause in the resolver's tree.
	CandidateClause
	// CandidateAttribute is a module attribute definition.
	CandidateAttribute
	// CandidateFunction is a function row from the module table; the
	// definition lives in another compilation unit.
	CandidateFunction
	// CandidateModule is a module resolved for an alias.
	CandidateModule
)

var candidateKindNames = [...]string{
	CandidateBinding:   "Binding",
	CandidateClause:    "Clause",
	CandidateAttribute: "Attribute",
	CandidateFunction:  "Function",
	CandidateModule:    "Module",
}

func (k CandidateKind) String() string {
	if int(k) < len(candidateKindNames) {
		return candidateKindNames[k]
	}
	return "Unknown"
}

// Candidate is one resolution hit.
type Candidate struct {
	Kind CandidateKind
	// Node is the defining node, NoNode for table hits.
	Node syntax.NodeID
	// Module is the owning module for table and clause hits and the
	// resolution target for module candidates. Empty for bindings and for
	// clauses outside any defmodule.
	Module string
	// Name is the matched name.
	Name string
	// Arities is the accepted argument-count range of clause and function
	// candidates; zero elsewhere.
	Arities call.ArityInterval
	// Macro reports a macro definition.
	Macro bool
	// Valid is false when the deeper structural check failed, e.g. a def
	// whose head yields no usable name. Callers filter on it.
	Valid bool
}

// Request describes one resolution.
type Request struct {
	// From is the identifier, alias or call node resolution starts at.
	From syntax.NodeID
	// Name overrides the name read from the node. Usually left empty.
	Name string
	// Arity filters clause and function candidates by interval
	// containment. Negative means any arity; NewRequest fills it from the
	// call site when From is one.
	Arity int
}

// Result is a finished resolution.
type Result struct {
	State      State
	Candidates []Candidate
	// Diagnostics are the recoverable problems the walk noticed, such as a
	// module missing from the table. They never make the result an error.
	Diagnostics []*diagnostics.DiagnosticError
}

// Resolver resolves requests against one tree and one table snapshot. It
// holds no other state, so concurrent Resolve calls are safe.
type Resolver struct {
	tree  *syntax.Tree
	table modindex.Table
}

// NewResolver pairs a tree with a module table. The table may be nil, which
// behaves like an empty one.
func NewResolver(tree *syntax.Tree, table modindex.Table) *Resolver {
	if table == nil {
		table = modindex.NewMemTable()
	}
	return &Resolver{tree: tree, table: table}
}

// Tree returns the resolver's syntax tree.
func (r *Resolver) Tree() *syntax.Tree { return r.tree }

// Table returns the resolver's module table snapshot.
func (r *Resolver) Table() modindex.Table { return r.table }

// NewRequest seeds a request from the node: call sites contribute their
// name and final arity, identifiers and aliases their text. An unquote
// splice stays nameless, because its reference is the inner call's, never
// the literal word unquote.
func (r *Resolver) NewRequest(from syntax.NodeID) Request {
	req := Request{From: from, Arity: -1}
	t := r.tree
	if inner := call.UnquoteArgument(t, from); inner != syntax.NoNode && t.Kind(inner).IsCall() {
		return req
	}
	switch t.Kind(from) {
	case syntax.KindIdentifier:
		req.Name = t.Text(from)
	case syntax.KindAlias:
		req.Name = t.Text(from)
	case syntax.KindAtOperation:
		req.Name = attributeName(t, from)
	default:
		if site, ok := call.SiteAt(t, from); ok {
			req.Name = site.Function
			req.Arity = site.FinalArity()
		}
	}
	return req
}

// Resolve runs the request to completion and collects every candidate.
func (r *Resolver) Resolve(req Request) Result {
	var out []Candidate
	diags := r.ResolveEach(req, func(c Candidate) Signal {
		out = append(out, c)
		return Continue
	})
	state := Resolved
	if len(out) == 0 {
		state = Exhausted
	}
	return Result{State: state, Candidates: out, Diagnostics: diags}
}

// ResolveEach streams candidates to keep in nearest-first order and returns
// the diagnostics the walk produced. Returning Stop ends the walk
// immediately, which makes first-match-wins consumers a one-liner without
// the engine knowing their policy.
func (r *Resolver) ResolveEach(req Request, keep func(Candidate) Signal) []*diagnostics.DiagnosticError {
	var diags []*diagnostics.DiagnosticError
	w := &walker{
		resolver: r,
		req:      req,
		keep:     keep,
		seen:     make(map[candidateKey]bool),
		followed: make(map[syntax.NodeID]bool),
		diags:    &diags,
	}
	w.run()
	return diags
}

// seedName fills Name and Arity from the request node.
func (r *Resolver) seedName(req Request) Request {
	seeded := r.NewRequest(req.From)
	if req.Arity >= 0 {
		seeded.Arity = req.Arity
	}
	return seeded
}

// attributeName renders @attr usages and definitions under one name.
func attributeName(t *syntax.Tree, id syntax.NodeID) string {
	kids := t.Children(id)
	if len(kids) != 2 || t.Text(kids[0]) != "@" {
		return ""
	}
	operand := kids[1]
	switch t.Kind(operand) {
	case syntax.KindIdentifier:
		return "@" + t.Text(operand)
	case syntax.KindCallNoParentheses, syntax.KindCallParenthesized:
		name := t.Child(operand, 0)
		if t.Kind(name) == syntax.KindIdentifier {
			return "@" + t.Text(name)
		}
	}
	return ""
}
