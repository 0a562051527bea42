package scope

import "github.com/exalt-dev/exalt/term"

// Annotate stamps resolution identity onto quoted-call metadata: a table
// function hit records its providing module under the import key, a local
// definition clause records its defining module under the context key.
// Bindings, attributes and module candidates leave the metadata untouched,
// as do clauses outside any defmodule.
func Annotate(meta term.Metadata, c Candidate) term.Metadata {
	if c.Module == "" {
		return meta
	}
	switch c.Kind {
	case CandidateFunction:
		return meta.With("import", term.Atom(c.Module))
	case CandidateClause:
		return meta.With("context", term.Atom(c.Module))
	}
	return meta
}
