package exalt

import (
	"context"
	"fmt"

	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/modindex"
	"github.com/exalt-dev/exalt/quoting"
	"github.com/exalt-dev/exalt/scope"
	"github.com/exalt-dev/exalt/sitter"
	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

// Engine ties the pipeline together: parse source into a syntax tree, quote
// subtrees into terms, resolve references against the configured module
// table. The Engine itself holds no per-source state; everything derived
// from one parse lives on its Source and dies with it, which is what keeps
// memoized results from outliving their tree snapshot.
type Engine struct {
	table modindex.Table
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable supplies the module/import/alias table snapshot resolvers
// consult after the lexical chain. Without it resolution sees an empty
// table, which is valid: table misses are diagnostics, not errors.
func WithTable(table modindex.Table) Option {
	return func(e *Engine) { e.table = table }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.table == nil {
		e.table = modindex.NewMemTable()
	}
	return e
}

// Table returns the engine's module table snapshot.
func (e *Engine) Table() modindex.Table { return e.table }

// Source is one loaded source file: the immutable tree plus the
// diagnostics parsing produced.
type Source struct {
	File string
	Tree *syntax.Tree
	// Diagnostics are the parse-time problems; quoting adds its own.
	Diagnostics []*diagnostics.DiagnosticError

	src []byte

	// Root quote memo. Valid for this Source's lifetime only, so a new
	// tree snapshot (a new Source) starts clean.
	quoted      term.Term
	quoteDiags  []*diagnostics.DiagnosticError
	quoteErr    error
	quoteCached bool
}

// Load parses src into a Source. Syntax errors do not fail the load; they
// come back as diagnostics on the Source and the healthy subtrees are
// kept.
func (e *Engine) Load(ctx context.Context, file string, src []byte) (*Source, error) {
	tree, diags, err := sitter.Parse(ctx, file, src)
	if err != nil {
		return nil, fmt.Errorf("exalt: parse %s: %w", file, err)
	}
	return &Source{File: file, Tree: tree, Diagnostics: diags, src: src}, nil
}

// Quote returns the quoted term of the whole file. The result is memoized
// on the Source; a reparse produces a fresh Source and with it a fresh
// cache.
func (s *Source) Quote() (term.Term, []*diagnostics.DiagnosticError, error) {
	if !s.quoteCached {
		s.quoted, s.quoteDiags, s.quoteErr = s.QuoteAt(s.Tree.Root())
		s.quoteCached = true
	}
	return s.quoted, s.quoteDiags, s.quoteErr
}

// QuoteAt quotes the subtree rooted at id under a fresh quoting context.
func (s *Source) QuoteAt(id syntax.NodeID) (term.Term, []*diagnostics.DiagnosticError, error) {
	c := quoting.NewContext(s.Tree)
	c.File = s.File
	t, err := c.Quote(id)
	return t, c.Errors, err
}

// Resolver pairs the source's tree with the engine's table.
func (e *Engine) Resolver(s *Source) *scope.Resolver {
	return scope.NewResolver(s.Tree, e.table)
}

// Modules extracts the source's defmodule entries in module-table shape,
// the feed for the index command and for programmatic table building.
func (s *Source) Modules() []scope.IndexedModule {
	return scope.IndexTree(s.Tree, s.File)
}

// NodeAt returns the innermost node covering the 1-based line and column,
// or syntax.NoNode when the position misses every node.
func (s *Source) NodeAt(line, col int) syntax.NodeID {
	off := s.offsetOf(line, col)
	if off < 0 {
		return syntax.NoNode
	}
	t := s.Tree
	best := syntax.NoNode
	t.Walk(t.Root(), func(id syntax.NodeID) syntax.WalkSignal {
		sp := t.Span(id)
		if off < sp.StartByte || off >= sp.EndByte {
			return syntax.SkipChildren
		}
		best = id
		return syntax.Continue
	})
	return best
}

// offsetOf converts a 1-based line/column position to a byte offset.
func (s *Source) offsetOf(line, col int) int {
	if line < 1 || col < 1 {
		return -1
	}
	cur := 1
	for i := 0; i < len(s.src); i++ {
		if cur == line {
			off := i + col - 1
			if off >= len(s.src) {
				return -1
			}
			return off
		}
		if s.src[i] == '\n' {
			cur++
		}
	}
	return -1
}
