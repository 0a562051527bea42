// Package exalt is a compiler frontend core for Elixir sources: it parses
// files into immutable syntax trees, quotes them into the same term shapes
// Elixir's own quoter produces, and resolves identifiers through lexical
// scopes backed by a module index.
//
// The subpackages are usable on their own; this package is the assembled
// pipeline. A typical session:
//
//	eng := exalt.New(exalt.WithTable(table))
//	src, err := eng.Load(ctx, "lib/demo.ex", bytes)
//	quoted, diags, err := src.Quote()
//	res := eng.Resolver(src)
//
// Trees are snapshots. Editing a file means loading a new Source; nothing
// derived from the old one is reused.
package exalt
