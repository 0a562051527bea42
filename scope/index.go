package scope

import (
	"github.com/exalt-dev/exalt/call"
	"github.com/exalt-dev/exalt/modindex"
	"github.com/exalt-dev/exalt/syntax"
)

// IndexedModule is one defmodule extracted from a tree, in the shape the
// module table stores.
type IndexedModule struct {
	Module  modindex.Module
	Imports []modindex.Import
	Aliases []modindex.Alias
}

// IndexTree extracts every defmodule of the tree, nested ones included,
// with its definition clauses, import directives and alias directives. This
// is the bookkeeping side of the module table: the index command and test
// fixtures feed its output into a modindex backend, which resolvers then
// query read-only.
func IndexTree(t *syntax.Tree, file string) []IndexedModule {
	var out []IndexedModule
	t.Walk(t.Root(), func(id syntax.NodeID) syntax.WalkSignal {
		if !isDefmodule(t, id) {
			return syntax.Continue
		}
		out = append(out, indexModule(t, id, file))
		return syntax.Continue
	})
	return out
}

func indexModule(t *syntax.Tree, def syntax.NodeID, file string) IndexedModule {
	im := IndexedModule{Module: modindex.Module{Name: moduleName(t, def), File: file}}
	do := t.FirstChildOfKind(def, syntax.KindDoBlock)
	if do == syntax.NoNode {
		return im
	}
	for _, entry := range bodyEntries(t, do) {
		// Nested defmodules index separately; their definitions do not
		// belong to the parent module.
		if isDefmodule(t, entry) {
			continue
		}
		if cl, ok := call.ClauseAt(t, entry); ok {
			im.Module.Functions = mergeFunction(im.Module.Functions, modindex.Function{
				Name:    cl.Name,
				Arities: cl.Arities,
				Macro:   cl.Macro,
			})
			continue
		}
		if imp, ok := readImport(t, entry); ok {
			im.Imports = append(im.Imports, imp)
			continue
		}
		if al, ok := readAlias(t, entry); ok {
			im.Aliases = append(im.Aliases, al)
		}
	}
	return im
}

// mergeFunction widens an existing row's interval when another clause of
// the same function shows up, so a multi-clause function stays one table
// row. Clauses whose intervals don't touch are different functions of the
// same name (foo/1 next to foo/3) and keep separate rows.
func mergeFunction(fns []modindex.Function, fn modindex.Function) []modindex.Function {
	for i := range fns {
		if fns[i].Name != fn.Name || fns[i].Macro != fn.Macro {
			continue
		}
		if fn.Arities.Primary > fns[i].Arities.Secondary+1 ||
			fns[i].Arities.Primary > fn.Arities.Secondary+1 {
			continue
		}
		if fn.Arities.Primary < fns[i].Arities.Primary {
			fns[i].Arities.Primary = fn.Arities.Primary
		}
		if fn.Arities.Secondary > fns[i].Arities.Secondary {
			fns[i].Arities.Secondary = fn.Arities.Secondary
		}
		return fns
	}
	return append(fns, fn)
}
