package scope

import (
	"fmt"
	"strings"

	"github.com/exalt-dev/exalt/call"
	"github.com/exalt-dev/exalt/diagnostics"
	"github.com/exalt-dev/exalt/modindex"
	"github.com/exalt-dev/exalt/operator"
	"github.com/exalt-dev/exalt/syntax"
)

// resolveQualified resolves Mod.fun sites. Alias directives expand the
// qualifier first; clauses of a defmodule in the same tree come before the
// table's rows for the module.
func (w *walker) resolveQualified(site call.Site) Signal {
	module := w.expandAlias(site.Module)
	found := false
	if def := w.moduleDefinition(module); def != syntax.NoNode {
		found = true
		if w.scanModuleBody(def) == Stop {
			return Stop
		}
	}
	if _, ok := w.resolver.table.Module(module); ok {
		found = true
		if w.emitModuleFunctions(module) == Stop {
			return Stop
		}
	}
	if !found {
		w.diag(diagnostics.ErrR001, site.Node, fmt.Sprintf("module %s is not indexed", module))
	}
	return Continue
}

// resolveAlias resolves an alias usage to the module it names.
func (w *walker) resolveAlias() Signal {
	t := w.resolver.tree
	module := w.expandAlias("Elixir." + t.Text(w.req.From))
	found := false
	if def := w.moduleDefinition(module); def != syntax.NoNode {
		found = true
		if w.emit(Candidate{Kind: CandidateModule, Node: def, Module: module, Name: w.req.Name, Valid: true}) == Stop {
			return Stop
		}
	}
	if _, ok := w.resolver.table.Module(module); ok {
		found = true
		if w.emit(Candidate{Kind: CandidateModule, Node: syntax.NoNode, Module: module, Name: w.req.Name, Valid: true}) == Stop {
			return Stop
		}
	}
	if !found {
		w.diag(diagnostics.ErrR001, w.req.From, fmt.Sprintf("module %s is not indexed", module))
	}
	return Continue
}

// scanModuleBody emits the matching definition clauses of a defmodule in
// the resolver's tree, following unquote splices between them.
func (w *walker) scanModuleBody(def syntax.NodeID) Signal {
	t := w.resolver.tree
	do := t.FirstChildOfKind(def, syntax.KindDoBlock)
	if do == syntax.NoNode {
		return Continue
	}
	for _, entry := range bodyEntries(t, do) {
		if w.scanDeclaration(entry) == Stop {
			return Stop
		}
	}
	return Continue
}

// tableLevels consults the module table once the lexical chain is spent:
// import directives gathered on the way out, innermost first, then the
// imports the table records for the enclosing module, then the implicit
// Kernel and Kernel.SpecialForms imports every scope carries.
func (w *walker) tableLevels() Signal {
	for _, imp := range w.imports {
		if w.emitImported(imp) == Stop {
			return Stop
		}
	}
	if enclosing := w.enclosingModule(); enclosing != "" {
		for _, imp := range w.resolver.table.ImportsOf(enclosing) {
			if w.emitImported(imp) == Stop {
				return Stop
			}
		}
	}
	if w.emitModuleFunctions(call.Kernel) == Stop {
		return Stop
	}
	return w.emitModuleFunctions(call.KernelSpecialForms)
}

func (w *walker) emitImported(imp modindex.Import) Signal {
	if !imp.Allows(w.req.Name, w.req.Arity) {
		return Continue
	}
	return w.emitModuleFunctions(w.expandAlias(imp.Module))
}

func (w *walker) emitModuleFunctions(module string) Signal {
	for _, fn := range w.resolver.table.Functions(module) {
		if fn.Name != w.req.Name || !w.arityOK(fn.Arities) {
			continue
		}
		c := Candidate{
			Kind:    CandidateFunction,
			Node:    syntax.NoNode,
			Module:  module,
			Name:    fn.Name,
			Arities: fn.Arities,
			Macro:   fn.Macro,
			Valid:   true,
		}
		if w.emit(c) == Stop {
			return Stop
		}
	}
	return Continue
}

// expandAlias rewrites the leading segment of a module name through the
// alias directives in scope, then the aliases the table records for the
// enclosing module. Erlang atom modules pass through untouched.
func (w *walker) expandAlias(module string) string {
	rest, ok := strings.CutPrefix(module, "Elixir.")
	if !ok {
		return module
	}
	head, tail, _ := strings.Cut(rest, ".")
	target, ok := w.lookupAlias(head)
	if !ok {
		return module
	}
	if tail == "" {
		return target
	}
	return target + "." + tail
}

// lookupAlias finds the alias directive binding name, innermost lexical
// scope first, falling back to the table's aliases for the enclosing
// module.
func (w *walker) lookupAlias(name string) (string, bool) {
	t := w.resolver.tree
	for p := t.Parent(w.req.From); p != syntax.NoNode; p = t.Parent(p) {
		if k := t.Kind(p); k != syntax.KindBlock && k != syntax.KindSource {
			continue
		}
		kids := t.Children(p)
		limit := containedChildIndex(t, p, w.req.From)
		for i := limit - 1; i >= 0; i-- {
			al, ok := readAlias(t, kids[i])
			if ok && al.Name == name {
				return al.Target, true
			}
		}
	}
	for _, al := range w.resolver.table.AliasesOf(w.enclosingModule()) {
		if al.Name == name {
			return al.Target, true
		}
	}
	return "", false
}

// enclosingModule returns the full name of the nearest defmodule wrapping
// the request, or empty at file level.
func (w *walker) enclosingModule() string {
	return owningModule(w.resolver.tree, w.req.From)
}

// owningModule names the defmodule enclosing id, empty at top level.
func owningModule(t *syntax.Tree, id syntax.NodeID) string {
	for p := t.Parent(id); p != syntax.NoNode; p = t.Parent(p) {
		if isDefmodule(t, p) {
			return moduleName(t, p)
		}
	}
	return ""
}

// moduleDefinition finds the defmodule in the resolver's tree whose full
// name is module, NoNode when the module is not defined here.
func (w *walker) moduleDefinition(module string) syntax.NodeID {
	t := w.resolver.tree
	found := syntax.NoNode
	t.Walk(t.Root(), func(id syntax.NodeID) syntax.WalkSignal {
		if isDefmodule(t, id) && moduleName(t, id) == module {
			found = id
			return syntax.Stop
		}
		return syntax.Continue
	})
	return found
}

// moduleName builds the full name of the defmodule at def, prefixing the
// segments of every enclosing defmodule.
func moduleName(t *syntax.Tree, def syntax.NodeID) string {
	var segs []string
	for p := def; p != syntax.NoNode; p = t.Parent(p) {
		if !isDefmodule(t, p) {
			continue
		}
		if alias := firstAliasArgument(t, p); alias != syntax.NoNode {
			segs = append(segs, t.Text(alias))
		}
	}
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Elixir")
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteByte('.')
		b.WriteString(segs[i])
	}
	return b.String()
}

func isDefmodule(t *syntax.Tree, id syntax.NodeID) bool {
	return isDirective(t, id, "defmodule") && firstAliasArgument(t, id) != syntax.NoNode
}

// isDirective reports a call of the named Kernel directive macro.
func isDirective(t *syntax.Tree, id syntax.NodeID, name string) bool {
	if !t.Kind(id).IsCall() {
		return false
	}
	head := t.Child(id, 0)
	return t.Kind(head) == syntax.KindIdentifier && t.Text(head) == name
}

func firstAliasArgument(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	args := t.FirstChildOfKind(id, syntax.KindArguments)
	if args == syntax.NoNode || t.ChildCount(args) == 0 {
		return syntax.NoNode
	}
	first := t.Child(args, 0)
	if t.Kind(first) != syntax.KindAlias {
		return syntax.NoNode
	}
	return first
}

// readImport reads an import directive entry. The only: and except: options
// reuse the table's filter shape; multi-alias targets and the :functions
// and :macros atom filters are not modeled, an import carrying them applies
// unfiltered.
func readImport(t *syntax.Tree, entry syntax.NodeID) (modindex.Import, bool) {
	if !isDirective(t, entry, "import") {
		return modindex.Import{}, false
	}
	args := t.FirstChildOfKind(entry, syntax.KindArguments)
	if args == syntax.NoNode || t.ChildCount(args) == 0 {
		return modindex.Import{}, false
	}
	var imp modindex.Import
	target := t.Child(args, 0)
	switch t.Kind(target) {
	case syntax.KindAlias:
		imp.Module = "Elixir." + t.Text(target)
	case syntax.KindAtom:
		imp.Module = t.Text(target)
	default:
		return modindex.Import{}, false
	}
	if kw := t.FirstChildOfKind(args, syntax.KindKeywordList); kw != syntax.NoNode {
		for _, pair := range t.ChildrenOfKind(kw, syntax.KindKeywordPair) {
			key := t.FirstChildOfKind(pair, syntax.KindKeywordKey)
			if key == syntax.NoNode {
				continue
			}
			switch t.Text(key) {
			case "only":
				imp.Only = readNameArities(t, t.Child(pair, 1))
			case "except":
				imp.Except = readNameArities(t, t.Child(pair, 1))
			}
		}
	}
	return imp, true
}

// readAlias reads `alias Mod.Sub` and `alias Mod.Sub, as: Name` entries.
func readAlias(t *syntax.Tree, entry syntax.NodeID) (modindex.Alias, bool) {
	if !isDirective(t, entry, "alias") {
		return modindex.Alias{}, false
	}
	target := firstAliasArgument(t, entry)
	if target == syntax.NoNode {
		return modindex.Alias{}, false
	}
	full := "Elixir." + t.Text(target)
	name := t.Text(target)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	args := t.FirstChildOfKind(entry, syntax.KindArguments)
	if kw := t.FirstChildOfKind(args, syntax.KindKeywordList); kw != syntax.NoNode {
		for _, pair := range t.ChildrenOfKind(kw, syntax.KindKeywordPair) {
			key := t.FirstChildOfKind(pair, syntax.KindKeywordKey)
			if key == syntax.NoNode || t.Text(key) != "as" {
				continue
			}
			if as := t.Child(pair, 1); t.Kind(as) == syntax.KindAlias {
				name = t.Text(as)
			}
		}
	}
	return modindex.Alias{Name: name, Target: full}, true
}

// readNameArities reads a [name: arity, ...] filter list.
func readNameArities(t *syntax.Tree, list syntax.NodeID) []modindex.NameArity {
	if t.Kind(list) != syntax.KindList {
		return nil
	}
	var out []modindex.NameArity
	for _, pair := range t.ChildrenOfKind(list, syntax.KindKeywordPair) {
		key := t.FirstChildOfKind(pair, syntax.KindKeywordKey)
		val := t.Child(pair, 1)
		if key == syntax.NoNode || t.Kind(val) != syntax.KindInteger {
			continue
		}
		n, err := operator.ParseInteger(t.Text(val))
		if err != nil || n < 0 {
			continue
		}
		out = append(out, modindex.NameArity{Name: t.Text(key), Arity: uint32(n)})
	}
	return out
}
