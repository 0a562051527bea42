package call

import "github.com/exalt-dev/exalt/syntax"

// Module names for the implicit imports every Elixir scope carries.
const (
	Kernel             = "Elixir.Kernel"
	KernelSpecialForms = "Elixir.Kernel.SpecialForms"
)

// Site describes one call site. Operators count as sites of their operator
// name, so `a |> f(b)` is simultaneously a site of |>/2 and, at the right
// operand, of f/2.
type Site struct {
	// Node is the call or operation node the site was read from.
	Node syntax.NodeID
	// Module is the resolved qualifier: "Elixir." plus the alias text for
	// alias qualifiers, the bare atom text for erlang modules. Empty for
	// unqualified calls and dynamic qualifiers; resolvers overwrite it
	// once alias directives have been applied.
	Module string
	// Function is the called function or operator name.
	Function string
	// Args counts the arguments spelled at the site. A keyword tail and a
	// do block each count once.
	Args int
	// Piped reports that the site is the right operand of |> and will
	// receive the piped value as an extra first argument.
	Piped bool
	// DoBlock reports a do block or a trailing `do:` keyword argument,
	// the shape macro invocations take.
	DoBlock bool
}

// SiteAt reads the call site at id. ok is false for nodes that are not
// named call sites, including anonymous fun.() invocations.
func SiteAt(t *syntax.Tree, id syntax.NodeID) (Site, bool) {
	s := Site{Node: id}
	switch t.Kind(id) {
	case syntax.KindCallNoParentheses, syntax.KindCallParenthesized:
		name := t.Child(id, 0)
		if t.Kind(name) != syntax.KindIdentifier && t.Kind(name) != syntax.KindOperator {
			return Site{}, false
		}
		s.Function = t.Text(name)

	case syntax.KindQualifiedCall, syntax.KindQualifiedNoArgumentsCall:
		kids := t.Children(id)
		if len(kids) < 2 || t.Kind(kids[1]) != syntax.KindRelativeIdentifier {
			return Site{}, false
		}
		s.Module = qualifierName(t, kids[0])
		s.Function = t.Text(kids[1])

	case syntax.KindAccessCall:
		// container[key] is sugar for Access.get(container, key).
		s.Module = "Elixir.Access"
		s.Function = "get"
		s.Args = 2
		s.Piped = piped(t, id)
		return s, true

	case syntax.KindMatchedOperation, syntax.KindUnmatchedOperation,
		syntax.KindUnaryOperation, syntax.KindAtOperation:
		kids := t.Children(id)
		if len(kids) < 2 || t.Kind(kids[0]) != syntax.KindOperator {
			return Site{}, false
		}
		s.Function = t.Text(kids[0])
		s.Args = len(kids) - 1
		s.Piped = piped(t, id)
		return s, true

	default:
		return Site{}, false
	}

	if args := t.FirstChildOfKind(id, syntax.KindArguments); args != syntax.NoNode {
		s.Args = t.ChildCount(args)
	}
	if t.FirstChildOfKind(id, syntax.KindDoBlock) != syntax.NoNode {
		s.Args++
		s.DoBlock = true
	} else if hasDoKeyword(t, id) {
		s.DoBlock = true
	}
	s.Piped = piped(t, id)
	return s, true
}

// FinalArity is the arity the site resolves against: the spelled argument
// count plus one for the piped value. No other normalization happens; the
// caller of IsCallingArity supplies the exact arity tested against it.
func (s Site) FinalArity() int {
	if s.Piped {
		return s.Args + 1
	}
	return s.Args
}

// FinalArityInterval is the single-point interval at FinalArity.
func (s Site) FinalArityInterval() ArityInterval {
	return NewArityInterval(uint32(s.FinalArity()))
}

// IsCalling reports whether the site names the given module and function at
// any arity.
func (s Site) IsCalling(module, function string) bool {
	return s.Module == module && s.Function == function
}

// IsCallingArity is IsCalling with an exact final-arity comparison.
func (s Site) IsCallingArity(module, function string, arity int) bool {
	return s.IsCalling(module, function) && s.FinalArity() == arity
}

// IsCallingMacro additionally requires the do shape macro invocations take.
func (s Site) IsCallingMacro(module, function string, arity int) bool {
	return s.IsCallingArity(module, function, arity) && s.DoBlock
}

// qualifierName renders a call qualifier as a module name. Aliases gain the
// Elixir prefix, atom qualifiers name erlang modules directly, anything
// else is dynamic and stays empty.
func qualifierName(t *syntax.Tree, id syntax.NodeID) string {
	switch t.Kind(id) {
	case syntax.KindAlias:
		return "Elixir." + t.Text(id)
	case syntax.KindAtom:
		return t.Text(id)
	}
	return ""
}

// piped reports whether id is the right operand of |>.
func piped(t *syntax.Tree, id syntax.NodeID) bool {
	p := t.Parent(id)
	if p == syntax.NoNode || !t.Kind(p).IsOperation() {
		return false
	}
	kids := t.Children(p)
	return len(kids) == 3 && t.Text(kids[0]) == "|>" && kids[2] == id
}

// hasDoKeyword reports a trailing keyword list carrying a `do:` key.
func hasDoKeyword(t *syntax.Tree, id syntax.NodeID) bool {
	args := t.FirstChildOfKind(id, syntax.KindArguments)
	n := t.ChildCount(args)
	if n == 0 {
		return false
	}
	last := t.Child(args, n-1)
	if t.Kind(last) != syntax.KindKeywordList {
		return false
	}
	for _, pair := range t.ChildrenOfKind(last, syntax.KindKeywordPair) {
		key := t.FirstChildOfKind(pair, syntax.KindKeywordKey)
		if key != syntax.NoNode && t.Text(key) == "do" {
			return true
		}
	}
	return false
}
