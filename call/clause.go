package call

import "github.com/exalt-dev/exalt/syntax"

// definers maps the Kernel definition macros to whether the clause they
// introduce defines a macro. Guards expand to macros, so defguard counts.
var definers = map[string]bool{
	"def":       false,
	"defp":      false,
	"defmacro":  true,
	"defmacrop": true,
	"defguard":  true,
	"defguardp": true,
}

// Clause is one definition clause reduced to what matching needs.
type Clause struct {
	// Node is the def/defp/defmacro/... call that introduces the clause.
	Node syntax.NodeID
	// Head is the name-bearing part of the clause head, when guards
	// stripped.
	Head syntax.NodeID
	// Name is the defined function or operator name.
	Name string
	// Arities is the argument-count range the head accepts.
	Arities ArityInterval
	// Macro reports a defmacro/defmacrop/defguard/defguardp clause.
	Macro bool
	// Dynamic reports a head whose name is spliced at expansion time, as
	// in def unquote(name)(a, b). Such clauses can define any name, so
	// ClauseAt reports no usable signature but still fills Arities.
	Dynamic bool
}

// IsDefinition reports whether id is a call to one of the Kernel definition
// macros, regardless of whether its head yields a usable signature.
func IsDefinition(t *syntax.Tree, id syntax.NodeID) bool {
	if !t.Kind(id).IsCall() {
		return false
	}
	name := t.Child(id, 0)
	if t.Kind(name) != syntax.KindIdentifier {
		return false
	}
	_, ok := definers[t.Text(name)]
	return ok
}

// ClauseAt reads the definition clause at id. ok is false when id is not a
// definition or its head yields no name; the returned Clause still carries
// Node and Macro in the latter case so callers can report the broken clause.
func ClauseAt(t *syntax.Tree, id syntax.NodeID) (Clause, bool) {
	cl := Clause{Node: id}
	if !t.Kind(id).IsCall() {
		return cl, false
	}
	definer := t.Child(id, 0)
	if t.Kind(definer) != syntax.KindIdentifier {
		return cl, false
	}
	macro, isDefiner := definers[t.Text(definer)]
	if !isDefiner {
		return cl, false
	}
	cl.Macro = macro

	args := t.FirstChildOfKind(id, syntax.KindArguments)
	if args == syntax.NoNode || t.ChildCount(args) == 0 {
		return cl, false
	}
	cl.Head = UnwrapGuards(t, t.Child(args, 0))

	name, iv, ok := headSignature(t, cl.Head)
	if !ok {
		cl.Arities, cl.Dynamic = dynamicSignature(t, cl.Head)
		return cl, false
	}
	cl.Name = name
	cl.Arities = iv
	return cl, true
}

// Body returns the clause's body: the do block, or the value of a trailing
// `do:` keyword for the short form. NoNode when the clause is bodiless.
func (cl Clause) Body(t *syntax.Tree) syntax.NodeID {
	if do := t.FirstChildOfKind(cl.Node, syntax.KindDoBlock); do != syntax.NoNode {
		return do
	}
	args := t.FirstChildOfKind(cl.Node, syntax.KindArguments)
	n := t.ChildCount(args)
	if n == 0 {
		return syntax.NoNode
	}
	last := t.Child(args, n-1)
	if t.Kind(last) != syntax.KindKeywordList {
		return syntax.NoNode
	}
	for _, pair := range t.ChildrenOfKind(last, syntax.KindKeywordPair) {
		key := t.FirstChildOfKind(pair, syntax.KindKeywordKey)
		if key != syntax.NoNode && t.Text(key) == "do" {
			return t.Child(pair, 1)
		}
	}
	return syntax.NoNode
}

// UnwrapGuards strips `when` wrappers from a clause head. Guards nest to the
// right, so the head proper is always the leftmost operand.
func UnwrapGuards(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	for {
		k := t.Kind(id)
		if k != syntax.KindMatchedOperation && k != syntax.KindUnmatchedOperation {
			return id
		}
		kids := t.Children(id)
		if len(kids) < 3 || t.Text(kids[0]) != "when" {
			return id
		}
		id = kids[1]
	}
}

// headSignature extracts the defined name and arity interval from a clause
// head with guards already stripped.
func headSignature(t *syntax.Tree, head syntax.NodeID) (string, ArityInterval, bool) {
	switch t.Kind(head) {
	case syntax.KindIdentifier:
		// Parameterless no-parens head: def started do ... end.
		return t.Text(head), ArityInterval{}, true

	case syntax.KindCallParenthesized, syntax.KindCallNoParentheses:
		name := t.Child(head, 0)
		if t.Kind(name) != syntax.KindIdentifier && t.Kind(name) != syntax.KindOperator {
			return "", ArityInterval{}, false
		}
		iv := paramsInterval(t, t.FirstChildOfKind(head, syntax.KindArguments))
		return t.Text(name), iv, true

	case syntax.KindMatchedOperation, syntax.KindUnmatchedOperation:
		// Operator definition head: def left <> right.
		kids := t.Children(head)
		if len(kids) < 3 || t.Kind(kids[0]) != syntax.KindOperator || t.Text(kids[0]) == "\\\\" {
			return "", ArityInterval{}, false
		}
		return t.Text(kids[0]), NewArityInterval(uint32(len(kids) - 1)), true

	case syntax.KindUnaryOperation:
		kids := t.Children(head)
		if len(kids) != 2 || t.Kind(kids[0]) != syntax.KindOperator {
			return "", ArityInterval{}, false
		}
		return t.Text(kids[0]), NewArityInterval(1), true
	}
	return "", ArityInterval{}, false
}

// dynamicSignature recognizes heads whose name is an unquote splice, in
// both the def unquote(name)(params) and the bare def unquote(name) shapes.
// The spliced name is unknowable without running the surrounding macro, but
// the parameter count is still visible.
func dynamicSignature(t *syntax.Tree, head syntax.NodeID) (ArityInterval, bool) {
	if IsUnquote(t, head) {
		return ArityInterval{}, true
	}
	if !t.Kind(head).IsCall() || !IsUnquote(t, t.Child(head, 0)) {
		return ArityInterval{}, false
	}
	return paramsInterval(t, t.FirstChildOfKind(head, syntax.KindArguments)), true
}

// IsUnquote reports a call of the literal word unquote with exactly one
// argument.
func IsUnquote(t *syntax.Tree, id syntax.NodeID) bool {
	if !t.Kind(id).IsCall() {
		return false
	}
	name := t.Child(id, 0)
	if t.Kind(name) != syntax.KindIdentifier || t.Text(name) != "unquote" {
		return false
	}
	args := t.FirstChildOfKind(id, syntax.KindArguments)
	return args != syntax.NoNode && t.ChildCount(args) == 1
}

// UnquoteArgument returns the single argument of an unquote call, or NoNode
// when id is not an unquote call.
func UnquoteArgument(t *syntax.Tree, id syntax.NodeID) syntax.NodeID {
	if !IsUnquote(t, id) {
		return syntax.NoNode
	}
	return t.Child(t.FirstChildOfKind(id, syntax.KindArguments), 0)
}

// paramsInterval folds a head's parameter list into its arity interval.
func paramsInterval(t *syntax.Tree, args syntax.NodeID) ArityInterval {
	var iv ArityInterval
	if args == syntax.NoNode {
		return iv
	}
	for _, p := range t.Children(args) {
		if isDefaultParam(t, p) {
			iv.Secondary++
			continue
		}
		iv.Primary++
		iv.Secondary++
	}
	return iv
}

// isDefaultParam reports a `name \\ default` parameter.
func isDefaultParam(t *syntax.Tree, id syntax.NodeID) bool {
	k := t.Kind(id)
	if k != syntax.KindMatchedOperation && k != syntax.KindUnmatchedOperation {
		return false
	}
	kids := t.Children(id)
	return len(kids) == 3 && t.Kind(kids[0]) == syntax.KindOperator && t.Text(kids[0]) == "\\\\"
}
