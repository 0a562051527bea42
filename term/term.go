// Package term models quoted Elixir terms: the values the quoting engine
// produces and downstream consumers compare, render and export. Calls and
// operators are not special types; they are 3-tuples of target, metadata
// keyword list and argument list, exactly as in the Elixir AST.
package term

// Term is a quoted Elixir term.
type Term interface {
	isTerm()
	String() string
}

// Atom is an Elixir atom without the leading colon ("ok", "Elixir.Enum").
// Booleans and nil are the atoms "true", "false" and "nil".
type Atom string

// Integer is a 64-bit integer literal.
type Integer int64

// Float is a float literal.
type Float float64

// Binary is a UTF-8 string literal. Byte escapes may leave it holding
// arbitrary bytes, as in Elixir.
type Binary string

// List is a proper list.
type List []Term

// Tuple is an n-ary tuple.
type Tuple []Term

func (Atom) isTerm()    {}
func (Integer) isTerm() {}
func (Float) isTerm()   {}
func (Binary) isTerm()  {}
func (List) isTerm()    {}
func (Tuple) isTerm()   {}

func (a Atom) String() string    { return Inspect(a) }
func (i Integer) String() string { return Inspect(i) }
func (f Float) String() string   { return Inspect(f) }
func (b Binary) String() string  { return Inspect(b) }
func (l List) String() string    { return Inspect(l) }
func (t Tuple) String() string   { return Inspect(t) }

// Common atoms.
const (
	AtomNil   = Atom("nil")
	AtomTrue  = Atom("true")
	AtomFalse = Atom("false")
)

// Charlist converts a string to its list of integer code points, the quoted
// form of 'charlist' literals and sigil modifiers.
func Charlist(s string) List {
	out := make(List, 0, len(s))
	for _, r := range s {
		out = append(out, Integer(r))
	}
	return out
}

// Keyword builds one `key: value` pair.
func Keyword(key string, value Term) Tuple {
	return Tuple{Atom(key), value}
}

// NewCall builds the 3-tuple for a call or operator application. The target
// is an atom for plain calls and a dot tuple for qualified ones. A nil args
// slice is normalized to the empty list; use NewVar for the variable shape.
func NewCall(target Term, meta Metadata, args List) Tuple {
	if args == nil {
		args = List{}
	}
	return Tuple{target, meta.Term(), args}
}

// NewVar builds the variable reference shape {name, meta, nil}. The atom nil
// in the third slot is what distinguishes a bare variable from a zero-arity
// call.
func NewVar(name string, meta Metadata) Tuple {
	return Tuple{Atom(name), meta.Term(), AtomNil}
}

// AsCall destructures a 3-tuple into target, metadata pairs and arguments.
// ok is false when t is not call-shaped. For variable references args is nil
// and varRef is true.
func AsCall(t Term) (target Term, meta List, args List, varRef bool, ok bool) {
	tup, isTuple := t.(Tuple)
	if !isTuple || len(tup) != 3 {
		return nil, nil, nil, false, false
	}
	m, isList := tup[1].(List)
	if !isList {
		return nil, nil, nil, false, false
	}
	switch third := tup[2].(type) {
	case List:
		return tup[0], m, third, false, true
	case Atom:
		if third == AtomNil {
			return tup[0], m, nil, true, true
		}
	}
	return nil, nil, nil, false, false
}

// Equal compares two terms structurally.
func Equal(a, b Term) bool {
	switch av := a.(type) {
	case Atom:
		bv, ok := b.(Atom)
		return ok && av == bv
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Binary:
		bv, ok := b.(Binary)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}
