package term

// Metadata is the ordered annotation list attached to quoted calls. Order
// is significant for bit-exact comparison with the reference AST, so it is
// a pair slice rather than a map. Values are copy-on-write: With returns a
// new Metadata and never aliases the receiver's backing array.
type Metadata struct {
	pairs []Pair
}

// Pair is one metadata entry.
type Pair struct {
	Key   string
	Value Term
}

// NewMeta returns empty metadata, for the rare shapes whose first key is not
// line (no_parens qualified references).
func NewMeta() Metadata { return Metadata{} }

// Meta returns metadata holding the line key.
func Meta(line int) Metadata {
	return Metadata{pairs: []Pair{{Key: "line", Value: Integer(line)}}}
}

// With returns a copy with key set. An existing key is replaced in place to
// keep its position; a new key is appended.
func (m Metadata) With(key string, value Term) Metadata {
	pairs := make([]Pair, len(m.pairs), len(m.pairs)+1)
	copy(pairs, m.pairs)
	for i := range pairs {
		if pairs[i].Key == key {
			pairs[i].Value = value
			return Metadata{pairs: pairs}
		}
	}
	return Metadata{pairs: append(pairs, Pair{Key: key, Value: value})}
}

// WithColumn returns a copy with the column key set.
func (m Metadata) WithColumn(col int) Metadata {
	return m.With("column", Integer(col))
}

// Get returns the value stored under key.
func (m Metadata) Get(key string) (Term, bool) {
	for _, p := range m.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Line returns the line key, or 0 when absent.
func (m Metadata) Line() int {
	v, ok := m.Get("line")
	if !ok {
		return 0
	}
	n, ok := v.(Integer)
	if !ok {
		return 0
	}
	return int(n)
}

// Pairs returns the entries in order. The slice is owned by the Metadata.
func (m Metadata) Pairs() []Pair { return m.pairs }

// Term renders the metadata as its keyword-list term.
func (m Metadata) Term() Term {
	out := make(List, 0, len(m.pairs))
	for _, p := range m.pairs {
		out = append(out, Tuple{Atom(p.Key), p.Value})
	}
	return out
}

// MetaFromList rebuilds Metadata from a keyword-list term, ignoring entries
// that are not {atom, value} pairs.
func MetaFromList(l List) Metadata {
	m := Metadata{pairs: make([]Pair, 0, len(l))}
	for _, e := range l {
		tup, ok := e.(Tuple)
		if !ok || len(tup) != 2 {
			continue
		}
		key, ok := tup[0].(Atom)
		if !ok {
			continue
		}
		m.pairs = append(m.pairs, Pair{Key: string(key), Value: tup[1]})
	}
	return m
}
