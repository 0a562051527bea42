package scope

import (
	"testing"

	"github.com/exalt-dev/exalt/syntax"
	"github.com/exalt-dev/exalt/term"
)

func expectMetaKey(t *testing.T, m term.Metadata, key string, want term.Term) {
	t.Helper()
	got, ok := m.Get(key)
	if !ok {
		t.Fatalf("metadata %v has no %s key", m.Term(), key)
	}
	if !term.Equal(got, want) {
		t.Errorf("%s = %s, want %s", key, term.Inspect(got), term.Inspect(want))
	}
}

func TestAnnotateClauseAddsContext(t *testing.T) {
	var use syntax.NodeID
	tree := build(t, func(b *syntax.Builder) []syntax.NodeID {
		def := defFun(b, "def", callOf(b, "helper"), num(b, "1"))
		use = callOf(b, "helper")
		caller := defFun(b, "def", callOf(b, "run"), use)
		return []syntax.NodeID{moduleOf(b, "Sample", def, caller)}
	})

	res := resolveAt(t, tree, nil, use)
	if len(res.Candidates) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(res.Candidates), res.Candidates)
	}
	if res.Candidates[0].Module != "Elixir.Sample" {
		t.Fatalf("clause candidate module = %q, want Elixir.Sample", res.Candidates[0].Module)
	}

	m := Annotate(term.Meta(3), res.Candidates[0])
	expectMetaKey(t, m, "context", term.Atom("Elixir.Sample"))
	if _, ok := m.Get("import"); ok {
		t.Error("clause candidate must not carry an import key")
	}
}

func TestAnnotateFunctionAddsImport(t *testing.T) {
	c := Candidate{Kind: CandidateFunction, Module: "Elixir.Enum", Name: "map"}
	m := Annotate(term.Meta(1), c)
	expectMetaKey(t, m, "import", term.Atom("Elixir.Enum"))
	expectMetaKey(t, m, "line", term.Integer(1))
}

func TestAnnotateBindingLeavesMetadataAlone(t *testing.T) {
	c := Candidate{Kind: CandidateBinding, Name: "x"}
	m := Annotate(term.Meta(1), c)
	if got := len(m.Pairs()); got != 1 {
		t.Fatalf("binding annotation grew metadata to %d pairs", got)
	}
}
