package syntax

import "testing"

// buildArith returns a tree for `1 + 2` built by hand.
func buildArith(t *testing.T) (*Tree, NodeID) {
	t.Helper()
	b := NewBuilder()
	one := b.Leaf(KindInteger, "1", At(1, 1))
	op := b.Leaf(KindOperator, "+", At(1, 3))
	two := b.Leaf(KindInteger, "2", At(1, 5))
	sum := b.Node(KindUnmatchedOperation, At(1, 1), op, one, two)
	root := b.Node(KindSource, At(1, 1), sum)
	tree, err := b.Build(root)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tree, sum
}

// ============================================================
// Builder
// ============================================================

func TestBuilderAssemblesTree(t *testing.T) {
	tree, sum := buildArith(t)

	if tree.Kind(tree.Root()) != KindSource {
		t.Errorf("root kind = %v, want Source", tree.Kind(tree.Root()))
	}
	if tree.Len() != 5 {
		t.Errorf("len = %d, want 5", tree.Len())
	}
	if got := tree.ChildCount(sum); got != 3 {
		t.Errorf("operation child count = %d, want 3", got)
	}
	if got := tree.Text(tree.Child(sum, 0)); got != "+" {
		t.Errorf("operator text = %q, want +", got)
	}
}

func TestBuilderRejectsDoubleAdoption(t *testing.T) {
	b := NewBuilder()
	leaf := b.Leaf(KindInteger, "1", At(1, 1))
	b.Node(KindList, At(1, 1), leaf)
	b.Node(KindTuple, At(1, 1), leaf)
	root := b.Node(KindSource, At(1, 1))
	if _, err := b.Build(root); err == nil {
		t.Fatal("expected error for adopting the same child twice")
	}
}

func TestBuilderRejectsOrphans(t *testing.T) {
	b := NewBuilder()
	b.Leaf(KindInteger, "1", At(1, 1))
	root := b.Leaf(KindSource, "", At(1, 1))
	if _, err := b.Build(root); err == nil {
		t.Fatal("expected error for an orphan node")
	}
}

func TestBuildAssignsSnapshotIDs(t *testing.T) {
	a, _ := buildArith(t)
	b, _ := buildArith(t)
	if a.SnapshotID() == "" {
		t.Fatal("empty snapshot id")
	}
	if a.SnapshotID() == b.SnapshotID() {
		t.Fatal("two trees share a snapshot id")
	}
}

// ============================================================
// Navigation
// ============================================================

func TestParentNavigation(t *testing.T) {
	tree, sum := buildArith(t)

	if got := tree.Parent(tree.Root()); got != NoNode {
		t.Errorf("root parent = %d, want NoNode", got)
	}
	one := tree.Child(sum, 1)
	if got := tree.Parent(one); got != sum {
		t.Errorf("leaf parent = %d, want %d", got, sum)
	}
	if got := tree.AncestorOfKind(one, KindSource); got != tree.Root() {
		t.Errorf("AncestorOfKind = %d, want root", got)
	}
	if got := tree.ChildIndex(sum, one); got != 1 {
		t.Errorf("ChildIndex = %d, want 1", got)
	}
}

func TestLookupsOnInvalidIDs(t *testing.T) {
	tree, _ := buildArith(t)

	if tree.Kind(NoNode) != KindInvalid {
		t.Error("Kind(NoNode) should be KindInvalid")
	}
	if tree.Parent(NodeID(99)) != NoNode {
		t.Error("Parent of out-of-range id should be NoNode")
	}
	if tree.Child(tree.Root(), 5) != NoNode {
		t.Error("Child out of range should be NoNode")
	}
}

// ============================================================
// Walk
// ============================================================

func TestWalkDocumentOrder(t *testing.T) {
	tree, _ := buildArith(t)

	var kinds []NodeKind
	tree.Walk(tree.Root(), func(id NodeID) WalkSignal {
		kinds = append(kinds, tree.Kind(id))
		return Continue
	})
	want := []NodeKind{KindSource, KindUnmatchedOperation, KindOperator, KindInteger, KindInteger}
	if len(kinds) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestWalkSkipChildren(t *testing.T) {
	tree, _ := buildArith(t)

	count := 0
	tree.Walk(tree.Root(), func(id NodeID) WalkSignal {
		count++
		if tree.Kind(id) == KindUnmatchedOperation {
			return SkipChildren
		}
		return Continue
	})
	if count != 2 {
		t.Errorf("visited %d nodes, want 2 (source + operation)", count)
	}
}

func TestWalkStop(t *testing.T) {
	tree, _ := buildArith(t)

	count := 0
	tree.Walk(tree.Root(), func(id NodeID) WalkSignal {
		count++
		return Stop
	})
	if count != 1 {
		t.Errorf("visited %d nodes, want 1", count)
	}
}
