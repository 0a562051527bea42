// Package syntax defines the immutable syntax tree the engines operate on.
//
// The tree is an arena: nodes live in one slice, are addressed by NodeID,
// and store their parent as an id rather than a pointer, so upward
// navigation never keeps subtrees alive and the whole tree shares one
// allocation. Trees are built once through a Builder and never mutated;
// every tree carries a SnapshotID so caches keyed on it can be discarded
// wholesale when a new tree replaces it.
package syntax

import "github.com/google/uuid"

// NodeID indexes a node within its Tree. IDs are dense and children always
// have smaller ids than their parent (leaves-first construction), which
// makes bottom-up passes a simple forward scan.
type NodeID int32

// NoNode is the null id, used for the root's parent and failed lookups.
const NoNode NodeID = -1

type node struct {
	kind     NodeKind
	span     Span
	text     string
	parent   NodeID
	children []NodeID
}

// Tree is an immutable parsed source file.
type Tree struct {
	nodes      []node
	root       NodeID
	snapshotID string
}

// Root returns the id of the top node, conventionally a KindSource.
func (t *Tree) Root() NodeID { return t.root }

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// SnapshotID identifies this tree instance for memoization.
func (t *Tree) SnapshotID() string { return t.snapshotID }

// Valid reports whether id addresses a node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Kind returns the node's kind, or KindInvalid for out-of-range ids.
func (t *Tree) Kind(id NodeID) NodeKind {
	if !t.Valid(id) {
		return KindInvalid
	}
	return t.nodes[id].kind
}

// Span returns the node's source location.
func (t *Tree) Span(id NodeID) Span {
	if !t.Valid(id) {
		return Span{}
	}
	return t.nodes[id].span
}

// Text returns the raw source slice stored on leaf nodes. Composite nodes
// may store auxiliary text (a sigil's delimiter, an alias's dotted name).
func (t *Tree) Text(id NodeID) string {
	if !t.Valid(id) {
		return ""
	}
	return t.nodes[id].text
}

// Parent returns the parent id, or NoNode for the root and invalid ids.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.Valid(id) {
		return NoNode
	}
	return t.nodes[id].parent
}

// Children returns the node's children in source order. The slice is owned
// by the tree; callers must not modify it.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.Valid(id) {
		return nil
	}
	return t.nodes[id].children
}

// ChildCount returns the number of children.
func (t *Tree) ChildCount(id NodeID) int {
	if !t.Valid(id) {
		return 0
	}
	return len(t.nodes[id].children)
}

// Child returns the i-th child, or NoNode when out of range.
func (t *Tree) Child(id NodeID, i int) NodeID {
	if !t.Valid(id) || i < 0 || i >= len(t.nodes[id].children) {
		return NoNode
	}
	return t.nodes[id].children[i]
}

// FirstChildOfKind returns the first child with the given kind, or NoNode.
func (t *Tree) FirstChildOfKind(id NodeID, kind NodeKind) NodeID {
	for _, c := range t.Children(id) {
		if t.Kind(c) == kind {
			return c
		}
	}
	return NoNode
}

// ChildrenOfKind returns all children with the given kind, in order.
func (t *Tree) ChildrenOfKind(id NodeID, kind NodeKind) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.Kind(c) == kind {
			out = append(out, c)
		}
	}
	return out
}

// AncestorOfKind walks parents from id (exclusive) and returns the first
// ancestor with the given kind, or NoNode.
func (t *Tree) AncestorOfKind(id NodeID, kind NodeKind) NodeID {
	for p := t.Parent(id); p != NoNode; p = t.Parent(p) {
		if t.Kind(p) == kind {
			return p
		}
	}
	return NoNode
}

// ChildIndex returns the position of child within parent's children, or -1.
func (t *Tree) ChildIndex(parent, child NodeID) int {
	for i, c := range t.Children(parent) {
		if c == child {
			return i
		}
	}
	return -1
}

// WalkSignal steers Walk.
type WalkSignal int

const (
	// Continue descends into the current node's children.
	Continue WalkSignal = iota
	// SkipChildren moves on to the next sibling.
	SkipChildren
	// Stop aborts the whole traversal.
	Stop
)

// Walk visits id and its descendants in document order.
func (t *Tree) Walk(id NodeID, visit func(NodeID) WalkSignal) {
	t.walk(id, visit)
}

func (t *Tree) walk(id NodeID, visit func(NodeID) WalkSignal) WalkSignal {
	if !t.Valid(id) {
		return Continue
	}
	switch visit(id) {
	case Stop:
		return Stop
	case SkipChildren:
		return Continue
	}
	for _, c := range t.nodes[id].children {
		if t.walk(c, visit) == Stop {
			return Stop
		}
	}
	return Continue
}

func newSnapshotID() string { return uuid.NewString() }
