package syntax

import "fmt"

// Builder accumulates nodes for one Tree. Children must be created before
// the node that adopts them; each node can be adopted once. Errors are
// collected and reported by Build, so construction code can stay linear.
type Builder struct {
	nodes []node
	err   error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Leaf appends a childless node carrying raw source text.
func (b *Builder) Leaf(kind NodeKind, text string, span Span) NodeID {
	b.nodes = append(b.nodes, node{kind: kind, span: span, text: text, parent: NoNode})
	return NodeID(len(b.nodes) - 1)
}

// Node appends a composite node adopting the given children in order.
func (b *Builder) Node(kind NodeKind, span Span, children ...NodeID) NodeID {
	return b.TextNode(kind, "", span, children...)
}

// TextNode is Node with auxiliary text (sigil delimiter, alias dotted name).
func (b *Builder) TextNode(kind NodeKind, text string, span Span, children ...NodeID) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, node{kind: kind, span: span, text: text, parent: NoNode})
	kids := make([]NodeID, 0, len(children))
	for _, c := range children {
		if c < 0 || c >= id {
			b.fail(fmt.Errorf("node %s adopts out-of-range child %d", kind, c))
			continue
		}
		if b.nodes[c].parent != NoNode {
			b.fail(fmt.Errorf("node %s adopts child %d which already has a parent", kind, c))
			continue
		}
		b.nodes[c].parent = id
		kids = append(kids, c)
	}
	b.nodes[id].children = kids
	return id
}

// Build finalizes the tree with root as its top node. Every other node must
// have been adopted, so a misassembled tree fails here rather than
// surfacing as a quoting bug later.
func (b *Builder) Build(root NodeID) (*Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	if root < 0 || int(root) >= len(b.nodes) {
		return nil, fmt.Errorf("build: root id %d out of range", root)
	}
	for id, n := range b.nodes {
		if NodeID(id) != root && n.parent == NoNode {
			return nil, fmt.Errorf("build: node %d (%s) was never adopted", id, n.kind)
		}
	}
	if b.nodes[root].parent != NoNode {
		return nil, fmt.Errorf("build: root %d has a parent", root)
	}
	return &Tree{nodes: b.nodes, root: root, snapshotID: newSnapshotID()}, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
