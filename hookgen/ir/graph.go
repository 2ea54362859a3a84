package ir

import (
	"fmt"
	"sort"
)

// Graph is the normalized, cycle-safe arena of schema nodes.
//
// Nodes are addressed by NodeID and never embed each other by value; a cycle
// always passes through a ReferenceNode. A Graph is immutable once returned by
// Builder.Graph and is safe for concurrent readers.
type Graph struct {
	nodes []Node
	named map[string]NodeID
	order []string
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node for id, or nil for NoNode and out-of-range ids.
func (g *Graph) Node(id NodeID) Node {
	if id <= NoNode || int(id) > len(g.nodes) {
		return nil
	}
	return g.nodes[id-1]
}

// Lookup returns the node of a named schema.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.named[name]
	return id, ok
}

// Names returns named schemas in declaration order. Synthesized names of
// anonymous recursion targets follow the declared ones.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// NameOf returns the canonical name of id, or "" when the node is anonymous.
func (g *Graph) NameOf(id NodeID) string {
	if n := g.Node(id); n != nil {
		return n.Metadata().Name
	}
	return ""
}

// Resolve follows reference chains from id and returns the first
// non-reference node. It returns NoNode for dangling references and for
// cycles made only of references.
func (g *Graph) Resolve(id NodeID) (NodeID, Node) {
	return resolve(g.nodes, id)
}

func resolve(nodes []Node, id NodeID) (NodeID, Node) {
	for hops := 0; hops <= len(nodes); hops++ {
		if id <= NoNode || int(id) > len(nodes) {
			return NoNode, nil
		}
		n := nodes[id-1]
		ref, ok := n.(*ReferenceNode)
		if !ok {
			return id, n
		}
		id = ref.Target
	}
	return NoNode, nil
}

// Builder accumulates nodes during normalization. It is not safe for
// concurrent use; call Graph once all nodes are added.
type Builder struct {
	nodes  []Node
	named  map[string]NodeID
	frozen bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{named: make(map[string]NodeID)}
}

// Add appends n to the arena and returns its id.
func (b *Builder) Add(n Node) NodeID {
	if b.frozen {
		panic("ir: Add on frozen builder")
	}
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes))
}

// Node returns a node added earlier.
func (b *Builder) Node(id NodeID) Node {
	if id <= NoNode || int(id) > len(b.nodes) {
		return nil
	}
	return b.nodes[id-1]
}

// Resolve follows reference chains like Graph.Resolve. References whose
// target is not yet back-filled resolve to NoNode.
func (b *Builder) Resolve(id NodeID) (NodeID, Node) {
	return resolve(b.nodes, id)
}

// Name records name as the canonical name of id.
func (b *Builder) Name(id NodeID, name string) error {
	if prev, ok := b.named[name]; ok && prev != id {
		return fmt.Errorf("ir: name %q already bound to node %d", name, prev)
	}
	n := b.Node(id)
	if n == nil {
		return fmt.Errorf("ir: name %q bound to unknown node %d", name, id)
	}
	b.named[name] = id
	setName(n, name)
	return nil
}

// Has reports whether name is already bound.
func (b *Builder) Has(name string) bool {
	_, ok := b.named[name]
	return ok
}

// Graph freezes the builder and returns the immutable graph. order lists
// named schemas in the order generators should declare them; names bound but
// missing from order are appended in sorted order.
func (b *Builder) Graph(order []string) *Graph {
	b.frozen = true
	seen := make(map[string]bool, len(order))
	final := make([]string, 0, len(b.named))
	for _, name := range order {
		if _, ok := b.named[name]; ok && !seen[name] {
			seen[name] = true
			final = append(final, name)
		}
	}
	var rest []string
	for name := range b.named {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	final = append(final, rest...)

	named := make(map[string]NodeID, len(b.named))
	for k, v := range b.named {
		named[k] = v
	}
	return &Graph{nodes: b.nodes, named: named, order: final}
}

func setName(n Node, name string) {
	if b, ok := n.(interface{ setName(string) }); ok {
		b.setName(name)
	}
}
