package graph

import "github.com/aretw0/dtree/pkg/domain"

// View is lock-free read access to a Graph, valid only inside Graph.View.
type View struct {
	g *Graph
}

// Node returns the node registered under id.
func (v *View) Node(id string) (domain.Node, bool) {
	return v.g.nodes.Get(id)
}

// Children returns the outgoing edges of id in insertion order.
// The slice is shared with the graph and must not be modified.
func (v *View) Children(id string) []domain.Child {
	return v.g.adjacency[id]
}

// Len returns the number of registered nodes.
func (v *View) Len() int {
	return v.g.nodes.Len()
}

// IDs returns node ids in registration order.
func (v *View) IDs() []string {
	ids := make([]string, 0, v.g.nodes.Len())
	for pair := v.g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Nodes returns every node in registration order.
func (v *View) Nodes() []domain.Node {
	return v.g.nodeList()
}

// Edges returns the edge list. The slice is shared and must not be modified.
func (v *View) Edges() []domain.Edge {
	return v.g.edges
}
