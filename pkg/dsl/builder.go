package dsl

import (
	"fmt"

	"github.com/aretw0/dtree/pkg/graph"
)

// Builder manages the tree construction.
type Builder struct {
	nodes map[string]*NodeBuilder
	order []string
}

// New creates a new tree builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add declares a node. Declaration order is the graph's node order.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{id: id}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build registers every node, then every edge, into a new graph.
func (b *Builder) Build(opts ...graph.Option) (*graph.Graph, error) {
	g := graph.New(opts...)

	for _, id := range b.order {
		n, err := b.nodes[id].node()
		if err != nil {
			return nil, err
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("failed to add node: %w", err)
		}
	}

	for _, id := range b.order {
		for _, e := range b.nodes[id].edges {
			if err := g.AddEdge(id, e.To, e.Probability); err != nil {
				return nil, fmt.Errorf("failed to add edge: %w", err)
			}
		}
	}

	return g, nil
}

// MustBuild is Build for trees known to be well formed, such as test fixtures.
func (b *Builder) MustBuild(opts ...graph.Option) *graph.Graph {
	g, err := b.Build(opts...)
	if err != nil {
		panic(err)
	}
	return g
}
