package dsl

import (
	"fmt"

	"github.com/aretw0/dtree/pkg/domain"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	id     string
	name   string
	kind   domain.Kind
	payoff float64
	edges  []domain.Edge
}

// Decision marks the node as a point where the decision maker chooses.
func (n *NodeBuilder) Decision(name string) *NodeBuilder {
	n.kind = domain.KindDecision
	n.name = name
	return n
}

// Chance marks the node as an uncertain event.
func (n *NodeBuilder) Chance(name string) *NodeBuilder {
	n.kind = domain.KindChance
	n.name = name
	return n
}

// Terminal marks the node as an outcome with a fixed payoff.
// Terminal nodes keep no children.
func (n *NodeBuilder) Terminal(name string, payoff float64) *NodeBuilder {
	n.kind = domain.KindTerminal
	n.name = name
	n.payoff = payoff
	n.edges = nil
	return n
}

// Go adds an edge to target with probability 1.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	return n.Branch(domain.DefaultProbability, target)
}

// Branch adds an edge to target with the given probability.
func (n *NodeBuilder) Branch(probability float64, target string) *NodeBuilder {
	n.edges = append(n.edges, domain.Edge{From: n.id, To: target, Probability: probability})
	return n
}

func (n *NodeBuilder) node() (domain.Node, error) {
	switch n.kind {
	case domain.KindDecision:
		return domain.NewDecision(n.id, n.name), nil
	case domain.KindChance:
		return domain.NewChance(n.id, n.name), nil
	case domain.KindTerminal:
		return domain.NewTerminal(n.id, n.name, n.payoff), nil
	default:
		return domain.Node{}, fmt.Errorf("node %q: no type set (call Decision, Chance or Terminal)", n.id)
	}
}
