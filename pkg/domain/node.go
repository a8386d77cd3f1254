package domain

import (
	"fmt"
	"strings"
)

// Kind is the tag of the Node variant.
type Kind uint8

// Node kinds. The zero value is deliberately invalid so that an unset Kind is
// never mistaken for a Decision node.
const (
	KindDecision Kind = iota + 1
	KindChance
	KindTerminal
)

// String returns the lowercase name used in tree documents and diagrams.
func (k Kind) String() string {
	switch k {
	case KindDecision:
		return "decision"
	case KindChance:
		return "chance"
	case KindTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	return k >= KindDecision && k <= KindTerminal
}

// ParseKind maps a textual kind ("decision", "chance", "terminal") to a Kind.
// Matching is case-insensitive; the short forms "d", "c" and "t" are accepted.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decision", "d":
		return KindDecision, nil
	case "chance", "c":
		return KindChance, nil
	case "terminal", "t", "leaf":
		return KindTerminal, nil
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

// Node represents a point in the decision tree.
// Nodes are values: once built they are never mutated.
type Node struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"-" yaml:"-"`

	payoff float64
}

// NewDecision builds a Decision node.
func NewDecision(id, name string) Node {
	return Node{ID: id, Name: name, Kind: KindDecision}
}

// NewChance builds a Chance node.
func NewChance(id, name string) Node {
	return Node{ID: id, Name: name, Kind: KindChance}
}

// NewTerminal builds a Terminal node carrying a raw payoff.
func NewTerminal(id, name string, payoff float64) Node {
	return Node{ID: id, Name: name, Kind: KindTerminal, payoff: payoff}
}

// Payoff returns the raw terminal payoff.
// The boolean is false for Decision and Chance nodes, which have no payoff.
func (n Node) Payoff() (float64, bool) {
	if n.Kind != KindTerminal {
		return 0, false
	}
	return n.payoff, true
}

// IsTerminal reports whether n is a leaf of the tree by kind.
func (n Node) IsTerminal() bool {
	return n.Kind == KindTerminal
}

// Label returns the display name, falling back to the ID.
func (n Node) Label() string {
	if n.Name == "" {
		return n.ID
	}
	return n.Name
}
