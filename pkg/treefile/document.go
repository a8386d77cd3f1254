// Package treefile reads decision trees from YAML or JSON documents.
//
// A document lists nodes and edges in the order they should be registered:
//
//	name: Investment
//	start: D1
//	utility: risk-averse
//	nodes:
//	  - {id: D1, name: Invest in Project, type: decision}
//	  - {id: C1, name: Market Success, type: chance}
//	  - {id: T1, name: High Success, type: terminal, payoff: 200}
//	edges:
//	  - {from: D1, to: C1, probability: 0.6}
//	  - {from: C1, to: T1}            # probability defaults to 1.0
package treefile

import (
	"fmt"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a tree.
type Document struct {
	Name      string     `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Start     string     `mapstructure:"start" json:"start,omitempty" yaml:"start,omitempty"`
	Goal      string     `mapstructure:"goal" json:"goal,omitempty" yaml:"goal,omitempty"`
	Utility   string     `mapstructure:"utility" json:"utility,omitempty" yaml:"utility,omitempty"`
	Precision *int       `mapstructure:"precision" json:"precision,omitempty" yaml:"precision,omitempty"`
	Nodes     []NodeSpec `mapstructure:"nodes" json:"nodes" yaml:"nodes"`
	Edges     []EdgeSpec `mapstructure:"edges" json:"edges" yaml:"edges"`
}

// NodeSpec declares one node. Payoff is required for terminals and rejected
// elsewhere.
type NodeSpec struct {
	ID     string   `mapstructure:"id" json:"id" yaml:"id"`
	Name   string   `mapstructure:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Type   string   `mapstructure:"type" json:"type" yaml:"type"`
	Payoff *float64 `mapstructure:"payoff" json:"payoff,omitempty" yaml:"payoff,omitempty"`
}

// EdgeSpec declares one edge. A missing probability means 1.0.
type EdgeSpec struct {
	From        string   `mapstructure:"from" json:"from" yaml:"from"`
	To          string   `mapstructure:"to" json:"to" yaml:"to"`
	Probability *float64 `mapstructure:"probability" json:"probability,omitempty" yaml:"probability,omitempty"`
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse tree document: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty tree document")
	}
	return Decode(raw)
}

// Decode maps an already-unmarshalled document (e.g. a JSON request body or an
// MCP tool argument) onto a Document.
func Decode(raw map[string]any) (*Document, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid tree document: %w", err)
	}
	return &doc, nil
}

// Build registers the document's nodes and edges, in order, on a new graph.
func (d *Document) Build(opts ...graph.Option) (*graph.Graph, error) {
	g := graph.New(opts...)

	for i, spec := range d.Nodes {
		node, err := spec.node()
		if err != nil {
			return nil, fmt.Errorf("nodes[%d]: %w", i, err)
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("nodes[%d]: %w", i, err)
		}
	}

	for i, spec := range d.Edges {
		p := domain.DefaultProbability
		if spec.Probability != nil {
			p = *spec.Probability
		}
		if err := g.AddEdge(spec.From, spec.To, p); err != nil {
			return nil, fmt.Errorf("edges[%d]: %w", i, err)
		}
	}

	return g, nil
}

func (s NodeSpec) node() (domain.Node, error) {
	kind, err := domain.ParseKind(s.Type)
	if err != nil {
		return domain.Node{}, fmt.Errorf("node %q: %w", s.ID, err)
	}

	switch kind {
	case domain.KindTerminal:
		if s.Payoff == nil {
			return domain.Node{}, fmt.Errorf("terminal node %q: payoff is required", s.ID)
		}
		return domain.NewTerminal(s.ID, s.Name, *s.Payoff), nil
	case domain.KindDecision:
		if s.Payoff != nil {
			return domain.Node{}, fmt.Errorf("decision node %q: payoff is only valid on terminal nodes", s.ID)
		}
		return domain.NewDecision(s.ID, s.Name), nil
	case domain.KindChance:
		if s.Payoff != nil {
			return domain.Node{}, fmt.Errorf("chance node %q: payoff is only valid on terminal nodes", s.ID)
		}
		return domain.NewChance(s.ID, s.Name), nil
	default:
		panic(fmt.Sprintf("treefile: unhandled node kind %s", kind))
	}
}
