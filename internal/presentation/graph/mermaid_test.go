package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/dtree/internal/presentation/graph"
	"github.com/aretw0/dtree/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		nodes       []domain.Node
		edges       []domain.Edge
		overlay     *graph.Overlay
		contains    []string
		notContains []string
	}{
		{
			name: "Node Shapes",
			nodes: []domain.Node{
				domain.NewDecision("d1", "Invest"),
				domain.NewChance("c1", "Market"),
				domain.NewTerminal("t1", "Win", 1200),
			},
			contains: []string{
				"graph LR",
				`d1["<b>Invest</b>"]`,
				"class d1 decision",
				`c1(["<b>Market</b>"])`,
				"class c1 chance",
				`t1["<b>Win</b><br/>Payoff: 1,200.00"]`,
				"class t1 terminal",
			},
		},
		{
			name: "Edge Probabilities",
			nodes: []domain.Node{
				domain.NewChance("c1", "Market"),
				domain.NewTerminal("t1", "Win", 1),
				domain.NewTerminal("t2", "Lose", 0),
			},
			edges: []domain.Edge{
				{From: "c1", To: "t1", Probability: 0.3},
				{From: "c1", To: "t2", Probability: 1.0},
			},
			contains:    []string{"c1 ==>|30.0%| t1", "c1 ==> t2"},
			notContains: []string{"|100%|"},
		},
		{
			name: "ID Sanitization And Escaping",
			nodes: []domain.Node{
				domain.NewDecision("path/to-node.x", `Say "hi"`),
			},
			contains: []string{`path_to_node_x["<b>Say #quot;hi#quot;</b>"]`},
		},
		{
			name: "Colliding IDs Stay Distinct",
			nodes: []domain.Node{
				domain.NewDecision("a-b", "Dash"),
				domain.NewTerminal("a_b", "Underscore", 10),
				domain.NewTerminal("a b", "Space", 20),
			},
			edges: []domain.Edge{
				{From: "a-b", To: "a_b", Probability: 1},
				{From: "a-b", To: "a b", Probability: 1},
			},
			contains: []string{
				`a_b["<b>Dash</b>"]`,
				`a_b_2["<b>Underscore</b><br/>Payoff: 10.00"]`,
				`a_b_3["<b>Space</b><br/>Payoff: 20.00"]`,
				"a_b ==> a_b_2",
				"a_b ==> a_b_3",
			},
			notContains: []string{"a_b ==> a_b\n"},
		},
		{
			name: "Reserved Words Are Prefixed",
			nodes: []domain.Node{
				domain.NewDecision("start", "Start"),
				domain.NewTerminal("end", "Done", 0),
			},
			edges: []domain.Edge{
				{From: "start", To: "end", Probability: 1},
			},
			contains:    []string{`n_end["<b>Done</b>`, "class n_end terminal", "start ==> n_end"},
			notContains: []string{"    end[", "==> end\n"},
		},
		{
			name: "Payoffs Keep Their Own Precision",
			nodes: []domain.Node{
				domain.NewTerminal("t1", "Win", 200),
			},
			overlay: &graph.Overlay{
				Values:    map[string]float64{"t1": 0.8647},
				Label:     "EU",
				Precision: 4,
			},
			contains:    []string{"Payoff: 200.00<br/>EU: 0.8647"},
			notContains: []string{"Payoff: 200.0000"},
		},
		{
			name: "Overlay Values And Path",
			nodes: []domain.Node{
				domain.NewDecision("D1", "Invest"),
				domain.NewChance("C1", "Market"),
				domain.NewTerminal("T1", "Win", 200),
			},
			edges: []domain.Edge{
				{From: "D1", To: "C1", Probability: 1},
				{From: "C1", To: "T1", Probability: 1},
			},
			overlay: &graph.Overlay{
				Values:    map[string]float64{"D1": 0.8647, "C1": 0.8647, "T1": 0.8647},
				Label:     "EU",
				Precision: 3,
				Path:      []string{"D1", "C1", "T1"},
			},
			contains: []string{
				`D1["<b>Invest</b><br/>EU: 0.865"]`,
				`T1["<b>Win</b><br/>Payoff: 200.00<br/>EU: 0.865"]`,
				"class D1 optimal;",
				"class T1 optimal;",
				"linkStyle 0 stroke:#e15759",
				"linkStyle 1 stroke:#e15759",
			},
			notContains: []string{"EV:", "T1 optimal;\n    class T1 optimal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, tt.edges, tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestWrapMarkdown(t *testing.T) {
	out := graph.WrapMarkdown("graph LR\n    a ==> b\n\n")
	assert.True(t, strings.HasPrefix(out, "```mermaid\ngraph LR"))
	assert.True(t, strings.HasSuffix(out, "a ==> b\n```\n"))
}
