/*
Package dtree evaluates decision trees by backward induction.

A tree is a directed acyclic graph of Decision, Chance and Terminal nodes. The
engine computes the expected value of every node (or its expected utility, when
a utility transform is supplied), derives the optimal action path from any
node, and formats the results without misleading false precision.

# Concept

The library is organised the same way as the rest of the module: pure packages
under pkg/ (domain, graph, dsl, engine, policy, precision, utility, treefile)
and this facade, which wires them together. Adapters (CLI, HTTP, MCP) and
presentation (Markdown summaries, Mermaid diagrams) live under internal/ and
only consume the facade's output.

# Key Features

  - Deterministic: child order is edge-insertion order, ties go to the first child.
  - Reentrant: each pass owns its value table; a graph can be evaluated
    concurrently under different utilities.
  - Fail fast: unknown ids and cycles are reported as typed errors.
  - Risk-aware: swap the identity utility for a concave one and the optimal
    choice follows the decision maker's risk preference.

# Usage

	g := graph.New()
	g.AddDecisionNode("D1", "Invest in Project")
	g.AddChanceNode("C1", "Market Success")
	g.AddTerminalNode("T1", "High Success", 200)
	g.AddTerminalNode("T2", "Failure", -50)
	g.AddEdge("D1", "C1", 1)
	g.AddEdge("C1", "T1", 0.3)
	g.AddEdge("C1", "T2", 0.7)

	report, err := dtree.New(dtree.WithUtility(utility.RiskAverse(100))).Analyze(g, "D1")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Label, report.Formatted["D1"], report.Path)

Note that the Chance step of an optimal path follows the first outgoing edge.
It illustrates one trajectory through a stochastic subtree; it is not a choice.
*/
package dtree
