// Package summary renders analysis reports as Markdown tables.
package summary

import (
	"fmt"
	"strings"

	"github.com/aretw0/dtree"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/aretw0/dtree/pkg/precision"
)

// Render writes the per-node summary of report over g.
func Render(g *graph.Graph, report *dtree.Report) string {
	var sb strings.Builder

	title := "Decision Tree Summary"
	if report.Name != "" {
		title += ": " + report.Name
	}
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString(describeQuantity(report) + "\n\n")

	sb.WriteString(fmt.Sprintf("**Optimal path (%s):** %s\n\n", report.Goal, describePath(g, report.Path)))
	sb.WriteString("> Chance steps on the path follow the first listed outcome. They illustrate one trajectory, not a choice.\n\n")

	sb.WriteString(fmt.Sprintf("| Type | Node | ID | Payoff | %s | Children |\n", report.Label))
	sb.WriteString("|---|---|---|---:|---:|---|\n")

	// Payoffs are raw amounts; the report precision is tuned to the values.
	payoffDecimals := precision.DisplayPrecision(payoffs(g), nil)

	for _, n := range g.Nodes() {
		payoff := ""
		if v, ok := n.Payoff(); ok {
			payoff = precision.FormatValue(v, payoffDecimals)
		}

		var children []string
		for _, c := range g.Children(n.ID) {
			child, _ := g.Node(c.ID)
			entry := fmt.Sprintf("%s (%s) [p=%s]", escapeCell(child.Label()), c.ID, precision.FormatProbability(c.Probability, 2))
			if report.Choices[n.ID] == c.ID {
				entry = "**" + entry + "**"
			}
			children = append(children, entry)
		}

		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			strings.ToUpper(n.Kind.String()),
			escapeCell(n.Label()),
			n.ID,
			payoff,
			report.Formatted[n.ID],
			strings.Join(children, "<br>"),
		))
	}

	return sb.String()
}

// Comparison renders, for each report, the value of every alternative at the
// start node and the recommended one.
func Comparison(g *graph.Graph, reports []*dtree.Report) string {
	if len(reports) == 0 {
		return ""
	}
	start := reports[0].Start
	alternatives := g.Children(start)

	var sb strings.Builder
	node, _ := g.Node(start)
	sb.WriteString(fmt.Sprintf("# Strategy comparison at %s (%s)\n\n", escapeCell(node.Label()), start))

	sb.WriteString("| Utility | Quantity |")
	for _, alt := range alternatives {
		child, _ := g.Node(alt.ID)
		sb.WriteString(" " + escapeCell(child.Label()) + " |")
	}
	sb.WriteString(" Recommended |\n|---|---|")
	for range alternatives {
		sb.WriteString("---:|")
	}
	sb.WriteString("---|\n")

	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("| %s | %s |", r.Utility, r.Label))
		for _, alt := range alternatives {
			sb.WriteString(" " + r.Formatted[alt.ID] + " |")
		}
		recommended := "-"
		if choice, ok := r.Choices[start]; ok {
			child, _ := g.Node(choice)
			recommended = escapeCell(child.Label())
		}
		sb.WriteString(" " + recommended + " |\n")
	}
	return sb.String()
}

func payoffs(g *graph.Graph) []float64 {
	var out []float64
	for _, n := range g.Nodes() {
		if v, ok := n.Payoff(); ok {
			out = append(out, v)
		}
	}
	return out
}

func describeQuantity(report *dtree.Report) string {
	if report.Label == "EV" {
		return "Values are **expected values (EV)** of the raw payoffs."
	}
	return fmt.Sprintf("Values are **expected utilities (EU)** under `%s`; they are not monetary amounts.", report.Utility)
}

func describePath(g *graph.Graph, path []string) string {
	steps := make([]string, 0, len(path))
	for _, id := range path {
		n, _ := g.Node(id)
		steps = append(steps, fmt.Sprintf("%s (%s)", escapeCell(n.Label()), id))
	}
	return strings.Join(steps, " → ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
