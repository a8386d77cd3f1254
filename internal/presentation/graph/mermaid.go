package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/precision"
)

// Overlay contains evaluation data to visualize on the diagram.
type Overlay struct {
	Values    map[string]float64
	Label     string // "EV" or "EU"
	Precision int
	// Path is the optimal path; its nodes and edges are highlighted.
	Path []string
}

// GenerateMermaid produces a Mermaid flowchart (graph LR) from nodes and edges.
// It applies semantic styling:
// - Decision: [Rectangle], blue
// - Chance: ([Stadium]), orange
// - Terminal: [Rectangle], green, with its payoff
// Probabilities are shown on edges unless they equal 1.
// Computed values and the optimal path are drawn when overlay is provided.
func GenerateMermaid(nodes []domain.Node, edges []domain.Edge, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    classDef decision fill:#4e79a7,stroke:#2c5f85,stroke-width:3px,color:#ffffff,font-weight:bold\n")
	sb.WriteString("    classDef chance fill:#f28e2c,stroke:#d4751a,stroke-width:3px,color:#ffffff,font-weight:bold\n")
	sb.WriteString("    classDef terminal fill:#59a14f,stroke:#3f7a37,stroke-width:3px,color:#ffffff,font-weight:bold\n")

	ids := mermaidIDs(nodes)
	payoffDecimals := precision.DisplayPrecision(payoffs(nodes), nil)

	decimals := precision.DefaultDecimals
	label := "EV"
	if overlay != nil {
		decimals = overlay.Precision
		if overlay.Label != "" {
			label = overlay.Label
		}
	}

	for _, node := range nodes {
		safeID := ids[node.ID]

		parts := []string{"<b>" + escapeLabel(node.Label()) + "</b>"}
		if payoff, ok := node.Payoff(); ok {
			parts = append(parts, "Payoff: "+precision.FormatValue(payoff, payoffDecimals))
		}
		// Terminal values only differ from the payoff under a utility.
		if overlay != nil && (!node.IsTerminal() || label != "EV") {
			if v, ok := overlay.Values[node.ID]; ok {
				parts = append(parts, label+": "+precision.FormatValue(v, decimals))
			}
		}
		text := strings.Join(parts, "<br/>")

		switch node.Kind {
		case domain.KindDecision:
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, text))
		case domain.KindChance:
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", safeID, text))
		case domain.KindTerminal:
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, text))
		default:
			panic(fmt.Sprintf("graph: unhandled node kind %s", node.Kind))
		}
		sb.WriteString(fmt.Sprintf("    class %s %s\n", safeID, node.Kind))
	}

	onPath := pathEdges(overlay)
	var highlighted []int
	for i, e := range edges {
		arrow := "==>"
		if e.Probability != domain.DefaultProbability {
			arrow = fmt.Sprintf("==>|%s|", precision.PercentageLabel(e.Probability))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", ids.lookup(e.From), arrow, ids.lookup(e.To)))
		if onPath[e.From+"\x00"+e.To] {
			highlighted = append(highlighted, i)
		}
	}

	sb.WriteString("    linkStyle default stroke:#666,stroke-width:2px\n")

	// Apply Overlay Styles
	if overlay != nil && len(overlay.Path) > 0 {
		sb.WriteString("\n    %% Optimal path\n")
		sb.WriteString("    classDef optimal stroke:#e15759,stroke-width:5px;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Path {
			safeID := ids.lookup(id)
			if !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s optimal;\n", safeID))
			}
		}
		for _, i := range highlighted {
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:#e15759,stroke-width:4px;\n", i))
		}
	}

	return sb.String()
}

// WrapMarkdown fences a diagram so it renders in Markdown viewers.
func WrapMarkdown(diagram string) string {
	return "```mermaid\n" + strings.TrimRight(diagram, "\n") + "\n```\n"
}

func pathEdges(overlay *Overlay) map[string]bool {
	out := make(map[string]bool)
	if overlay == nil {
		return out
	}
	for i := 1; i < len(overlay.Path); i++ {
		out[overlay.Path[i-1]+"\x00"+overlay.Path[i]] = true
	}
	return out
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}

// idMap assigns every node a distinct Mermaid identifier.
type idMap map[string]string

func (m idMap) lookup(id string) string {
	if safe, ok := m[id]; ok {
		return safe
	}
	return sanitizeMermaidID(id)
}

// mermaidIDs sanitizes node ids and suffixes _2, _3... when two ids sanitize
// to the same identifier.
func mermaidIDs(nodes []domain.Node) idMap {
	ids := make(idMap, len(nodes))
	taken := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if _, done := ids[n.ID]; done {
			continue
		}
		base := sanitizeMermaidID(n.ID)
		candidate := base
		for i := 2; taken[candidate]; i++ {
			candidate = fmt.Sprintf("%s_%d", base, i)
		}
		taken[candidate] = true
		ids[n.ID] = candidate
	}
	return ids
}

func payoffs(nodes []domain.Node) []float64 {
	var out []float64
	for _, n := range nodes {
		if v, ok := n.Payoff(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Words the flowchart grammar reserves; a bare "end" closes a subgraph.
var mermaidKeywords = map[string]bool{
	"end": true, "graph": true, "flowchart": true, "subgraph": true,
	"class": true, "classdef": true, "style": true, "linkstyle": true,
	"click": true, "call": true, "direction": true, "default": true,
}

// sanitizeMermaidID keeps letters, digits and underscores and prefixes
// reserved words.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	s := sb.String()
	if s == "" || mermaidKeywords[strings.ToLower(s)] {
		s = "n_" + s
	}
	return s
}
