package validator

import (
	"fmt"
	"math"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/hashicorp/go-multierror"
)

// ProbabilityTolerance is the accepted deviation of a Chance node's outgoing
// probabilities from 1.
const ProbabilityTolerance = 1e-9

// Issue is a single structural finding. None of them stop evaluation; callers
// decide whether to treat them as fatal.
type Issue struct {
	NodeID string
	Reason string
}

func (i *Issue) Error() string {
	return fmt.Sprintf("node %q: %s", i.NodeID, i.Reason)
}

// ValidateGraph checks the structural invariants the engine leaves to callers:
// Chance probabilities summing to 1, non-negative probabilities, childless
// Terminal nodes, non-empty Decision/Chance nodes and, when startID is set,
// reachability of every node from startID.
// It returns nil or a *multierror.Error listing every Issue.
func ValidateGraph(g *graph.Graph, startID string) error {
	var result *multierror.Error

	err := g.View(func(v *graph.View) error {
		for _, n := range v.Nodes() {
			for _, issue := range inspect(n, v.Children(n.ID)) {
				result = multierror.Append(result, issue)
			}
		}

		if startID == "" {
			return nil
		}
		if _, ok := v.Node(startID); !ok {
			return &domain.ReferenceError{Op: "validate", ID: startID}
		}
		visited := crawl(v, startID)
		for _, id := range v.IDs() {
			if !visited[id] {
				result = multierror.Append(result, &Issue{NodeID: id, Reason: fmt.Sprintf("unreachable from %q", startID)})
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return result.ErrorOrNil()
}

// Issues unpacks the findings returned by ValidateGraph.
func Issues(err error) []error {
	if merr, ok := err.(*multierror.Error); ok {
		return merr.WrappedErrors()
	}
	if err != nil {
		return []error{err}
	}
	return nil
}

func inspect(n domain.Node, children []domain.Child) []*Issue {
	var issues []*Issue

	for _, c := range children {
		if c.Probability < 0 {
			issues = append(issues, &Issue{NodeID: n.ID, Reason: fmt.Sprintf("negative probability %v on edge to %q", c.Probability, c.ID)})
		}
	}

	switch n.Kind {
	case domain.KindTerminal:
		if len(children) > 0 {
			issues = append(issues, &Issue{NodeID: n.ID, Reason: fmt.Sprintf("terminal node has %d outgoing edges (ignored by evaluation)", len(children))})
		}
	case domain.KindChance:
		if len(children) == 0 {
			issues = append(issues, &Issue{NodeID: n.ID, Reason: "chance node has no outcomes (evaluates to 0)"})
			break
		}
		sum := 0.0
		for _, c := range children {
			sum += c.Probability
		}
		if math.Abs(sum-1) > ProbabilityTolerance {
			issues = append(issues, &Issue{NodeID: n.ID, Reason: fmt.Sprintf("outgoing probabilities sum to %g, want 1", sum)})
		}
	case domain.KindDecision:
		if len(children) == 0 {
			issues = append(issues, &Issue{NodeID: n.ID, Reason: "decision node has no alternatives (evaluates to 0)"})
		}
	default:
		panic(fmt.Sprintf("validator: unhandled node kind %s", n.Kind))
	}

	return issues
}

// crawl returns the set of ids reachable from start (breadth-first).
func crawl(v *graph.View, start string) map[string]bool {
	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, c := range v.Children(current) {
			if !visited[c.ID] {
				visited[c.ID] = true
				queue = append(queue, c.ID)
			}
		}
	}
	return visited
}
