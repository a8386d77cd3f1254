// Package policy walks an evaluated decision tree and extracts the optimal
// action path from a start node.
//
// At Decision nodes the walk takes the best-valued child (strict comparison,
// scanning children in insertion order, so the first child wins ties). At Chance
// nodes it follows the first outgoing edge. That Chance step is NOT a decision:
// it only produces one illustrative path through a stochastic subtree and must
// never be read as "the" optimal chance outcome.
package policy

import (
	"fmt"
	"strings"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/graph"
)

// Goal selects how Decision nodes are resolved.
type Goal int

const (
	// Maximize picks the child with the greatest value (payoffs, utilities).
	Maximize Goal = iota
	// Minimize picks the child with the smallest value (costs, losses).
	Minimize
)

func (g Goal) String() string {
	if g == Minimize {
		return "min"
	}
	return "max"
}

// ParseGoal maps "max"/"maximize" and "min"/"minimize" to a Goal.
// The empty string means Maximize.
func ParseGoal(s string) (Goal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max", "maximize":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	}
	return Maximize, fmt.Errorf("unknown goal %q (want max or min)", s)
}

func (g Goal) better(candidate, best float64) bool {
	if g == Minimize {
		return candidate < best
	}
	return candidate > best
}

// OptimalPath returns the node ids visited from startID, startID included.
// values is the table produced by an evaluation pass over g.
func OptimalPath(g *graph.Graph, values map[string]float64, startID string, goal Goal) ([]string, error) {
	var path []string
	err := g.View(func(v *graph.View) error {
		if _, ok := v.Node(startID); !ok {
			return &domain.ReferenceError{Op: "optimal path", ID: startID}
		}

		path = []string{startID}
		current := startID
		// An acyclic walk visits each node at most once.
		for steps := 0; ; steps++ {
			if steps > v.Len() {
				return &domain.CycleError{Path: path}
			}

			next, ok, err := step(v, values, current, goal)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			path = append(path, next)
			current = next
		}
	})
	if err != nil {
		return nil, err
	}
	return path, nil
}

// Choices returns, for every Decision node with children, the id of the child
// selected under goal.
func Choices(g *graph.Graph, values map[string]float64, goal Goal) (map[string]string, error) {
	out := make(map[string]string)
	err := g.View(func(v *graph.View) error {
		for _, n := range v.Nodes() {
			if n.Kind != domain.KindDecision {
				continue
			}
			best, ok, err := bestChild(v.Children(n.ID), values, goal)
			if err != nil {
				return err
			}
			if ok {
				out[n.ID] = best
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func step(v *graph.View, values map[string]float64, current string, goal Goal) (string, bool, error) {
	node, ok := v.Node(current)
	if !ok {
		return "", false, &domain.ReferenceError{Op: "optimal path", ID: current}
	}
	children := v.Children(current)
	if len(children) == 0 {
		return "", false, nil
	}

	switch node.Kind {
	case domain.KindDecision:
		return bestChild(children, values, goal)
	case domain.KindChance:
		// Illustrative only: the first branch in insertion order.
		return children[0].ID, true, nil
	case domain.KindTerminal:
		return "", false, nil
	default:
		panic(fmt.Sprintf("policy: unhandled node kind %s", node.Kind))
	}
}

func bestChild(children []domain.Child, values map[string]float64, goal Goal) (string, bool, error) {
	var (
		best      string
		bestValue float64
		found     bool
	)
	for _, c := range children {
		value, ok := values[c.ID]
		if !ok {
			return "", false, fmt.Errorf("%w: %q", domain.ErrNotEvaluated, c.ID)
		}
		if !found || goal.better(value, bestValue) {
			best, bestValue, found = c.ID, value, true
		}
	}
	return best, found, nil
}
