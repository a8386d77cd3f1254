package graph

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/aretw0/dtree/pkg/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Graph stores nodes and edges of one decision tree.
// Safe for concurrent use.
type Graph struct {
	mu        sync.RWMutex
	nodes     *orderedmap.OrderedMap[string, domain.Node]
	edges     []domain.Edge
	adjacency map[string][]domain.Child

	overwrite bool
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Graph.
type Option func(*Graph)

// WithOverwrite allows re-registering an existing id. The new node replaces the
// old one in place (keeping its position) and every edge already pointing to or
// from that id now refers to the replacement. Without this option a collision
// fails with domain.ErrDuplicateNode.
func WithOverwrite() Option {
	return func(g *Graph) {
		g.overwrite = true
	}
}

// WithLogger sets a structured logger for builder diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		nodes:     orderedmap.New[string, domain.Node](),
		adjacency: make(map[string][]domain.Child),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddDecisionNode registers a Decision node.
func (g *Graph) AddDecisionNode(id, name string) error {
	return g.addNode(domain.NewDecision(id, name))
}

// AddChanceNode registers a Chance node.
func (g *Graph) AddChanceNode(id, name string) error {
	return g.addNode(domain.NewChance(id, name))
}

// AddTerminalNode registers a Terminal node with its raw payoff.
// NaN and infinite payoffs are rejected with domain.ErrInvalidPayoff.
func (g *Graph) AddTerminalNode(id, name string, payoff float64) error {
	if math.IsNaN(payoff) || math.IsInf(payoff, 0) {
		return fmt.Errorf("terminal %q: %w: %v", id, domain.ErrInvalidPayoff, payoff)
	}
	return g.addNode(domain.NewTerminal(id, name, payoff))
}

// AddNode registers a pre-built node. It is the entry point used by loaders.
func (g *Graph) AddNode(n domain.Node) error {
	switch n.Kind {
	case domain.KindDecision, domain.KindChance:
		return g.addNode(n)
	case domain.KindTerminal:
		payoff, _ := n.Payoff()
		return g.AddTerminalNode(n.ID, n.Name, payoff)
	default:
		return fmt.Errorf("node %q: invalid kind %s", n.ID, n.Kind)
	}
}

func (g *Graph) addNode(n domain.Node) error {
	if n.ID == "" {
		return fmt.Errorf("node id must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if prev, exists := g.nodes.Get(n.ID); exists {
		if !g.overwrite {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateNode, n.ID)
		}
		g.logger.Warn("Overwriting node", "id", n.ID, "old_kind", prev.Kind.String(), "new_kind", n.Kind.String())
	}
	g.nodes.Set(n.ID, n)
	return nil
}

// AddEdge appends an edge from -> to with the given probability.
// It fails with a *domain.ReferenceError if either endpoint is unknown; in that
// case the edge list is left untouched.
func (g *Graph) AddEdge(from, to string, probability float64) error {
	if math.IsNaN(probability) || math.IsInf(probability, 0) {
		return fmt.Errorf("edge %s -> %s: %w: %v", from, to, domain.ErrInvalidProbability, probability)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes.Get(from); !ok {
		return &domain.ReferenceError{Op: "add edge (from)", ID: from}
	}
	if _, ok := g.nodes.Get(to); !ok {
		return &domain.ReferenceError{Op: "add edge (to)", ID: to}
	}

	g.edges = append(g.edges, domain.Edge{From: from, To: to, Probability: probability})
	g.adjacency[from] = append(g.adjacency[from], domain.Child{ID: to, Probability: probability})
	return nil
}

// Connect adds an edge with domain.DefaultProbability.
func (g *Graph) Connect(from, to string) error {
	return g.AddEdge(from, to, domain.DefaultProbability)
}

// Children returns the outgoing (child, probability) pairs of id in edge
// insertion order. Unknown ids and leaves yield an empty slice.
func (g *Graph) Children(id string) []domain.Child {
	g.mu.RLock()
	defer g.mu.RUnlock()

	children := g.adjacency[id]
	out := make([]domain.Child, len(children))
	copy(out, children)
	return out
}

// Node returns the node registered under id.
func (g *Graph) Node(id string) (domain.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes.Get(id)
}

// Has reports whether id is registered.
func (g *Graph) Has(id string) bool {
	_, ok := g.Node(id)
	return ok
}

// Len returns the number of registered nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes.Len()
}

// Nodes returns every node in registration order.
func (g *Graph) Nodes() []domain.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodeList()
}

// Edges returns every edge in insertion order.
func (g *Graph) Edges() []domain.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// View runs fn with read access to the graph. The read lock is held until fn
// returns, so builder calls issued meanwhile block until the pass is over.
// fn must not call the Graph's own methods (use the View instead).
func (g *Graph) View(fn func(v *View) error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn(&View{g: g})
}

func (g *Graph) nodeList() []domain.Node {
	out := make([]domain.Node, 0, g.nodes.Len())
	for pair := g.nodes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
