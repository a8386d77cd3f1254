package engine

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/aretw0/dtree/pkg/utility"
)

// Engine runs evaluation passes.
type Engine struct {
	utility utility.Transform
	roots   []string
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithUtility sets the transform applied at Terminal nodes (default: identity).
func WithUtility(u utility.Transform) Option {
	return func(e *Engine) {
		e.utility = utility.OrIdentity(u)
	}
}

// WithRoots restricts a pass to the nodes reachable from the given ids.
// By default every registered node is evaluated.
func WithRoots(ids ...string) Option {
	return func(e *Engine) {
		e.roots = append([]string(nil), ids...)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		utility: utility.Identity,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Utility returns the transform used by this engine.
func (e *Engine) Utility() utility.Transform {
	return e.utility
}

// Evaluate is a convenience for New(WithUtility(u)).Evaluate(g).
func Evaluate(g *graph.Graph, u utility.Transform) (*Result, error) {
	return New(WithUtility(u)).Evaluate(g)
}

// Evaluate runs one backward-induction pass over g.
// On failure no partial result is returned.
func (e *Engine) Evaluate(g *graph.Graph) (*Result, error) {
	started := time.Now()
	var values map[string]float64

	err := g.View(func(v *graph.View) error {
		roots := e.roots
		if len(roots) == 0 {
			roots = v.IDs()
		}
		p := newPass(v, e.utility, v.Len())
		for _, id := range roots {
			if _, ok := v.Node(id); !ok {
				return &domain.ReferenceError{Op: "evaluate", ID: id}
			}
			if err := p.run(id); err != nil {
				return err
			}
		}
		values = p.values
		return nil
	})
	if err != nil {
		e.logger.Debug("Evaluation failed", "utility", e.utility.String(), "err", err)
		return nil, err
	}

	e.logger.Debug("Evaluation finished",
		"utility", e.utility.String(),
		"nodes", len(values),
		"duration", time.Since(started),
	)
	return &Result{Values: values, Utility: e.utility}, nil
}

type mark uint8

const (
	unvisited mark = iota
	inProgress
	done
)

// frame is one in-progress node on the explicit stack.
type frame struct {
	node     domain.Node
	children []domain.Child
	next     int
	acc      float64 // Chance: running weighted sum. Decision: best so far.
	seen     bool    // Decision: acc holds a real child value.
}

// pass is the state of a single evaluation. It is never shared.
type pass struct {
	view    *graph.View
	utility utility.Transform
	marks   map[string]mark
	values  map[string]float64
	stack   []*frame
}

func newPass(v *graph.View, u utility.Transform, size int) *pass {
	return &pass{
		view:    v,
		utility: u,
		marks:   make(map[string]mark, size),
		values:  make(map[string]float64, size),
	}
}

func (p *pass) run(root string) error {
	if p.marks[root] == done {
		return nil
	}
	if err := p.push(root); err != nil {
		return err
	}

	for len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]

		if top.next < len(top.children) {
			child := top.children[top.next]
			switch p.marks[child.ID] {
			case done:
				top.fold(child, p.values[child.ID])
				top.next++
			case inProgress:
				return &domain.CycleError{Path: p.cyclePath(child.ID)}
			default:
				if err := p.push(child.ID); err != nil {
					return err
				}
			}
			continue
		}

		value, err := p.finish(top)
		if err != nil {
			return err
		}
		id := top.node.ID
		p.values[id] = value
		p.marks[id] = done
		p.stack = p.stack[:len(p.stack)-1]
	}
	return nil
}

func (p *pass) push(id string) error {
	node, ok := p.view.Node(id)
	if !ok {
		return &domain.ReferenceError{Op: "evaluate", ID: id}
	}
	f := &frame{node: node}
	// Terminal payoffs ignore outgoing edges.
	if node.Kind != domain.KindTerminal {
		f.children = p.view.Children(id)
	}
	p.marks[id] = inProgress
	p.stack = append(p.stack, f)
	return nil
}

func (f *frame) fold(child domain.Child, value float64) {
	switch f.node.Kind {
	case domain.KindChance:
		f.acc += child.Probability * value
	case domain.KindDecision:
		if !f.seen || value > f.acc {
			f.acc = value
			f.seen = true
		}
	case domain.KindTerminal:
	default:
		panic(fmt.Sprintf("engine: unhandled node kind %s", f.node.Kind))
	}
}

func (p *pass) finish(f *frame) (float64, error) {
	switch f.node.Kind {
	case domain.KindTerminal:
		payoff, _ := f.node.Payoff()
		u := p.utility.Apply(payoff)
		if math.IsNaN(u) || math.IsInf(u, 0) {
			return 0, fmt.Errorf("terminal %q: utility %s(%v) = %v: %w", f.node.ID, p.utility, payoff, u, domain.ErrNonFinite)
		}
		return u, nil
	case domain.KindChance, domain.KindDecision:
		// acc starts at 0.0, which is the empty-children convention for both kinds.
		if math.IsNaN(f.acc) || math.IsInf(f.acc, 0) {
			return 0, fmt.Errorf("node %q: value %v: %w", f.node.ID, f.acc, domain.ErrNonFinite)
		}
		return f.acc, nil
	default:
		panic(fmt.Sprintf("engine: unhandled node kind %s", f.node.Kind))
	}
}

// cyclePath returns the stack segment from the first frame of id to the top,
// closed with id again.
func (p *pass) cyclePath(id string) []string {
	start := 0
	for i, f := range p.stack {
		if f.node.ID == id {
			start = i
			break
		}
	}
	path := make([]string, 0, len(p.stack)-start+1)
	for _, f := range p.stack[start:] {
		path = append(path, f.node.ID)
	}
	return append(path, id)
}
