package dtree

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/engine"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/aretw0/dtree/pkg/policy"
	"github.com/aretw0/dtree/pkg/precision"
	"github.com/aretw0/dtree/pkg/treefile"
	"github.com/aretw0/dtree/pkg/utility"
)

// Engine is the high-level entry point for the dtree library.
// It wires the evaluation engine, the policy selector and the precision
// formatter behind a single API. Settings left unset fall back to the values a
// tree document carries (see AnalyzeDocument) and then to the defaults.
type Engine struct {
	utility   utility.Transform
	goal      *policy.Goal
	precision *int
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithUtility sets the transform applied to terminal payoffs.
func WithUtility(u utility.Transform) Option {
	return func(e *Engine) {
		e.utility = u
	}
}

// WithGoal sets whether Decision nodes are resolved by max or min when
// extracting the optimal path.
func WithGoal(goal policy.Goal) Option {
	return func(e *Engine) {
		e.goal = &goal
	}
}

// WithPrecision fixes the number of decimals used in reports.
func WithPrecision(decimals int) Option {
	return func(e *Engine) {
		e.precision = &decimals
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Defaults are settings that only apply where a document is silent. Servers
// use them so a posted document keeps its own utility, goal and precision.
type Defaults struct {
	Utility   utility.Transform
	Goal      *policy.Goal
	Precision *int
}

// Options returns the defaults doc leaves unset, as engine options.
func (d Defaults) Options(doc *treefile.Document) []Option {
	var opts []Option
	if doc.Utility == "" && d.Utility != nil {
		opts = append(opts, WithUtility(d.Utility))
	}
	if doc.Goal == "" && d.Goal != nil {
		opts = append(opts, WithGoal(*d.Goal))
	}
	if doc.Precision == nil && d.Precision != nil {
		opts = append(opts, WithPrecision(*d.Precision))
	}
	return opts
}

// New initializes a new dtree Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Report is the presentation-ready outcome of one analysis.
type Report struct {
	Name      string             `json:"name,omitempty"`
	Start     string             `json:"start"`
	Goal      string             `json:"goal"`
	Utility   string             `json:"utility"`
	Label     string             `json:"label"` // "EV" or "EU"
	Precision int                `json:"precision"`
	Values    map[string]float64 `json:"values"`
	Formatted map[string]string  `json:"formatted"`
	Path      []string           `json:"path"`
	Choices   map[string]string  `json:"choices"`

	// Result is the raw evaluation output.
	Result *engine.Result `json:"-"`
}

// Evaluate runs a backward-induction pass over g.
func (e *Engine) Evaluate(g *graph.Graph) (*engine.Result, error) {
	return e.evaluate(g, e.utilityOr(nil))
}

// OptimalPath evaluates g and walks it from start.
func (e *Engine) OptimalPath(g *graph.Graph, start string) ([]string, error) {
	res, err := e.Evaluate(g)
	if err != nil {
		return nil, err
	}
	return e.path(g, res, start, e.goalOr(policy.Maximize))
}

// Analyze evaluates g, extracts the optimal path from start and formats every
// value. An empty start means the first registered node.
func (e *Engine) Analyze(g *graph.Graph, start string) (*Report, error) {
	return e.analyze(g, start, e.utilityOr(nil), e.goalOr(policy.Maximize), e.precision)
}

// AnalyzeDocument builds doc and analyzes it. Engine options take precedence
// over the document's own utility, goal, precision and start.
func (e *Engine) AnalyzeDocument(doc *treefile.Document) (*Report, *graph.Graph, error) {
	g, err := doc.Build(graph.WithLogger(e.logger))
	if err != nil {
		return nil, nil, err
	}

	u := e.utility
	if u == nil && doc.Utility != "" {
		if u, err = utility.Parse(doc.Utility); err != nil {
			return nil, nil, err
		}
	}

	goal := policy.Maximize
	if e.goal != nil {
		goal = *e.goal
	} else if goal, err = policy.ParseGoal(doc.Goal); err != nil {
		return nil, nil, err
	}

	decimals := e.precision
	if decimals == nil {
		decimals = doc.Precision
	}

	report, err := e.analyze(g, doc.Start, utility.OrIdentity(u), goal, decimals)
	if err != nil {
		return nil, nil, err
	}
	report.Name = doc.Name
	return report, g, nil
}

func (e *Engine) analyze(g *graph.Graph, start string, u utility.Transform, goal policy.Goal, decimals *int) (*Report, error) {
	if decimals != nil && *decimals < 0 {
		return nil, fmt.Errorf("precision must be >= 0, got %d", *decimals)
	}
	if start == "" {
		nodes := g.Nodes()
		if len(nodes) == 0 {
			return nil, fmt.Errorf("cannot analyze an empty tree")
		}
		start = nodes[0].ID
	}
	if !g.Has(start) {
		return nil, &domain.ReferenceError{Op: "analyze", ID: start}
	}

	res, err := e.evaluate(g, u)
	if err != nil {
		return nil, err
	}

	path, err := e.path(g, res, start, goal)
	if err != nil {
		return nil, err
	}

	choices, err := policy.Choices(g, res.Values, goal)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Values))
	for _, n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	prec := precision.DisplayPrecision(res.Slice(ids), decimals)

	formatted := make(map[string]string, len(res.Values))
	for id, v := range res.Values {
		formatted[id] = precision.FormatValue(v, prec)
	}

	return &Report{
		Start:     start,
		Goal:      goal.String(),
		Utility:   res.Utility.String(),
		Label:     res.Label(),
		Precision: prec,
		Values:    res.Values,
		Formatted: formatted,
		Path:      path,
		Choices:   choices,
		Result:    res,
	}, nil
}

func (e *Engine) evaluate(g *graph.Graph, u utility.Transform) (*engine.Result, error) {
	started := time.Now()
	res, err := engine.New(engine.WithUtility(u), engine.WithLogger(e.logger)).Evaluate(g)

	if e.hooks.OnEvaluate != nil {
		ev := &domain.EvaluationEvent{Utility: u.String(), Duration: time.Since(started), Err: err}
		if res != nil {
			ev.Nodes = len(res.Values)
		}
		e.hooks.OnEvaluate(ev)
	}
	if err != nil {
		e.logger.Warn("Evaluation failed", "utility", u.String(), "err", err)
		return nil, err
	}
	return res, nil
}

func (e *Engine) path(g *graph.Graph, res *engine.Result, start string, goal policy.Goal) ([]string, error) {
	path, err := policy.OptimalPath(g, res.Values, start, goal)
	if e.hooks.OnPath != nil {
		e.hooks.OnPath(&domain.PathEvent{Start: start, Goal: goal.String(), Path: path, Err: err})
	}
	return path, err
}

func (e *Engine) utilityOr(fallback utility.Transform) utility.Transform {
	if e.utility != nil {
		return e.utility
	}
	return utility.OrIdentity(fallback)
}

func (e *Engine) goalOr(fallback policy.Goal) policy.Goal {
	if e.goal != nil {
		return *e.goal
	}
	return fallback
}
