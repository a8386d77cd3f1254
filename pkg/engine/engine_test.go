package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/aretw0/dtree/internal/testutils"
	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/aretw0/dtree/pkg/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func investmentTree(t *testing.T) *graph.Graph {
	return testutils.InvestmentTree(t)
}

func TestEvaluate_InvestmentScenario(t *testing.T) {
	res, err := Evaluate(investmentTree(t), nil)
	require.NoError(t, err)

	assert.InDelta(t, 120.0, res.Values["C1"], 1e-9)
	assert.InDelta(t, -50.0, res.Values["C2"], 1e-9)
	assert.InDelta(t, 120.0, res.Values["D1"], 1e-9)
	assert.Equal(t, 200.0, res.Values["T1"])
	assert.Equal(t, -50.0, res.Values["T4"])
	assert.Len(t, res.Values, 7)
	assert.Equal(t, "EV", res.Label())
	assert.False(t, res.ExpectedUtility())
}

func TestEvaluate_SingleEdge(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddDecisionNode("start", "Start"))
	require.NoError(t, g.AddTerminalNode("end", "End", 100))
	require.NoError(t, g.Connect("start", "end"))

	res, err := New().Evaluate(g)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Values["start"])
	assert.Equal(t, 100.0, res.Values["end"])
}

func TestEvaluate_Properties(t *testing.T) {
	g := investmentTree(t)
	u := utility.RiskAverse(100)
	res, err := New(WithUtility(u)).Evaluate(g)
	require.NoError(t, err)
	assert.Equal(t, "EU", res.Label())

	for _, n := range g.Nodes() {
		children := g.Children(n.ID)
		got := res.Values[n.ID]

		switch n.Kind {
		case domain.KindTerminal:
			payoff, _ := n.Payoff()
			assert.Equal(t, u.Apply(payoff), got, n.ID)
		case domain.KindChance:
			sum := 0.0
			for _, c := range children {
				sum += c.Probability * res.Values[c.ID]
			}
			assert.InDelta(t, sum, got, 1e-9, n.ID)
		case domain.KindDecision:
			best := math.Inf(-1)
			for _, c := range children {
				best = math.Max(best, res.Values[c.ID])
			}
			assert.Equal(t, best, got, n.ID)
		}
	}
}

func TestEvaluate_EmptyChildrenConvention(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddDecisionNode("d", "Stub decision"))
	require.NoError(t, g.AddChanceNode("c", "Stub chance"))

	res, err := Evaluate(g, utility.RiskAverse(100))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Values["d"])
	assert.Equal(t, 0.0, res.Values["c"])
}

func TestEvaluate_DecisionAllNegative(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddDecisionNode("d", "Least bad"))
	require.NoError(t, g.AddTerminalNode("a", "A", -30))
	require.NoError(t, g.AddTerminalNode("b", "B", -10))
	require.NoError(t, g.Connect("d", "a"))
	require.NoError(t, g.Connect("d", "b"))

	res, err := Evaluate(g, nil)
	require.NoError(t, err)
	assert.Equal(t, -10.0, res.Values["d"])
}

func TestEvaluate_TerminalIgnoresOutgoingEdges(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddTerminalNode("t", "Leaf", 7))
	require.NoError(t, g.AddTerminalNode("x", "Other", 1000))
	require.NoError(t, g.Connect("t", "x"))

	res, err := Evaluate(g, nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.Values["t"])
}

func TestEvaluate_SharedSubtreeAppliesUtilityOnce(t *testing.T) {
	calls := 0
	counting := utility.New("counting", func(x float64) float64 {
		calls++
		return x * 2
	})

	g := graph.New()
	require.NoError(t, g.AddDecisionNode("root", "Root"))
	require.NoError(t, g.AddChanceNode("a", "A"))
	require.NoError(t, g.AddChanceNode("b", "B"))
	require.NoError(t, g.AddTerminalNode("shared", "Shared", 10))
	require.NoError(t, g.Connect("root", "a"))
	require.NoError(t, g.Connect("root", "b"))
	require.NoError(t, g.AddEdge("a", "shared", 0.5))
	require.NoError(t, g.AddEdge("b", "shared", 1.0))

	res, err := Evaluate(g, counting)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 20.0, res.Values["shared"])
	assert.Equal(t, 10.0, res.Values["a"])
	assert.Equal(t, 20.0, res.Values["root"])
}

func TestEvaluate_Idempotent(t *testing.T) {
	g := investmentTree(t)
	eng := New(WithUtility(utility.Logarithmic(10)))

	first, err := eng.Evaluate(g)
	require.NoError(t, err)
	second, err := eng.Evaluate(g)
	require.NoError(t, err)
	assert.Equal(t, first.Values, second.Values)

	// A different utility on the same graph does not see stale values.
	plain, err := Evaluate(g, nil)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, plain.Values["D1"], 1e-9)
	assert.NotEqual(t, first.Values["D1"], plain.Values["D1"])
}

func TestEvaluate_Cycle(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddDecisionNode("A", "A"))
	require.NoError(t, g.AddChanceNode("B", "B"))
	require.NoError(t, g.Connect("A", "B"))
	require.NoError(t, g.Connect("B", "A"))

	res, err := Evaluate(g, nil)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCycle))

	var cycErr *domain.CycleError
	require.ErrorAs(t, err, &cycErr)
	assert.Equal(t, []string{"A", "B", "A"}, cycErr.Path)
}

func TestEvaluate_SelfLoop(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddDecisionNode("root", "Root"))
	require.NoError(t, g.AddChanceNode("loop", "Loop"))
	require.NoError(t, g.Connect("root", "loop"))
	require.NoError(t, g.Connect("loop", "loop"))

	_, err := Evaluate(g, nil)
	var cycErr *domain.CycleError
	require.ErrorAs(t, err, &cycErr)
	assert.Equal(t, []string{"loop", "loop"}, cycErr.Path)
}

func TestEvaluate_DeepChain(t *testing.T) {
	const depth = 200_000
	g := graph.New()
	for i := 0; i < depth; i++ {
		require.NoError(t, g.AddChanceNode(fmt.Sprintf("n%d", i), ""))
	}
	require.NoError(t, g.AddTerminalNode("leaf", "Leaf", 1))
	for i := 0; i < depth-1; i++ {
		require.NoError(t, g.Connect(fmt.Sprintf("n%d", i), fmt.Sprintf("n%d", i+1)))
	}
	require.NoError(t, g.Connect(fmt.Sprintf("n%d", depth-1), "leaf"))

	res, err := Evaluate(g, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Values["n0"])
}

func TestEvaluate_WithRoots(t *testing.T) {
	g := investmentTree(t)
	require.NoError(t, g.AddDecisionNode("orphan", "Unreachable"))

	res, err := New(WithRoots("C1")).Evaluate(g)
	require.NoError(t, err)
	assert.Len(t, res.Values, 4)
	_, ok := res.Value("D1")
	assert.False(t, ok)

	_, err = New(WithRoots("ghost")).Evaluate(g)
	assert.ErrorIs(t, err, domain.ErrReference)
}

func TestEvaluate_NonFiniteUtility(t *testing.T) {
	g := investmentTree(t)
	logUtility, err := utility.Compile("log(x)")
	require.NoError(t, err)

	res, err := Evaluate(g, logUtility)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrNonFinite)
}

func TestEngine_ConcurrentPasses(t *testing.T) {
	g := investmentTree(t)
	transforms := []utility.Transform{utility.Identity, utility.Linear(100), utility.RiskSeeking(100)}

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(u utility.Transform) {
			defer wg.Done()
			res, err := Evaluate(g, u)
			if err != nil {
				errs <- err
				return
			}
			if want := u.Apply(-50); res.Values["T4"] != want {
				errs <- fmt.Errorf("T4 = %v, want %v", res.Values["T4"], want)
			}
		}(transforms[i%len(transforms)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestResult_Slice(t *testing.T) {
	res := &Result{Values: map[string]float64{"a": 1, "b": 2}}
	assert.Equal(t, []float64{2, 1}, res.Slice([]string{"b", "ghost", "a"}))
	assert.Equal(t, "EV", res.Label())
}
