package dsl

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/dtree/pkg/domain"
	"github.com/aretw0/dtree/pkg/engine"
)

func TestBuilder_InvestmentTree(t *testing.T) {
	b := New()

	// Children are referenced before they are declared.
	b.Add("D1").Decision("Invest in Project").
		Go("C1").
		Go("C2")

	b.Add("C1").Chance("Market Success").
		Branch(0.3, "T1").
		Branch(0.5, "T2").
		Branch(0.2, "T3")

	b.Add("C2").Chance("Market Failure").Go("T4")

	b.Add("T1").Terminal("High Success", 200)
	b.Add("T2").Terminal("Moderate Success", 100)
	b.Add("T3").Terminal("Low Success", 50)
	b.Add("T4").Terminal("Failure", -50)

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if g.Len() != 7 {
		t.Fatalf("Expected 7 nodes, got %d", g.Len())
	}
	if first := g.Nodes()[0].ID; first != "D1" {
		t.Errorf("Expected declaration order to start with D1, got %s", first)
	}

	children := g.Children("C1")
	if len(children) != 3 {
		t.Fatalf("Expected 3 outcomes on C1, got %d", len(children))
	}
	if children[1].ID != "T2" || children[1].Probability != 0.5 {
		t.Errorf("Expected second outcome T2@0.5, got %s@%v", children[1].ID, children[1].Probability)
	}
	if p := g.Children("D1")[0].Probability; p != domain.DefaultProbability {
		t.Errorf("Expected Go to use probability 1, got %v", p)
	}

	res, err := engine.Evaluate(g, nil)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if v, _ := res.Value("D1"); math.Abs(v-120) > 1e-9 {
		t.Errorf("Expected EV(D1)=120, got %v", v)
	}
}

func TestBuilder_AddReturnsExistingNode(t *testing.T) {
	b := New()
	b.Add("D").Decision("Choose").Go("T")
	b.Add("D").Go("U")
	b.Add("T").Terminal("t", 1)
	b.Add("U").Terminal("u", 2)

	g := b.MustBuild()
	if got := len(g.Children("D")); got != 2 {
		t.Errorf("Expected both edges on D, got %d", got)
	}
}

func TestBuilder_TerminalDropsChildren(t *testing.T) {
	b := New()
	b.Add("T").Go("X").Terminal("end", 5)
	b.Add("X").Terminal("x", 0)

	g := b.MustBuild()
	if got := len(g.Children("T")); got != 0 {
		t.Errorf("Expected terminal without children, got %d", got)
	}
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("missing type", func(t *testing.T) {
		b := New()
		b.Add("A")
		if _, err := b.Build(); err == nil {
			t.Fatal("Expected error for a node without type")
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		b := New()
		b.Add("A").Decision("a").Go("ghost")
		_, err := b.Build()
		if !errors.Is(err, domain.ErrReference) {
			t.Fatalf("Expected ErrReference, got %v", err)
		}
	})

	t.Run("non-finite payoff", func(t *testing.T) {
		b := New()
		b.Add("T").Terminal("t", math.Inf(1))
		_, err := b.Build()
		if !errors.Is(err, domain.ErrInvalidPayoff) {
			t.Fatalf("Expected ErrInvalidPayoff, got %v", err)
		}
	})

	t.Run("must build panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Expected MustBuild to panic")
			}
		}()
		b := New()
		b.Add("A")
		b.MustBuild()
	})
}
