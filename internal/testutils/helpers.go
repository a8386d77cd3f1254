package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/dtree/pkg/dsl"
	"github.com/aretw0/dtree/pkg/graph"
	"github.com/stretchr/testify/require"
)

// InvestmentTree builds the D1/C1/C2 investment scenario:
// EV(C1)=120, EV(C2)=-50, EV(D1)=120, optimal path D1 -> C1 -> T1.
// The decision edges carry probabilities 0.6/0.4, which evaluation ignores.
func InvestmentTree(t *testing.T, opts ...graph.Option) *graph.Graph {
	t.Helper()

	b := dsl.New()
	b.Add("D1").Decision("Invest in Project").Branch(0.6, "C1").Branch(0.4, "C2")
	b.Add("C1").Chance("Market Success").Branch(0.3, "T1").Branch(0.5, "T2").Branch(0.2, "T3")
	b.Add("C2").Chance("Market Failure").Go("T4")
	b.Add("T1").Terminal("High Success", 200)
	b.Add("T2").Terminal("Moderate Success", 100)
	b.Add("T3").Terminal("Low Success", 50)
	b.Add("T4").Terminal("Failure", -50)

	g, err := b.Build(opts...)
	require.NoError(t, err, "Failed to build investment tree")
	return g
}

// WriteFile creates name with content in a fresh temp dir and returns its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", name)
	return path
}
