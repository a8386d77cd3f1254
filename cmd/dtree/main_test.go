package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/dtree"
	"github.com/aretw0/dtree/internal/testutils"
	"github.com/aretw0/dtree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	investmentTree = filepath.Join("..", "..", "testdata", "investment.yaml")
	riskChoiceTree = filepath.Join("..", "..", "testdata", "risk_choice.yaml")
)

const sloppyTree = `
start: C
nodes:
  - {id: C, type: chance}
  - {id: T, type: terminal, payoff: 10}
  - {id: orphan, type: terminal, payoff: 1}
edges:
  - {from: C, to: T, probability: 0.5}
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTree(t *testing.T, content string) string {
	return testutils.WriteFile(t, "tree.yaml", content)
}

func TestEval(t *testing.T) {
	out, _, err := execute(t, "eval", investmentTree)
	require.NoError(t, err)
	assert.Contains(t, out, "# Decision Tree Summary: Investment")
	assert.Contains(t, out, "expected values (EV)")
	assert.Contains(t, out, "| 120.00 |")
}

func TestEval_JSON(t *testing.T) {
	out, _, err := execute(t, "eval", investmentTree, "--json", "--utility", "risk-averse", "--precision", "4")
	require.NoError(t, err)

	var report dtree.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "EU", report.Label)
	assert.Equal(t, "risk-averse(100)", report.Utility)
	assert.Equal(t, "0.6542", report.Formatted["D1"])
	assert.Equal(t, []string{"D1", "C1", "T1"}, report.Path)
}

func TestEval_StructuralWarnings(t *testing.T) {
	path := writeTree(t, sloppyTree)

	out, logs, err := execute(t, "eval", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Decision Tree Summary")
	assert.Contains(t, logs, "Structural warning")
	assert.Contains(t, logs, "orphan")

	_, _, err = execute(t, "eval", path, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
}

func TestEval_Errors(t *testing.T) {
	_, _, err := execute(t, "eval", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, _, err = execute(t, "eval", investmentTree, "--goal", "sideways")
	assert.ErrorContains(t, err, "sideways")

	_, _, err = execute(t, "eval", investmentTree, "--log-level", "loud")
	assert.ErrorContains(t, err, "loud")

	cyclic := writeTree(t, "nodes: [{id: A, type: decision}, {id: B, type: chance}]\nedges: [{from: A, to: B}, {from: B, to: A}]\n")
	_, _, err = execute(t, "eval", cyclic)
	assert.ErrorContains(t, err, "A -> B -> A")
}

func TestPath(t *testing.T) {
	out, _, err := execute(t, "path", investmentTree, "--ids")
	require.NoError(t, err)
	assert.Equal(t, "D1 -> C1 -> T1\n", out)

	out, _, err = execute(t, "path", investmentTree, "--ids", "--goal", "min")
	require.NoError(t, err)
	assert.Equal(t, "D1 -> C2 -> T4\n", out)

	out, _, err = execute(t, "path", investmentTree)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "STEP")
	assert.Contains(t, lines[0], "EV")
	assert.Contains(t, lines[1], "Invest in Project")
	assert.Contains(t, lines[1], "120.00")

	_, _, err = execute(t, "path", investmentTree, "--start", "nope")
	assert.ErrorContains(t, err, "nope")
}

func TestGraph(t *testing.T) {
	out, _, err := execute(t, "graph", investmentTree)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph LR\n"))
	assert.Contains(t, out, "class D1 optimal;")

	out, _, err = execute(t, "graph", investmentTree, "--no-highlight")
	require.NoError(t, err)
	assert.NotContains(t, out, "optimal")

	file := filepath.Join(t.TempDir(), "tree.md")
	out, _, err = execute(t, "graph", investmentTree, "--out", file)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "```mermaid\ngraph LR\n"))
}

func TestValidate(t *testing.T) {
	out, _, err := execute(t, "validate", investmentTree)
	require.NoError(t, err)
	assert.Contains(t, out, "Tree is valid!")

	path := writeTree(t, sloppyTree)
	out, _, err = execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sum to 0.5")
	assert.Contains(t, out, `"orphan"`)

	_, _, err = execute(t, "validate", path, "--strict")
	assert.ErrorContains(t, err, "2 issue(s)")
}

func TestValidate_UnknownStart(t *testing.T) {
	path := writeTree(t, `
start: ghost
nodes:
  - {id: D, type: decision}
  - {id: T, type: terminal, payoff: 1}
edges:
  - {from: D, to: T}
`)
	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrReference)
	assert.Contains(t, err.Error(), "ghost")
	assert.NotContains(t, out, "Tree is valid!")
}

func TestCompare(t *testing.T) {
	out, _, err := execute(t, "compare", riskChoiceTree, "--utility-set", "identity", "--utility-set", "risk-averse")
	require.NoError(t, err)
	assert.Contains(t, out, "| identity | EV | 20.00 | 90.00 | Low Risk Strategy |")
	assert.Contains(t, out, "| risk-averse(100) | EU |")

	out, _, err = execute(t, "compare", riskChoiceTree)
	require.NoError(t, err)
	assert.Contains(t, out, "log(10)")
	assert.Contains(t, out, "risk-seeking(100)")

	_, _, err = execute(t, "compare", riskChoiceTree, "--utility-set", "x +")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dtree version "+dtree.Version+"\n", out)
}
