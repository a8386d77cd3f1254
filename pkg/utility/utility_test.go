package utility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	for _, v := range []float64{0, -50, 200, 1e9} {
		assert.Equal(t, v, Identity.Apply(v))
	}
	assert.True(t, IsIdentity(Identity))
	assert.True(t, IsIdentity(nil))
	assert.False(t, IsIdentity(Linear(1)))
	assert.Equal(t, Identity, OrIdentity(nil))
}

func TestPresets(t *testing.T) {
	tests := []struct {
		name  string
		t     Transform
		input float64
		want  float64
	}{
		{"risk averse at zero", RiskAverse(100), 0, 0},
		{"risk averse", RiskAverse(100), 100, 1 - math.Exp(-1)},
		{"risk seeking", RiskSeeking(100), 300, 9},
		{"risk seeking negative", RiskSeeking(100), -200, 4},
		{"linear", Linear(100), -50, -0.5},
		{"log positive", Logarithmic(10), 90, math.Log(10)},
		{"log negative", Logarithmic(10), -90, -math.Log(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.t.Apply(tt.input), 1e-12)
		})
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Presets() {
		tr, ok := Lookup(name)
		require.True(t, ok, name)
		require.NotNil(t, tr)
	}

	tr, ok := Lookup("")
	assert.True(t, ok)
	assert.True(t, IsIdentity(tr))

	_, ok = Lookup("nope")
	assert.False(t, ok)
}

func TestCompile(t *testing.T) {
	tests := []struct {
		source string
		input  float64
		want   float64
	}{
		{"1 - exp(-x / 100)", 100, 1 - math.Exp(-1)},
		{"x ** 2 / 10000", 300, 9},
		{"sign(x) * log(1 + abs(x) / 10)", -90, -math.Log(10)},
		{"sqrt(x)", 16, 4},
		{"2", 123, 2},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			tr, err := Compile(tt.source)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, tr.Apply(tt.input), 1e-12)
			assert.Equal(t, tt.source, tr.String())
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile("")
	assert.Error(t, err)

	_, err = Compile("x +")
	assert.Error(t, err)

	_, err = Compile("unknown_fn(x)")
	assert.Error(t, err)
}

func TestCompile_DomainErrorYieldsNaN(t *testing.T) {
	tr, err := Compile("log(x)")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(tr.Apply(-1)))
}

func TestParse(t *testing.T) {
	tr, err := Parse("risk-averse")
	require.NoError(t, err)
	assert.Equal(t, "risk-averse(100)", tr.String())

	tr, err = Parse("x / 2")
	require.NoError(t, err)
	assert.Equal(t, 5.0, tr.Apply(10))

	_, err = Parse("risk-neutral(")
	assert.Error(t, err)
}
