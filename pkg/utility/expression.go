package utility

import (
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// PayoffVar is the variable holding the raw payoff inside an expression.
const PayoffVar = "x"

var mathEnv = map[string]any{
	"exp":   math.Exp,
	"log":   math.Log,
	"log10": math.Log10,
	"sqrt":  math.Sqrt,
	"pow":   math.Pow,
	"sign": func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	},
}

func newEnv(x float64) map[string]any {
	env := make(map[string]any, len(mathEnv)+1)
	for k, v := range mathEnv {
		env[k] = v
	}
	env[PayoffVar] = x
	return env
}

type expression struct {
	source  string
	program *vm.Program
}

// Compile builds a Transform from an expression over x, e.g. "1 - exp(-x / 100)".
// Available helpers: exp, log, log10, sqrt, pow, sign, plus the expr builtins
// (abs, min, max, floor, ceil, round).
func Compile(source string) (Transform, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("empty utility expression")
	}
	program, err := expr.Compile(source, expr.Env(newEnv(0)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("invalid utility expression %q: %w", source, err)
	}
	return &expression{source: source, program: program}, nil
}

// Apply evaluates the expression. Runtime failures yield NaN, which the
// evaluation engine reports as a non-finite value.
func (e *expression) Apply(payoff float64) float64 {
	out, err := expr.Run(e.program, newEnv(payoff))
	if err != nil {
		return math.NaN()
	}
	v, ok := out.(float64)
	if !ok {
		return math.NaN()
	}
	return v
}

func (e *expression) String() string {
	return e.source
}
