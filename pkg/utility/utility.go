// Package utility provides the transforms applied to terminal payoffs before
// backward induction.
//
// The default transform is Identity, which makes the engine compute literal
// expected values. Any other transform turns every downstream quantity into an
// expected utility; presentation layers must label values accordingly.
package utility

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Transform maps a raw terminal payoff to a utility value.
// Implementations are expected to be pure and monotonic; neither is enforced.
type Transform interface {
	Apply(payoff float64) float64
	String() string
}

// Func adapts a plain function to Transform.
type Func func(payoff float64) float64

// Apply calls f.
func (f Func) Apply(payoff float64) float64 { return f(payoff) }

// String returns a generic label.
func (f Func) String() string { return "custom" }

type named struct {
	name string
	fn   func(float64) float64
}

func (n named) Apply(payoff float64) float64 { return n.fn(payoff) }
func (n named) String() string               { return n.name }

type identity struct{}

func (identity) Apply(payoff float64) float64 { return payoff }
func (identity) String() string               { return "identity" }

// Identity is the default transform.
var Identity Transform = identity{}

// New wraps fn as a Transform labelled name.
func New(name string, fn func(float64) float64) Transform {
	return named{name: name, fn: fn}
}

// IsIdentity reports whether t leaves payoffs unchanged (nil counts as identity).
func IsIdentity(t Transform) bool {
	if t == nil {
		return true
	}
	_, ok := t.(identity)
	return ok
}

// OrIdentity returns t, or Identity when t is nil.
func OrIdentity(t Transform) Transform {
	if t == nil {
		return Identity
	}
	return t
}

// RiskAverse is U(x) = 1 - e^(-x/scale).
func RiskAverse(scale float64) Transform {
	return New(fmt.Sprintf("risk-averse(%g)", scale), func(x float64) float64 {
		return 1 - math.Exp(-x/scale)
	})
}

// RiskSeeking is U(x) = x² / scale².
func RiskSeeking(scale float64) Transform {
	return New(fmt.Sprintf("risk-seeking(%g)", scale), func(x float64) float64 {
		return (x * x) / (scale * scale)
	})
}

// Linear is U(x) = x / scale.
func Linear(scale float64) Transform {
	return New(fmt.Sprintf("linear(%g)", scale), func(x float64) float64 {
		return x / scale
	})
}

// Logarithmic is U(x) = sign(x) * ln(1 + |x|/scale).
func Logarithmic(scale float64) Transform {
	return New(fmt.Sprintf("log(%g)", scale), func(x float64) float64 {
		if x >= 0 {
			return math.Log1p(x / scale)
		}
		return -math.Log1p(-x / scale)
	})
}

var presets = map[string]func() Transform{
	"identity":     func() Transform { return Identity },
	"risk-averse":  func() Transform { return RiskAverse(100) },
	"risk-seeking": func() Transform { return RiskSeeking(100) },
	"linear":       func() Transform { return Linear(100) },
	"log":          func() Transform { return Logarithmic(10) },
}

// Presets returns the names accepted by Lookup, sorted.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a preset by name. The empty name resolves to Identity.
func Lookup(name string) (Transform, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "none" {
		return Identity, true
	}
	ctor, ok := presets[name]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Parse resolves spec as a preset name first and as an expression otherwise.
func Parse(spec string) (Transform, error) {
	if t, ok := Lookup(spec); ok {
		return t, nil
	}
	return Compile(spec)
}
