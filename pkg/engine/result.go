package engine

import (
	"github.com/aretw0/dtree/pkg/utility"
)

// Result is the value table produced by one pass, at full precision.
type Result struct {
	Values  map[string]float64
	Utility utility.Transform
}

// Value returns the computed value of id.
func (r *Result) Value(id string) (float64, bool) {
	v, ok := r.Values[id]
	return v, ok
}

// ExpectedUtility reports whether values are utilities rather than raw payoffs.
func (r *Result) ExpectedUtility() bool {
	return !utility.IsIdentity(r.Utility)
}

// Label is the short name of the quantity: "EV" for expected value, "EU" for
// expected utility.
func (r *Result) Label() string {
	if r.ExpectedUtility() {
		return "EU"
	}
	return "EV"
}

// Slice returns the values in the order of ids; unknown ids are skipped.
func (r *Result) Slice(ids []string) []float64 {
	out := make([]float64, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.Values[id]; ok {
			out = append(out, v)
		}
	}
	return out
}
