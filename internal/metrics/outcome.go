package metrics

import (
	"errors"

	"github.com/aretw0/dtree/pkg/domain"
)

// Outcome classifies an evaluation error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCycle):
		return "cycle"
	case errors.Is(err, domain.ErrReference):
		return "reference"
	case errors.Is(err, domain.ErrNonFinite):
		return "non_finite"
	default:
		return "error"
	}
}
