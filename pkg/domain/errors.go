package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrReference is returned when an operation names a node id that is not registered.
var ErrReference = errors.New("unknown node")

// ErrCycle is returned when evaluation re-enters a node that is still being computed.
var ErrCycle = errors.New("cycle detected")

// ErrDuplicateNode is returned when a node id is registered twice.
var ErrDuplicateNode = errors.New("duplicate node id")

// ErrInvalidPayoff is returned for NaN or infinite terminal payoffs.
var ErrInvalidPayoff = errors.New("invalid payoff")

// ErrInvalidProbability is returned for NaN or infinite edge probabilities.
var ErrInvalidProbability = errors.New("invalid probability")

// ErrNonFinite is returned when a utility transform yields NaN or an infinity.
var ErrNonFinite = errors.New("non-finite value")

// ErrNotEvaluated is returned when a value table has no entry for a node.
var ErrNotEvaluated = errors.New("node not evaluated")

// ReferenceError describes which operation referenced which unknown id.
type ReferenceError struct {
	Op string // e.g. "add edge", "optimal path"
	ID string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: node %q does not exist", e.Op, e.ID)
}

// Is makes errors.Is(err, ErrReference) hold for every ReferenceError.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// CycleError carries the node ids forming the detected cycle.
// The first and last entries are the same id.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return ErrCycle.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

// Is makes errors.Is(err, ErrCycle) hold for every CycleError.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}
