package domain

import "time"

// EvaluationEvent describes one finished evaluation pass.
type EvaluationEvent struct {
	Utility  string        `json:"utility"`
	Nodes    int           `json:"nodes"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// PathEvent describes one optimal-path extraction.
type PathEvent struct {
	Start string   `json:"start"`
	Goal  string   `json:"goal"`
	Path  []string `json:"path"`
	Err   error    `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnEvaluate func(*EvaluationEvent)
	OnPath     func(*PathEvent)
}
