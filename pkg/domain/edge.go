package domain

// DefaultProbability is the weight assigned to an edge when none is given.
const DefaultProbability = 1.0

// Edge connects two registered nodes.
// Probability is a branch weight when From is a Chance node. For Decision nodes
// it is stored (and may be displayed) but ignored by evaluation.
type Edge struct {
	From        string  `json:"from" yaml:"from"`
	To          string  `json:"to" yaml:"to"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// Child is an outgoing edge seen from its source node.
type Child struct {
	ID          string  `json:"id"`
	Probability float64 `json:"probability"`
}
