// Package graph is the append-only store of a decision tree.
//
// A Graph owns every Node and Edge registered through its builder methods. Nodes
// are kept in registration order and edges in insertion order per source node;
// that order drives child iteration, tie-breaks and the illustrative Chance-node
// choice made by the policy selector.
//
// Builder calls take the write lock. Evaluation passes read the graph through
// View, which holds the read lock for the whole pass, so structural mutation can
// never interleave with a pass.
package graph
