/*
Package domain contains the core domain models of the dtree engine.

It defines the fundamental entities of a decision tree: Nodes (Decision, Chance
and Terminal), the Edges that connect them, and the error taxonomy shared by the
graph model, the evaluation engine and the policy selector. This package is kept
pure and free of I/O, following the same Hexagonal Architecture principles as the
rest of the module.

# Key Entities

  - Node: a point in the tree. Its Kind is fixed at construction; only Terminal
    nodes carry a payoff.
  - Edge: a directed link with a probability (branch weight). The weight is only
    meaningful when the source is a Chance node.
  - Child: the (target, probability) pair seen from the source of an Edge.
*/
package domain
