/*
Package engine computes expected (or utility-adjusted) values over a decision
tree by backward induction.

Values are computed bottom-up:

  - Terminal: the utility of its payoff, applied exactly once at the leaf.
  - Chance: the probability-weighted sum of its children, in child order.
  - Decision: the maximum over its children.

A Chance or Decision node without children evaluates to 0.0 by convention.

The traversal is an explicit-stack post-order walk with a three-state marker
(unvisited, in progress, done). Every node is computed at most once per pass, so
shared sub-trees are cheap, and re-entering an in-progress node fails with a
*domain.CycleError instead of recursing forever. Each pass owns its own value
table; the graph itself is never written to, which makes an Engine safe to use
from several goroutines at once.
*/
package engine
