/*
Package dsl provides a fluent Go builder for decision trees.

It is an alternative to tree documents when trees are generated by code or
written inline in tests. Nodes can reference children declared later; edges
are only resolved by Build.

Example usage:

	b := dsl.New()

	b.Add("D1").Decision("Invest in Project").
		Go("C1").
		Go("C2")

	b.Add("C1").Chance("Market Success").
		Branch(0.7, "T1").
		Branch(0.3, "T2")

	b.Add("C2").Chance("Market Failure").Go("T2")

	b.Add("T1").Terminal("High Success", 200)
	b.Add("T2").Terminal("Failure", -50)

	g, err := b.Build()
*/
package dsl
