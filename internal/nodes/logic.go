package nodes

import (
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const (
	KindAnd = "logic.and"
	KindOr  = "logic.or"
	KindXor = "logic.xor"
	KindNot = "logic.not"
)

// variadicBool folds a "Values" collection with op
func variadicBool(op func(acc, v bool) bool) registry.Factory {
	return func(n *graph.Node) graph.Logic {
		values := n.AddInputCollection("Values", types.Bool, 2, 1)
		out := n.AddOutput("Result", types.Bool)
		return graph.LogicFunc(func(n *graph.Node) error {
			pins := values.Pins()
			acc := pins[0].Bool()
			for _, p := range pins[1:] {
				acc = op(acc, p.Bool())
			}
			return out.SetValue(acc)
		})
	}
}

func notFactory(n *graph.Node) graph.Logic {
	in := n.AddInput("Input", types.Bool)
	out := n.AddOutput("Output", types.Bool)
	return graph.LogicFunc(func(n *graph.Node) error {
		return out.SetValue(!in.Bool())
	})
}

func logicKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindAnd, CategoryLogic, "And", "Checks if all inputs are true", types.Bool, types.Bool,
			variadicBool(func(acc, v bool) bool { return acc && v })),
		kind(KindOr, CategoryLogic, "Or", "Checks if any input is true", types.Bool, types.Bool,
			variadicBool(func(acc, v bool) bool { return acc || v })),
		kind(KindXor, CategoryLogic, "Exclusive Or", "Checks if an odd number of inputs is true", types.Bool, types.Bool,
			variadicBool(func(acc, v bool) bool { return acc != v })),
		kind(KindNot, CategoryLogic, "Not", "Inverts the input", types.Bool, types.Bool, notFactory),
	}
}
