package nodes

import (
	"reflect"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const (
	KindEquals      = "compare.equals"
	KindGreaterThan = "compare.greater"
	KindLessThan    = "compare.less"
)

func equalsFactory(n *graph.Node) graph.Logic {
	a := n.AddInput("A", types.Any)
	b := n.AddInput("B", types.Any)
	out := n.AddOutput("Result", types.Bool)
	return graph.LogicFunc(func(n *graph.Node) error {
		return out.SetValue(equal(a.Value(), b.Value()))
	})
}

// equal treats integers and numerics as the same number
func equal(a, b any) bool {
	fa, aNum := types.Coerce(a, types.Numeric)
	fb, bNum := types.Coerce(b, types.Numeric)
	if aNum && bNum {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func compareFactory(cmp func(a, b float64) bool) registry.Factory {
	return func(n *graph.Node) graph.Logic {
		a := n.AddInput("A", types.Numeric)
		b := n.AddInput("B", types.Numeric)
		out := n.AddOutput("Result", types.Bool)
		return graph.LogicFunc(func(n *graph.Node) error {
			return out.SetValue(cmp(a.Numeric(), b.Numeric()))
		})
	}
}

func compareKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindEquals, CategoryCompare, "Equals", "Checks if A equals B", types.Any, types.Bool, equalsFactory),
		kind(KindGreaterThan, CategoryCompare, "Greater Than", "Checks if A is greater than B", types.Numeric, types.Bool,
			compareFactory(func(a, b float64) bool { return a > b })),
		kind(KindLessThan, CategoryCompare, "Less Than", "Checks if A is less than B", types.Numeric, types.Bool,
			compareFactory(func(a, b float64) bool { return a < b })),
	}
}
