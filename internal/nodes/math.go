package nodes

import (
	"math"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const (
	KindSum      = "math.sum"
	KindMin      = "math.min"
	KindMax      = "math.max"
	KindSubtract = "math.subtract"
	KindMultiply = "math.multiply"
	KindDivide   = "math.divide"
	KindModulo   = "math.modulo"
	KindClamp    = "math.clamp"
	KindRound    = "math.round"
)

func variadicNumeric(op func(acc, v float64) float64) registry.Factory {
	return func(n *graph.Node) graph.Logic {
		values := n.AddInputCollection("Values", types.Numeric, 2, 1)
		out := n.AddOutput("Result", types.Numeric)
		return graph.LogicFunc(func(n *graph.Node) error {
			pins := values.Pins()
			acc := pins[0].Numeric()
			for _, p := range pins[1:] {
				acc = op(acc, p.Numeric())
			}
			return out.SetValue(acc)
		})
	}
}

// binaryNumeric wires A and B into Result. op may fail the node.
func binaryNumeric(op func(a, b float64) (float64, error)) registry.Factory {
	return func(n *graph.Node) graph.Logic {
		a := n.AddInput("A", types.Numeric)
		b := n.AddInput("B", types.Numeric)
		out := n.AddOutput("Result", types.Numeric)
		return graph.LogicFunc(func(n *graph.Node) error {
			v, err := op(a.Numeric(), b.Numeric())
			if err != nil {
				return err
			}
			return out.SetValue(v)
		})
	}
}

func clampFactory(n *graph.Node) graph.Logic {
	value := n.AddInput("Value", types.Numeric)
	lo := n.AddInput("Minimum", types.Numeric)
	hi := n.AddInput("Maximum", types.Numeric)
	_ = hi.SetValue(1.0)
	out := n.AddOutput("Result", types.Numeric)
	return graph.LogicFunc(func(n *graph.Node) error {
		if lo.Numeric() > hi.Numeric() {
			return ErrInvalidBounds
		}
		return out.SetValue(math.Min(math.Max(value.Numeric(), lo.Numeric()), hi.Numeric()))
	})
}

func roundFactory(n *graph.Node) graph.Logic {
	in := n.AddInput("Input", types.Numeric)
	out := n.AddOutput("Output", types.Integer)
	return graph.LogicFunc(func(n *graph.Node) error {
		return out.SetValue(int(math.Round(in.Numeric())))
	})
}

func mathKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindSum, CategoryMath, "Sum", "Sums the connected numeric values", types.Numeric, types.Numeric,
			variadicNumeric(func(acc, v float64) float64 { return acc + v })),
		kind(KindMin, CategoryMath, "Min", "Outputs the smallest connected numeric value", types.Numeric, types.Numeric,
			variadicNumeric(math.Min)),
		kind(KindMax, CategoryMath, "Max", "Outputs the largest connected numeric value", types.Numeric, types.Numeric,
			variadicNumeric(math.Max)),
		kind(KindSubtract, CategoryMath, "Subtract", "Subtracts B from A", types.Numeric, types.Numeric,
			binaryNumeric(func(a, b float64) (float64, error) { return a - b, nil })),
		kind(KindMultiply, CategoryMath, "Multiply", "Multiplies A by B", types.Numeric, types.Numeric,
			binaryNumeric(func(a, b float64) (float64, error) { return a * b, nil })),
		kind(KindDivide, CategoryMath, "Divide", "Divides A by B", types.Numeric, types.Numeric,
			binaryNumeric(func(a, b float64) (float64, error) {
				if b == 0 {
					return 0, ErrDivideByZero
				}
				return a / b, nil
			})),
		kind(KindModulo, CategoryMath, "Modulo", "Remainder of A divided by B", types.Numeric, types.Numeric,
			binaryNumeric(func(a, b float64) (float64, error) {
				if b == 0 {
					return 0, ErrDivideByZero
				}
				return math.Mod(a, b), nil
			})),
		kind(KindClamp, CategoryMath, "Clamp", "Clamps the value between minimum and maximum", types.Numeric, types.Numeric, clampFactory),
		kind(KindRound, CategoryMath, "Round", "Rounds to the nearest integer", types.Numeric, types.Integer, roundFactory),
	}
}
