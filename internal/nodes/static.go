package nodes

import (
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const (
	KindStaticBool    = "static.bool"
	KindStaticInteger = "static.integer"
	KindStaticNumeric = "static.numeric"
	KindStaticString  = "static.string"
	KindStaticColor   = "static.color"
)

// static outputs the value held in node storage
type static[T any] struct {
	out   *graph.Pin
	value T
}

func (s *static[T]) Evaluate(n *graph.Node) error {
	return s.out.SetValue(s.value)
}

func (s *static[T]) StorageChanged(n *graph.Node) error {
	v, err := graph.DecodeStorage[T](n)
	if err != nil {
		return err
	}
	s.value = v
	return nil
}

func staticFactory[T any](t types.ValueType) registry.Factory {
	return func(n *graph.Node) graph.Logic {
		return &static[T]{out: n.AddOutput("Value", t)}
	}
}

func staticKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindStaticBool, CategoryStatic, "Boolean", "Outputs a configurable boolean", types.Any, types.Bool, staticFactory[bool](types.Bool)),
		kind(KindStaticInteger, CategoryStatic, "Integer", "Outputs a configurable integer", types.Any, types.Integer, staticFactory[int](types.Integer)),
		kind(KindStaticNumeric, CategoryStatic, "Numeric", "Outputs a configurable number", types.Any, types.Numeric, staticFactory[float64](types.Numeric)),
		kind(KindStaticString, CategoryStatic, "Text", "Outputs a configurable text", types.Any, types.String, staticFactory[string](types.String)),
		kind(KindStaticColor, CategoryStatic, "Color", "Outputs a configurable color", types.Any, types.ColorType, staticFactory[types.Color](types.ColorType)),
	}
}
