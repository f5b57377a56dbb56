package nodes

import (
	"math"

	"github.com/lightgraph/lightgraph/internal/core/easing"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const (
	KindColorMix      = "color.mix"
	KindColorRGBA     = "color.rgba"
	KindColorGradient = "color.gradient"
)

func mixFactory(n *graph.Node) graph.Logic {
	a := n.AddInput("A", types.ColorType)
	b := n.AddInput("B", types.ColorType)
	f := n.AddInput("Amount", types.Numeric)
	_ = f.SetValue(0.5)
	out := n.AddOutput("Color", types.ColorType)
	return graph.LogicFunc(func(n *graph.Node) error {
		return out.SetValue(easing.BlendColor(a.Color(), b.Color(), clamp01(f.Numeric())))
	})
}

func rgbaFactory(n *graph.Node) graph.Logic {
	r := n.AddInput("R", types.Integer)
	g := n.AddInput("G", types.Integer)
	b := n.AddInput("B", types.Integer)
	a := n.AddInput("A", types.Integer)
	_ = a.SetValue(255)
	out := n.AddOutput("Color", types.ColorType)
	return graph.LogicFunc(func(n *graph.Node) error {
		return out.SetValue(types.RGBA(channel(r), channel(g), channel(b), channel(a)))
	})
}

// gradient samples evenly spaced color stops at Position
type gradient struct {
	stops    *graph.PinCollection
	position *graph.Pin
	out      *graph.Pin
}

func (g *gradient) Evaluate(n *graph.Node) error {
	pins := g.stops.Pins()
	p := clamp01(g.position.Numeric())
	if len(pins) == 1 {
		return g.out.SetValue(pins[0].Color())
	}
	scaled := p * float64(len(pins)-1)
	i := int(math.Floor(scaled))
	if i >= len(pins)-1 {
		return g.out.SetValue(pins[len(pins)-1].Color())
	}
	return g.out.SetValue(easing.BlendColor(pins[i].Color(), pins[i+1].Color(), scaled-float64(i)))
}

func gradientFactory(n *graph.Node) graph.Logic {
	return &gradient{
		stops:    n.AddInputCollection("Colors", types.ColorType, 2, 1),
		position: n.AddInput("Position", types.Numeric),
		out:      n.AddOutput("Color", types.ColorType),
	}
}

func channel(p *graph.Pin) uint8 {
	return uint8(min(max(p.Integer(), 0), 255))
}

func clamp01(f float64) float64 {
	return math.Min(math.Max(f, 0), 1)
}

func colorKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindColorMix, CategoryColor, "Mix", "Blends color A towards B", types.ColorType, types.ColorType, mixFactory),
		kind(KindColorRGBA, CategoryColor, "RGBA", "Builds a color from its channels", types.Integer, types.ColorType, rgbaFactory),
		kind(KindColorGradient, CategoryColor, "Gradient", "Samples evenly spaced color stops", types.ColorType, types.ColorType, gradientFactory),
	}
}
