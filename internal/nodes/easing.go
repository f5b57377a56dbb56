package nodes

import (
	"github.com/lightgraph/lightgraph/internal/core/easing"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const KindEase = "easing.ease"

// ease maps Progress through the curve held in storage, then scales it from From to To
type ease struct {
	fn       easing.Function
	progress *graph.Pin
	from     *graph.Pin
	to       *graph.Pin
	out      *graph.Pin
}

func (e *ease) Evaluate(n *graph.Node) error {
	f := easing.Interpolate(e.progress.Numeric(), e.fn)
	return e.out.SetValue(easing.LerpFloat64(e.from.Numeric(), e.to.Numeric(), f))
}

func (e *ease) StorageChanged(n *graph.Node) error {
	fn, err := graph.DecodeStorage[easing.Function](n)
	if err != nil {
		return err
	}
	e.fn = fn
	return nil
}

func easeFactory(n *graph.Node) graph.Logic {
	e := &ease{
		fn:       easing.Linear,
		progress: n.AddInput("Progress", types.Numeric),
		from:     n.AddInput("From", types.Numeric),
		to:       n.AddInput("To", types.Numeric),
		out:      n.AddOutput("Value", types.Numeric),
	}
	_ = e.to.SetValue(1.0)
	return e
}

func easingKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindEase, CategoryEasing, "Ease", "Applies an easing curve to a progress between 0 and 1", types.Numeric, types.Numeric, easeFactory),
	}
}
