package nodes

import (
	"fmt"
	"strings"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

const (
	KindConcat   = "text.concat"
	KindToText   = "text.convert"
	KindContains = "text.contains"
)

func concatFactory(n *graph.Node) graph.Logic {
	values := n.AddInputCollection("Values", types.String, 2, 1)
	out := n.AddOutput("Result", types.String)
	return graph.LogicFunc(func(n *graph.Node) error {
		var b strings.Builder
		for _, p := range values.Pins() {
			b.WriteString(p.Text())
		}
		return out.SetValue(b.String())
	})
}

func toTextFactory(n *graph.Node) graph.Logic {
	in := n.AddInput("Input", types.Any)
	out := n.AddOutput("Text", types.String)
	return graph.LogicFunc(func(n *graph.Node) error {
		v := in.Value()
		if v == nil {
			return out.SetValue("")
		}
		return out.SetValue(fmt.Sprint(v))
	})
}

func containsFactory(n *graph.Node) graph.Logic {
	text := n.AddInput("Text", types.String)
	part := n.AddInput("Part", types.String)
	out := n.AddOutput("Result", types.Bool)
	return graph.LogicFunc(func(n *graph.Node) error {
		return out.SetValue(strings.Contains(text.Text(), part.Text()))
	})
}

func textKinds() []registry.Descriptor {
	return []registry.Descriptor{
		kind(KindConcat, CategoryText, "Concatenate", "Joins the connected texts", types.String, types.String, concatFactory),
		kind(KindToText, CategoryText, "To Text", "Formats any value as text", types.Any, types.String, toTextFactory),
		kind(KindContains, CategoryText, "Contains", "Checks if the text contains a part", types.String, types.Bool, containsFactory),
	}
}
