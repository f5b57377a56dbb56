package usecases

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/internal/nodes"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, nodes.RegisterBuiltins(r))
	return r
}

func newMapper(t *testing.T) *mapping.ScriptMapper {
	t.Helper()
	return mapping.NewScriptMapper(newRegistry(t), nil)
}

func create(t *testing.T, r *registry.Registry, s *graph.Script, kindID, storage string) *graph.Node {
	t.Helper()
	n, err := r.Create(s, kindID)
	require.NoError(t, err)
	if storage != "" {
		require.NoError(t, s.Edit(func() error { return n.SetStorage(storage) }))
	}
	return n
}

func connect(t *testing.T, s *graph.Script, src, dst *graph.Pin) *graph.Connection {
	t.Helper()
	c, err := s.Connect(src, dst)
	require.NoError(t, err)
	return c
}

// pathScript sends the data model value at path to the exit node
func pathScript(t *testing.T, r *registry.Registry, name string, result types.ValueType, path string, ctx any) *graph.Script {
	t.Helper()
	s := graph.NewScript(name, "", result, ctx)
	n := create(t, r, s, nodes.KindDataModelValue, `{"path":"`+path+`"}`)
	connect(t, s, n.Outputs()[0], s.ExitNode().Inputs()[0])
	return s
}

// divideScript divides by an unconnected zero and always faults
func divideScript(t *testing.T, r *registry.Registry) *graph.Script {
	t.Helper()
	s := graph.NewScript("divide", "", types.Numeric, nil)
	n := create(t, r, s, nodes.KindDivide, "")
	connect(t, s, n.Outputs()[0], s.ExitNode().Inputs()[0])
	return s
}

// makeCyclic rewires a boolean script so its exit is fed by a loop of two NOT nodes
func makeCyclic(t *testing.T, r *registry.Registry, s *graph.Script) {
	t.Helper()
	exitIn := s.ExitNode().Inputs()[0]
	if c := exitIn.Connection(); c != nil {
		require.NoError(t, s.Disconnect(c))
	}
	a := create(t, r, s, nodes.KindNot, "")
	b := create(t, r, s, nodes.KindNot, "")
	connect(t, s, a.Outputs()[0], b.Inputs()[0])
	connect(t, s, b.Outputs()[0], a.Inputs()[0])
	connect(t, s, b.Outputs()[0], exitIn)
}
