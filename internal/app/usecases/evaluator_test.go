package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphrepo "github.com/lightgraph/lightgraph/internal/adapters/repository/graph"
	"github.com/lightgraph/lightgraph/internal/adapters/repository/memory"
	"github.com/lightgraph/lightgraph/internal/app/dto"
	"github.com/lightgraph/lightgraph/internal/app/services"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

func TestScriptRunner(t *testing.T) {
	r := newRegistry(t)
	runner := NewScriptRunner(nil)

	t.Run("fault", func(t *testing.T) {
		res, err := runner.Run(divideScript(t, r))
		require.NoError(t, err)
		require.Len(t, res.Faults, 1)
		assert.Equal(t, 0.0, res.Value)
	})

	t.Run("cycle", func(t *testing.T) {
		s := graph.NewScript("loop", "", types.Bool, nil)
		makeCyclic(t, r, s)
		_, err := runner.Run(s)
		assert.ErrorIs(t, err, graph.ErrCyclicGraph)
	})

	t.Run("node", func(t *testing.T) {
		s := pathScript(t, r, "p", types.Numeric, "A", services.NewDataContext(map[string]any{"A": 2.0}))
		n := s.ExitNode().Inputs()[0].Connection().Source.Node()
		res, err := runner.RunNode(s, n)
		require.NoError(t, err)
		assert.Equal(t, 2.0, res.Value)
		assert.Equal(t, 1, res.Computed)
	})
}

func newEvaluator(t *testing.T) (*ScriptEvaluator, *services.ScriptService, *graphrepo.InMemoryScriptRepository) {
	t.Helper()
	st := memory.DefaultScriptStore()
	t.Cleanup(func() { _ = st.Close() })
	svc := services.NewScriptService(st, newMapper(t), serialization.DefaultSerializer(), nil)
	repo := graphrepo.NewInMemoryScriptRepository()
	return NewScriptEvaluator(svc, repo, nil, nil), svc, repo
}

func TestScriptEvaluator(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	ev, svc, repo := newEvaluator(t)

	s := pathScript(t, r, "volume", types.Numeric, "Audio.Volume", nil)
	_, err := svc.Save(ctx, s, store.Metadata{})
	require.NoError(t, err)

	req := &dto.EvaluateRequest{
		ScriptID: s.ID.String(),
		Context:  map[string]any{"Audio": map[string]any{"Volume": 0.7}},
	}
	resp, err := ev.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, dto.EvaluateStatusCompleted, resp.Status)
	assert.Equal(t, 0.7, resp.Value)

	cached, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)

	// the cached script sees the context of each request
	req.Context = map[string]any{"Audio": map[string]any{"Volume": 0.1}}
	resp, err = ev.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0.1, resp.Value)

	n := cached.ExitNode().Inputs()[0].Connection().Source.Node()
	req.NodeID = n.ID.String()
	resp, err = ev.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0.1, resp.Outputs["Value"])

	ev.Forget(ctx, s.ID)
	_, err = repo.Get(ctx, s.ID)
	assert.ErrorIs(t, err, graphrepo.ErrScriptNotFound)
}

func TestScriptEvaluatorFailures(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t)
	ev, svc, _ := newEvaluator(t)

	div := divideScript(t, r)
	_, err := svc.Save(ctx, div, store.Metadata{})
	require.NoError(t, err)
	resp, err := ev.Evaluate(ctx, &dto.EvaluateRequest{ScriptID: div.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, dto.EvaluateStatusFaulted, resp.Status)
	assert.Len(t, resp.Faults, 1)

	_, err = ev.Evaluate(ctx, &dto.EvaluateRequest{})
	assert.ErrorIs(t, err, dto.ErrMissingScriptID)

	_, err = ev.Evaluate(ctx, &dto.EvaluateRequest{ScriptID: graph.NewScript("x", "", types.Any, nil).ID.String()})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	_, err = ev.Evaluate(ctx, &dto.EvaluateRequest{ScriptID: div.ID.String(), NodeID: div.ID.String()})
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}
