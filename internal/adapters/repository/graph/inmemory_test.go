package graphrepo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

func TestInMemoryScriptRepository_Get_NotFound(t *testing.T) {
	repo := NewInMemoryScriptRepository()

	s, err := repo.Get(context.Background(), uuid.New())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrScriptNotFound)
}

func TestInMemoryScriptRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryScriptRepository()
	s := graph.NewScript("condition", "", types.Bool, nil)
	id := uuid.New()

	require.NoError(t, repo.Save(ctx, id, s))
	loaded, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Same(t, s, loaded)

	assert.ErrorIs(t, repo.Save(ctx, id, nil), ErrNilScript)
}

func TestInMemoryScriptRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryScriptRepository()
	b, a := uuid.New(), uuid.New()
	require.NoError(t, repo.Save(ctx, b, graph.NewScript("b", "", types.Any, nil)))
	require.NoError(t, repo.Save(ctx, a, graph.NewScript("a", "", types.Any, nil)))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)

	require.NoError(t, repo.Delete(ctx, a))
	assert.ErrorIs(t, repo.Delete(ctx, a), ErrScriptNotFound)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
