package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

func TestPostgresScriptStore(t *testing.T) {
	dsn := os.Getenv("LIGHTGRAPH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("Integration test requires PostgreSQL database (LIGHTGRAPH_TEST_POSTGRES_DSN)")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	s := NewScriptStore(pool, serialization.DefaultSerializer())
	defer s.Close()
	require.NoError(t, s.CreateTables(ctx))

	exit := uuid.New()
	r := store.NewRecord(entities.NodeScriptEntity{
		Name: "integration",
		Nodes: []entities.NodeEntity{
			{ID: exit, Type: "core.exit", IsExitNode: true, PinCollections: []entities.NodePinCollectionEntity{}},
		},
		Connections: []entities.NodeConnectionEntity{},
	})
	r.Metadata.Tags = []string{"it"}
	require.NoError(t, s.Save(ctx, r))
	defer func() { _ = s.Delete(ctx, r.ID) }()

	loaded, err := s.Load(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Script, loaded.Script)
	assert.WithinDuration(t, r.UpdatedAt, loaded.UpdatedAt, time.Millisecond)

	records, err := s.List(ctx, store.Filter{Tag: "it", Limit: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}

func TestPostgresScriptStore_Errors(t *testing.T) {
	ctx := context.Background()

	// nil pool: every call below must fail before touching it
	s := &ScriptStore{
		pool:       nil,
		serializer: serialization.DefaultSerializer(),
		tableName:  "scripts",
	}

	assert.ErrorIs(t, s.Save(ctx, nil), store.ErrNilRecord)
	_, err := s.Load(ctx, uuid.Nil)
	assert.ErrorIs(t, err, store.ErrInvalidRecordID)
	assert.ErrorIs(t, s.Delete(ctx, uuid.Nil), store.ErrInvalidRecordID)
	_, err = s.List(ctx, store.Filter{Limit: -1})
	assert.ErrorIs(t, err, store.ErrInvalidLimit)
}

func TestBuildListQuery(t *testing.T) {
	s := NewScriptStore(nil, nil)
	since := time.Now()
	query, args := s.buildListQuery(store.Filter{Name: "a", Tag: "b", Since: &since, Limit: 3, Offset: 2})
	assert.Contains(t, query, "name = $1")
	assert.Contains(t, query, "$2 = ANY(tags)")
	assert.Contains(t, query, "updated_at > $3")
	assert.Contains(t, query, "LIMIT $4")
	assert.Contains(t, query, "OFFSET $5")
	assert.Equal(t, []any{"a", "b", since, 3, 2}, args)
}

func TestWithTableName(t *testing.T) {
	s := NewScriptStore(nil, nil).WithTableName("lighting_scripts")
	query, _ := s.buildListQuery(store.Filter{})
	assert.Contains(t, query, "FROM lighting_scripts")

	s.WithTableName("scripts; DROP TABLE x")
	query, _ = s.buildListQuery(store.Filter{})
	assert.Contains(t, query, "FROM lighting_scripts")
}
