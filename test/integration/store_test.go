//go:build integration

// Package integration contains integration tests for lightgraph
package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/adapters/repository/sqlite"
	"github.com/lightgraph/lightgraph/internal/app/dto"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/lightgraph"
	"github.com/lightgraph/lightgraph/pkg/prebuilt"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

func encrypted() *serialization.Serializer {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return serialization.NewSerializer(serialization.SerializationConfig{
		Codec:       &serialization.MsgPackCodec{},
		Compression: serialization.CompressionGzip,
		EncryptKey:  key,
	})
}

func openStore(t *testing.T, dsn string) *sqlite.ScriptStore {
	t.Helper()
	db, err := sqlite.Open(dsn)
	require.NoError(t, err)
	st := sqlite.NewScriptStore(db, encrypted()).WithTableName("integration_scripts")
	require.NoError(t, st.CreateTables(context.Background()))
	return st
}

func TestScriptsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "scripts.db")

	st := openStore(t, dsn)
	rt, err := lightgraph.NewRuntime(lightgraph.WithStore(st), lightgraph.WithSerializer(encrypted()))
	require.NoError(t, err)
	s, err := rt.Prebuilt("threshold", prebuilt.Config{Path: "Audio.Volume", Limit: 0.5})
	require.NoError(t, err)
	id, err := rt.SaveScript(ctx, s, "audio")
	require.NoError(t, err)
	require.NoError(t, rt.Close())
	require.NoError(t, st.Close())

	st = openStore(t, dsn)
	defer st.Close()
	rt, err = lightgraph.NewRuntime(lightgraph.WithStore(st))
	require.NoError(t, err)
	defer rt.Close()

	for _, tc := range []struct {
		volume float64
		want   bool
	}{{0.2, false}, {0.8, true}} {
		resp, err := rt.Evaluate(ctx, id, map[string]any{"Audio": map[string]any{"Volume": tc.volume}})
		require.NoError(t, err)
		assert.Equal(t, dto.EvaluateStatusCompleted, resp.Status)
		assert.Equal(t, tc.want, resp.Value)
	}
}

func TestProfileFileRoundTrip(t *testing.T) {
	rt, err := lightgraph.NewRuntime(lightgraph.WithData(map[string]any{"Audio": map[string]any{"Volume": 0.4}}))
	require.NoError(t, err)
	defer rt.Close()

	volume, err := rt.Prebuilt("value", prebuilt.Config{Path: "Audio.Volume", ResultType: types.Numeric})
	require.NoError(t, err)
	binding, err := rt.ScriptEntity(volume)
	require.NoError(t, err)
	original := entities.ProfileEntity{
		ID:   uuid.New(),
		Name: "meter",
		Layers: []entities.LayerEntity{{
			ID:           uuid.New(),
			Name:         "meter",
			Timeline:     entities.TimelineEntity{MainSegmentLength: time.Second},
			Properties:   []entities.LayerPropertyEntity{{Path: "Brightness", Value: "0"}},
			DataBindings: []entities.DataBindingEntity{{Path: "Brightness", Script: binding}},
		}},
	}

	for _, ext := range []string{".json", ".yaml", ".msgpack", ".lgs"} {
		t.Run(ext, func(t *testing.T) {
			s, err := serialization.ForPath("profile" + ext)
			require.NoError(t, err)
			raw, err := s.Serialize(original)
			require.NoError(t, err)
			var back entities.ProfileEntity
			require.NoError(t, s.Deserialize(raw, &back))

			back.ID = uuid.New()
			back.Layers[0].ID = uuid.New()
			p, warnings, err := rt.LoadProfile(&back)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			require.Len(t, p.Layers, 1)
		})
	}

	f, ok := rt.Tick(context.Background(), 100*time.Millisecond)
	require.True(t, ok)
	require.Len(t, f.Layers, 4)
	for _, l := range f.Layers {
		assert.Equal(t, 0.4, l.Values["Brightness"])
	}
}
