package prebuilt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/app/services"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/internal/nodes"
)

func kinds(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, nodes.RegisterBuiltins(r))
	return r
}

func TestPrebuilts(t *testing.T) {
	data := map[string]any{
		"Audio":  map[string]any{"Volume": 0.7, "Muted": false},
		"Status": map[string]any{"Alert": true},
	}

	tests := []struct {
		name       string
		prebuilt   string
		cfg        Config
		resultType types.ValueType
		want       any
	}{
		{"value", "value", Config{Path: "Audio.Volume", ResultType: types.Numeric}, types.Numeric, 0.7},
		{"value any", "value", Config{Path: "Status.Alert"}, types.Any, true},
		{"flag off", "flag", Config{Path: "Audio.Muted"}, types.Bool, false},
		{"flag on", "flag", Config{Path: "Status.Alert"}, types.Bool, true},
		{"above threshold", "threshold", Config{Path: "Audio.Volume", Limit: 0.5}, types.Bool, true},
		{"below threshold", "threshold", Config{Path: "Audio.Volume", Limit: 0.9}, types.Bool, false},
		{"any of one", "any", Config{Paths: []string{"Status.Alert"}}, types.Bool, true},
		{"any of three", "any", Config{Paths: []string{"Audio.Muted", "Missing.Flag", "Status.Alert"}}, types.Bool, true},
		{"none of two", "any", Config{Paths: []string{"Audio.Muted", "Missing.Flag"}}, types.Bool, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DefaultRegistry.Build(tt.prebuilt, kinds(t), tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.resultType, s.ResultType())

			s.SetContext(services.NewDataContext(data))
			res, err := s.Evaluate()
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestPrebuiltErrors(t *testing.T) {
	_, err := DefaultRegistry.Build("sparkle", kinds(t), Config{})
	assert.ErrorIs(t, err, ErrUnknownPrebuilt)

	for _, name := range DefaultRegistry.Names() {
		_, err := DefaultRegistry.Build(name, kinds(t), Config{})
		assert.ErrorIs(t, err, ErrMissingPath, name)
	}

	// kinds missing from the registry surface as build errors
	_, err = Threshold(registry.New(), Config{Path: "Audio.Volume"})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(NewBuildFunc("flag", Flag))
	assert.Equal(t, []string{"flag"}, r.Names())
	assert.Panics(t, func() { r.MustRegister(NewBuildFunc("flag", Flag)) })

	b, ok := r.Get("flag")
	require.True(t, ok)
	assert.Equal(t, "flag", b.Name())

	s, err := b.Build(kinds(t), Config{Name: "alert", Path: "Status.Alert"})
	require.NoError(t, err)
	assert.Equal(t, "alert", s.Name)
	assert.Equal(t, []string{"any", "flag", "threshold", "value"}, DefaultRegistry.Names())
}
