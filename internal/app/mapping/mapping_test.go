package mapping

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/core/easing"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/timeline"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/internal/nodes"
	"github.com/lightgraph/lightgraph/pkg/entities"
)

func newMapper(t *testing.T) (*ScriptMapper, *registry.Registry) {
	t.Helper()
	r := registry.New()
	require.NoError(t, nodes.RegisterBuiltins(r))
	return NewScriptMapper(r, nil), r
}

// orScript builds static(false), static(true) -> Or(3 pins) -> exit
func orScript(t *testing.T, r *registry.Registry) (*graph.Script, *graph.Node) {
	t.Helper()
	s := graph.NewScript("or", "any light on", types.Bool, nil)
	a, err := r.Create(s, nodes.KindStaticBool)
	require.NoError(t, err)
	b, err := r.Create(s, nodes.KindStaticBool)
	require.NoError(t, err)
	or, err := r.Create(s, nodes.KindOr)
	require.NoError(t, err)
	require.NoError(t, s.Edit(func() error {
		a.X, a.Y = 10, 20
		if err := a.SetStorage("false"); err != nil {
			return err
		}
		return b.SetStorage("true")
	}))

	values := or.Collections()[0]
	require.NoError(t, s.ResizeCollection(values, 3))
	_, err = s.Connect(a.Outputs()[0], values.Pins()[0])
	require.NoError(t, err)
	_, err = s.Connect(b.Outputs()[0], values.Pins()[2])
	require.NoError(t, err)
	_, err = s.Connect(or.Outputs()[0], s.ExitNode().Inputs()[0])
	require.NoError(t, err)
	return s, or
}

func TestToEntity(t *testing.T) {
	m, r := newMapper(t)
	s, or := orScript(t, r)

	e, err := m.ToEntity(s)
	require.NoError(t, err)

	assert.Equal(t, "or", e.Name)
	assert.Equal(t, "bool", e.ResultType)
	require.Len(t, e.Nodes, 4)
	require.Len(t, e.Connections, 3)

	exit, ok := e.ExitNode()
	require.True(t, ok)
	assert.Equal(t, s.ExitNode().ID, exit.ID)
	assert.Equal(t, graph.ExitKindID, exit.Type)

	var orEntity entities.NodeEntity
	for _, n := range e.Nodes {
		if n.ID == or.ID {
			orEntity = n
		}
	}
	assert.Equal(t, nodes.KindOr, orEntity.Type)
	assert.Equal(t, nodes.ProviderID, orEntity.ProviderID)
	require.Len(t, orEntity.PinCollections, 1)
	assert.Equal(t, entities.NodePinCollectionEntity{ID: 0, Direction: int(graph.Input), Amount: 3}, orEntity.PinCollections[0])

	second := e.Connections[1]
	assert.Equal(t, graph.SingleCollection, second.SourcePinCollectionID)
	assert.Equal(t, 0, second.SourcePinID)
	assert.Equal(t, 0, second.TargetPinCollectionID)
	assert.Equal(t, 2, second.TargetPinID)
	assert.Equal(t, "bool", second.SourceType)
}

func TestRoundTrip(t *testing.T) {
	m, r := newMapper(t)
	s, or := orScript(t, r)

	e, err := m.ToEntity(s)
	require.NoError(t, err)

	restored, warnings, err := m.FromEntity(&e, "", nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, types.Bool, restored.ResultType())
	assert.Equal(t, s.ExitNode().ID, restored.ExitNode().ID)
	assert.Len(t, restored.Nodes(), 4)
	assert.Len(t, restored.Connections(), 3)

	n, ok := restored.Node(or.ID)
	require.True(t, ok)
	assert.Equal(t, 3, n.Collections()[0].Len())

	res, err := restored.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, true, res.Value)

	again, err := m.ToEntity(restored)
	require.NoError(t, err)
	assert.Equal(t, e, again)
}

func TestFromEntityResultTypeOverride(t *testing.T) {
	m, r := newMapper(t)
	s, _ := orScript(t, r)
	e, err := m.ToEntity(s)
	require.NoError(t, err)

	restored, _, err := m.FromEntity(&e, types.Any, nil)
	require.NoError(t, err)
	assert.Equal(t, types.Any, restored.ResultType())

	e.ResultType = ""
	restored, _, err = m.FromEntity(&e, "", nil)
	require.NoError(t, err)
	assert.Equal(t, types.Any, restored.ResultType())
}

func TestUnknownKindBecomesPlaceholder(t *testing.T) {
	m, r := newMapper(t)
	s, or := orScript(t, r)
	e, err := m.ToEntity(s)
	require.NoError(t, err)

	for i := range e.Nodes {
		if e.Nodes[i].ID == or.ID {
			e.Nodes[i].Type = "vendor.unknown"
			e.Nodes[i].ProviderID = "vendor"
			e.Nodes[i].Storage = `{"opaque":true}`
		}
	}

	restored, warnings, err := m.FromEntity(&e, "", nil)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.True(t, errors.Is(warnings[0], ErrUnknownNodeType))
	var unknown *UnknownNodeTypeWarning
	require.ErrorAs(t, warnings[0], &unknown)
	assert.Equal(t, or.ID, unknown.NodeID)
	assert.Equal(t, "vendor.unknown", unknown.KindID)

	n, ok := restored.Node(or.ID)
	require.True(t, ok)
	assert.True(t, n.IsPlaceholder())
	assert.Len(t, restored.Connections(), 3)
	for _, c := range n.Collections() {
		for _, p := range c.Pins() {
			if p.IsConnected() {
				assert.Equal(t, types.Bool, p.Type(), p.Name())
			}
		}
	}

	res, err := restored.Evaluate()
	require.NoError(t, err)
	assert.Equal(t, false, res.Value)

	saved, err := m.ToEntity(restored)
	require.NoError(t, err)
	assert.Equal(t, e.Connections, saved.Connections)
	for _, ne := range saved.Nodes {
		if ne.ID == or.ID {
			assert.Equal(t, "vendor.unknown", ne.Type)
			assert.Equal(t, "vendor", ne.ProviderID)
			assert.Equal(t, `{"opaque":true}`, ne.Storage)
		}
	}
}

func TestFromEntityBadStorageWarns(t *testing.T) {
	m, r := newMapper(t)
	s, _ := orScript(t, r)
	e, err := m.ToEntity(s)
	require.NoError(t, err)

	for i := range e.Nodes {
		if e.Nodes[i].Type == nodes.KindStaticBool {
			e.Nodes[i].Storage = "not json"
			break
		}
	}
	restored, warnings, err := m.FromEntity(&e, "", nil)
	require.NoError(t, err)
	require.NotNil(t, restored)
	require.Len(t, warnings, 1)
	assert.True(t, errors.Is(warnings[0], graph.ErrInvalidStorage))
}

func TestFromEntityErrors(t *testing.T) {
	m, r := newMapper(t)
	s, _ := orScript(t, r)

	tests := []struct {
		name   string
		mutate func(e *entities.NodeScriptEntity)
		err    error
	}{
		{
			name: "missing exit node",
			mutate: func(e *entities.NodeScriptEntity) {
				for i := range e.Nodes {
					e.Nodes[i].IsExitNode = false
				}
			},
			err: ErrInvalidEntity,
		},
		{
			name: "unknown connection endpoint",
			mutate: func(e *entities.NodeScriptEntity) {
				e.Connections[0].SourceNode = uuid.New()
			},
			err: ErrInvalidEntity,
		},
		{
			name: "pin out of range",
			mutate: func(e *entities.NodeScriptEntity) {
				e.Connections[0].TargetPinID = 9
			},
			err: ErrDanglingConnection,
		},
		{
			name: "bad result type",
			mutate: func(e *entities.NodeScriptEntity) {
				e.ResultType = "vector"
			},
			err: ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := m.ToEntity(s)
			require.NoError(t, err)
			tt.mutate(&e)
			_, _, err = m.FromEntity(&e, "", nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	p := timeline.NewLayerProperty("Brightness", 0.25)
	_, err := p.AddKeyframe(0, 0.0, easing.Linear)
	require.NoError(t, err)
	_, err = p.AddKeyframe(2*time.Second, 1.0, easing.QuadraticEaseInOut)
	require.NoError(t, err)

	e, err := PropertyToEntity(p)
	require.NoError(t, err)
	assert.Equal(t, "Brightness", e.Path)
	assert.Equal(t, "0.25", e.Value)
	assert.True(t, e.KeyframesEnabled)
	require.Len(t, e.Keyframes, 2)
	assert.Equal(t, 2*time.Second, e.Keyframes[1].Position)
	assert.Equal(t, int(easing.QuadraticEaseInOut), e.Keyframes[1].EasingFunction)

	restored := timeline.NewLayerProperty("Brightness", 0.0)
	warnings, err := ApplyPropertyEntity(restored, &e)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 0.25, restored.BaseValue())
	assert.True(t, restored.KeyframesEnabled())
	require.Len(t, restored.Keyframes(), 2)

	restored.Update(time.Second)
	p.Update(time.Second)
	assert.InDelta(t, p.CurrentValue(), restored.CurrentValue(), 1e-9)
}

func TestApplyPropertyEntityColor(t *testing.T) {
	p := timeline.NewLayerProperty("Color", types.RGBA(0, 0, 0, 255))
	e := entities.LayerPropertyEntity{
		Path:  "Color",
		Value: `"#FFFF0000"`,
		Keyframes: []entities.KeyframeEntity{
			{Position: 0, Value: `"#FF00FF00"`},
			{Position: time.Second, Value: `12`},
		},
	}

	warnings, err := ApplyPropertyEntity(p, &e)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrInvalidValue)
	assert.Equal(t, types.RGBA(255, 0, 0, 255), p.BaseValue())
	assert.Len(t, p.Keyframes(), 1)
	assert.False(t, p.KeyframesEnabled())

	e.Value = "{"
	_, err = ApplyPropertyEntity(p, &e)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestTimelineMapping(t *testing.T) {
	tl := timeline.NewTimeline()
	tl.StartSegmentLength = time.Second
	tl.EndSegmentLength = 500 * time.Millisecond
	tl.PlayMode = timeline.PlayOnce
	tl.StopMode = timeline.StopSkipToEnd

	e := TimelineToEntity(tl)
	assert.Equal(t, timeline.DefaultMainSegmentLength, e.MainSegmentLength)
	assert.Equal(t, 1, e.PlayMode)

	back := TimelineFromEntity(e)
	assert.Equal(t, tl.StartSegmentLength, back.StartSegmentLength)
	assert.Equal(t, tl.MainSegmentLength, back.MainSegmentLength)
	assert.Equal(t, tl.EndSegmentLength, back.EndSegmentLength)
	assert.Equal(t, tl.PlayMode, back.PlayMode)
	assert.Equal(t, tl.StopMode, back.StopMode)
}
