package usecases

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/timeline"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/pkg/entities"
)

// LayerFrame is what a layer renders for one tick
type LayerFrame struct {
	LayerID  uuid.UUID      `json:"layer_id"`
	Name     string         `json:"name"`
	Position time.Duration  `json:"position"`
	Values   map[string]any `json:"values"`
}

// binding feeds a script result into a property after its keyframes
type binding struct {
	script *graph.Script
	last   any
}

// layerProperty is the type-erased handle a layer keeps per property
type layerProperty struct {
	prop      timeline.Property
	valueType types.ValueType
	set       func(v any) bool
	toEntity  func() (entities.LayerPropertyEntity, error)
	apply     func(e *entities.LayerPropertyEntity) ([]error, error)
	binding   *binding
}

// Layer drives a group of properties along one timeline. Each update runs
// the display condition, advances the timeline and the property keyframes,
// then applies data bindings over the keyframed values.
// PRINCIPLES:
// - SRP: per-layer orchestration; evaluation itself happens in graph
// - Failure isolation: a failing script keeps its previous result
// - Thread-safe: guarded by mu
type Layer struct {
	mu sync.Mutex

	ID       uuid.UUID
	Name     string
	Timeline *timeline.Timeline

	properties []*layerProperty
	index      map[string]*layerProperty
	condition  *graph.Script
	visible    bool
	shown      bool
	stopping   bool

	runner *ScriptRunner
}

// NewLayer creates a layer with a default timeline. Without a display
// condition the layer is always shown.
func NewLayer(name string, runner *ScriptRunner) *Layer {
	if runner == nil {
		runner = NewScriptRunner(nil)
	}
	return &Layer{
		ID:       uuid.New(),
		Name:     name,
		Timeline: timeline.NewTimeline(),
		index:    make(map[string]*layerProperty),
		visible:  true,
		runner:   runner,
	}
}

// AddProperty registers p with the layer. Paths are unique per layer.
func AddProperty[T any](l *Layer, p *timeline.LayerProperty[T]) error {
	var zero T
	vt := types.Of(zero)
	lp := &layerProperty{
		prop:      p,
		valueType: vt,
		set: func(v any) bool {
			t, ok := convertValue[T](v, vt)
			if ok {
				p.SetCurrentValue(t)
			}
			return ok
		},
		toEntity: func() (entities.LayerPropertyEntity, error) {
			return mapping.PropertyToEntity(p)
		},
		apply: func(e *entities.LayerPropertyEntity) ([]error, error) {
			return mapping.ApplyPropertyEntity(p, e)
		},
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.index[p.Path()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProperty, p.Path())
	}
	l.index[p.Path()] = lp
	l.properties = append(l.properties, lp)
	p.OverrideProgress(l.Timeline.Position())
	return nil
}

func convertValue[T any](v any, vt types.ValueType) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}
	var zero T
	c, ok := types.Coerce(v, vt)
	if !ok {
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}

func (l *Layer) Property(path string) (timeline.Property, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lp, ok := l.index[path]
	if !ok {
		return nil, false
	}
	return lp.prop, true
}

// Properties returns the properties in registration order
func (l *Layer) Properties() []timeline.Property {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]timeline.Property, len(l.properties))
	for i, lp := range l.properties {
		out[i] = lp.prop
	}
	return out
}

// SetDisplayCondition installs a boolean script deciding whether the layer
// is shown. nil removes the condition.
func (l *Layer) SetDisplayCondition(s *graph.Script) error {
	if s != nil && !s.ResultType().AssignableTo(types.Bool) {
		return fmt.Errorf("%w: condition returns %s", ErrResultType, s.ResultType())
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.condition = s
	if s == nil {
		l.visible = true
	}
	return nil
}

func (l *Layer) DisplayCondition() *graph.Script {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.condition
}

// Bind feeds the result of s into the property at path. nil removes the binding.
func (l *Layer) Bind(path string, s *graph.Script) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	lp, ok := l.index[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, path)
	}
	if s == nil {
		lp.binding = nil
		return nil
	}
	if !s.ResultType().AssignableTo(lp.valueType) {
		return fmt.Errorf("%w: %s is %s, binding returns %s", ErrResultType, path, lp.valueType, s.ResultType())
	}
	lp.binding = &binding{script: s}
	return nil
}

func (l *Layer) Binding(path string) *graph.Script {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lp, ok := l.index[path]; ok && lp.binding != nil {
		return lp.binding.script
	}
	return nil
}

// Update advances the layer by delta
func (l *Layer) Update(delta time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := l.Timeline.Position()
	l.updateVisibility()

	advancing := l.shown || l.stopping
	if advancing {
		stick := l.shown && l.Timeline.PlayMode == timeline.PlayRepeat
		l.Timeline.Update(delta, stick)
	}
	after := l.Timeline.Position()
	switch {
	case advancing && after == before+delta:
		for _, lp := range l.properties {
			lp.prop.Update(delta)
		}
	case after != before:
		// wrapped or jumped
		l.overrideProperties(after)
	}
	if l.stopping && l.Timeline.IsFinished() {
		l.stopping = false
	}
	l.applyBindings()
}

// Override scrubs the layer to an absolute position
func (l *Layer) Override(position time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Timeline.Override(position, false)
	l.overrideProperties(l.Timeline.Position())
	l.applyBindings()
}

// Visible is the last display condition result
func (l *Layer) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

// Active reports whether the layer renders: shown and not finished, or
// still playing out its timeline after being hidden
func (l *Layer) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active()
}

func (l *Layer) active() bool {
	return (l.shown && !l.Timeline.IsFinished()) || l.stopping
}

// Snapshot captures the current property values
func (l *Layer) Snapshot() LayerFrame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Layer) snapshot() LayerFrame {
	f := LayerFrame{
		LayerID:  l.ID,
		Name:     l.Name,
		Position: l.Timeline.Position(),
		Values:   make(map[string]any, len(l.properties)),
	}
	for _, lp := range l.properties {
		f.Values[lp.prop.Path()] = lp.prop.Value()
	}
	return f
}

// updateVisibility runs the display condition and handles show/hide
// transitions. mu must be held.
func (l *Layer) updateVisibility() {
	if l.condition != nil {
		res, err := l.runner.Run(l.condition)
		if err == nil {
			l.visible, _ = graph.ResultAs[bool](res)
		}
	}

	switch {
	case l.visible && !l.shown:
		if l.Timeline.IsFinished() {
			l.Timeline.JumpToStart()
			l.resetScripts()
		}
		l.stopping = false
	case !l.visible && l.shown:
		l.stopping = !l.Timeline.IsFinished()
		if l.Timeline.StopMode == timeline.StopSkipToEnd {
			l.Timeline.JumpToEndSegment()
		}
	}
	l.shown = l.visible
}

func (l *Layer) overrideProperties(position time.Duration) {
	for _, lp := range l.properties {
		lp.prop.OverrideProgress(position)
	}
}

// applyBindings overrides keyframed values with binding results. A failed
// pass reapplies the last good result.
func (l *Layer) applyBindings() {
	for _, lp := range l.properties {
		b := lp.binding
		if b == nil {
			continue
		}
		res, err := l.runner.Run(b.script)
		if err == nil {
			b.last = res.Value
		}
		if b.last != nil {
			lp.set(b.last)
		}
	}
}

// resetScripts clears kind-owned state when the timeline restarts
func (l *Layer) resetScripts() {
	if l.condition != nil {
		l.condition.Reset()
	}
	for _, lp := range l.properties {
		if lp.binding != nil {
			lp.binding.script.Reset()
		}
	}
}
