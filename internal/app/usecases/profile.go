package usecases

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/timeline"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/internal/infrastructure/metrics"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/validation"
)

// Profile is a loaded lighting profile
type Profile struct {
	ID     uuid.UUID
	Name   string
	Layers []*Layer
}

// LayerError reports a layer part that could not be loaded
type LayerError struct {
	Layer string
	Part  string
	Err   error
}

func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %q %s: %v", e.Layer, e.Part, e.Err)
}

func (e *LayerError) Unwrap() error {
	return e.Err
}

// ProfileLoader turns profile records into layers. Every script is mapped on
// its own: a script that fails to map is dropped with a warning and the rest
// of the profile still loads.
type ProfileLoader struct {
	mapper *mapping.ScriptMapper
	runner *ScriptRunner
	logger *slog.Logger
}

func NewProfileLoader(mapper *mapping.ScriptMapper, runner *ScriptRunner, logger *slog.Logger) *ProfileLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = NewScriptRunner(logger)
	}
	return &ProfileLoader{
		mapper: mapper,
		runner: runner,
		logger: logger.With("component", "profile_loader"),
	}
}

// Load maps e with hostCtx as the context of every script. Only an invalid
// profile header is fatal.
func (pl *ProfileLoader) Load(e *entities.ProfileEntity, hostCtx any) (*Profile, []error, error) {
	if e == nil {
		return nil, nil, validation.ErrNilEntity
	}
	header := *e
	header.Layers = nil
	if err := validation.Entity(&header); err != nil {
		return nil, nil, fmt.Errorf("invalid profile: %w", err)
	}

	p := &Profile{ID: e.ID, Name: e.Name}
	var warnings []error
	for i := range e.Layers {
		l, ws := pl.loadLayer(&e.Layers[i], hostCtx)
		warnings = append(warnings, ws...)
		if l != nil {
			p.Layers = append(p.Layers, l)
		}
	}
	for _, w := range warnings {
		pl.logger.Warn("profile load problem", "profile", e.Name, "error", w)
	}
	pl.logger.Info("profile loaded", "profile", e.Name, "layers", len(p.Layers), "warnings", len(warnings))
	return p, warnings, nil
}

func (pl *ProfileLoader) loadLayer(le *entities.LayerEntity, hostCtx any) (*Layer, []error) {
	header := *le
	header.Properties, header.DisplayCondition, header.DataBindings = nil, nil, nil
	if err := validation.Entity(&header); err != nil {
		return nil, []error{&LayerError{Layer: le.Name, Part: "header", Err: err}}
	}

	l := NewLayer(le.Name, pl.runner)
	l.ID = le.ID
	l.Timeline = mapping.TimelineFromEntity(le.Timeline)

	var warnings []error
	warn := func(part string, err error) {
		warnings = append(warnings, &LayerError{Layer: le.Name, Part: part, Err: err})
	}

	for i := range le.Properties {
		pe := &le.Properties[i]
		ws, err := l.applyPropertyEntity(pe)
		for _, w := range ws {
			warn("property "+pe.Path, w)
		}
		if err != nil {
			warn("property "+pe.Path, err)
		}
	}

	if le.DisplayCondition != nil {
		if s, ok := pl.script(le.DisplayCondition, types.Bool, hostCtx, "condition", warn); ok {
			if err := l.SetDisplayCondition(s); err != nil {
				warn("condition", err)
			}
		}
	}

	for i := range le.DataBindings {
		be := &le.DataBindings[i]
		part := "binding " + be.Path
		l.mu.Lock()
		lp, ok := l.index[be.Path]
		l.mu.Unlock()
		if !ok {
			warn(part, fmt.Errorf("%w: %s", ErrPropertyNotFound, be.Path))
			continue
		}
		if s, ok := pl.script(&be.Script, lp.valueType, hostCtx, part, warn); ok {
			if err := l.Bind(be.Path, s); err != nil {
				warn(part, err)
			}
		}
	}
	return l, warnings
}

func (pl *ProfileLoader) script(e *entities.NodeScriptEntity, resultType types.ValueType, hostCtx any, part string, warn func(string, error)) (*graph.Script, bool) {
	s, ws, err := pl.mapper.FromEntity(e, resultType, hostCtx)
	if n := mapping.Placeholders(ws); n > 0 {
		metrics.AddPlaceholders(int64(n))
	}
	for _, w := range ws {
		warn(part, w)
	}
	if err != nil {
		warn(part, err)
		return nil, false
	}
	return s, true
}

// applyPropertyEntity restores e onto the registered property at its path,
// or onto a new property when the layer has none
func (l *Layer) applyPropertyEntity(e *entities.LayerPropertyEntity) ([]error, error) {
	l.mu.Lock()
	lp, ok := l.index[e.Path]
	l.mu.Unlock()
	if ok {
		return lp.apply(e)
	}
	return restoreProperty(l, e)
}

// restoreProperty creates a property whose type is inferred from its stored
// base value and applies the record to it
func restoreProperty(l *Layer, e *entities.LayerPropertyEntity) ([]error, error) {
	switch inferType(e.Value) {
	case types.Bool:
		return addRestored(l, timeline.NewLayerProperty(e.Path, false), e)
	case types.Numeric:
		return addRestored(l, timeline.NewLayerProperty(e.Path, 0.0), e)
	case types.ColorType:
		return addRestored(l, timeline.NewLayerProperty(e.Path, types.Color{}), e)
	default:
		return addRestored(l, timeline.NewLayerProperty(e.Path, ""), e)
	}
}

func addRestored[T any](l *Layer, p *timeline.LayerProperty[T], e *entities.LayerPropertyEntity) ([]error, error) {
	ws, err := mapping.ApplyPropertyEntity(p, e)
	if err != nil {
		return ws, err
	}
	return ws, AddProperty(l, p)
}

// inferType maps a JSON value to the property type it was written from.
// Strings holding a hex color are colors.
func inferType(raw string) types.ValueType {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return types.String
	}
	switch x := v.(type) {
	case bool:
		return types.Bool
	case float64:
		return types.Numeric
	case string:
		if strings.HasPrefix(x, "#") {
			if _, err := types.ParseHex(x); err == nil {
				return types.ColorType
			}
		}
	}
	return types.String
}

// ProfileToEntity snapshots a loaded profile
func ProfileToEntity(p *Profile, mapper *mapping.ScriptMapper) (entities.ProfileEntity, error) {
	e := entities.ProfileEntity{
		ID:     p.ID,
		Name:   p.Name,
		Layers: make([]entities.LayerEntity, 0, len(p.Layers)),
	}
	for _, l := range p.Layers {
		le, err := LayerToEntity(l, mapper)
		if err != nil {
			return entities.ProfileEntity{}, err
		}
		e.Layers = append(e.Layers, le)
	}
	return e, nil
}

// LayerToEntity snapshots a layer with its scripts
func LayerToEntity(l *Layer, mapper *mapping.ScriptMapper) (entities.LayerEntity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := entities.LayerEntity{
		ID:           l.ID,
		Name:         l.Name,
		Timeline:     mapping.TimelineToEntity(l.Timeline),
		Properties:   make([]entities.LayerPropertyEntity, 0, len(l.properties)),
		DataBindings: []entities.DataBindingEntity{},
	}
	if l.condition != nil {
		ce, err := mapper.ToEntity(l.condition)
		if err != nil {
			return entities.LayerEntity{}, fmt.Errorf("layer %q condition: %w", l.Name, err)
		}
		e.DisplayCondition = &ce
	}
	for _, lp := range l.properties {
		pe, err := lp.toEntity()
		if err != nil {
			return entities.LayerEntity{}, fmt.Errorf("layer %q: %w", l.Name, err)
		}
		e.Properties = append(e.Properties, pe)
		if lp.binding == nil {
			continue
		}
		be, err := mapper.ToEntity(lp.binding.script)
		if err != nil {
			return entities.LayerEntity{}, fmt.Errorf("layer %q binding %s: %w", l.Name, lp.prop.Path(), err)
		}
		e.DataBindings = append(e.DataBindings, entities.DataBindingEntity{Path: lp.prop.Path(), Script: be})
	}
	return e, nil
}
