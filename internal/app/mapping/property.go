package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/lightgraph/lightgraph/internal/core/easing"
	"github.com/lightgraph/lightgraph/internal/core/timeline"
	"github.com/lightgraph/lightgraph/pkg/entities"
)

// PropertyToEntity snapshots a layer property. Values are stored as JSON.
func PropertyToEntity[T any](p *timeline.LayerProperty[T]) (entities.LayerPropertyEntity, error) {
	base, err := json.Marshal(p.BaseValue())
	if err != nil {
		return entities.LayerPropertyEntity{}, fmt.Errorf("%w: %s: %w", ErrInvalidValue, p.Path(), err)
	}
	keyframes := p.Keyframes()
	e := entities.LayerPropertyEntity{
		Path:             p.Path(),
		Value:            string(base),
		KeyframesEnabled: p.KeyframesEnabled(),
		Keyframes:        make([]entities.KeyframeEntity, 0, len(keyframes)),
	}
	for _, k := range keyframes {
		v, err := json.Marshal(k.Value)
		if err != nil {
			return entities.LayerPropertyEntity{}, fmt.Errorf("%w: %s@%s: %w", ErrInvalidValue, p.Path(), k.Position, err)
		}
		e.Keyframes = append(e.Keyframes, entities.KeyframeEntity{
			Position:       k.Position,
			Value:          string(v),
			EasingFunction: int(k.Easing),
		})
	}
	return e, nil
}

// ApplyPropertyEntity restores base value and keyframes onto p.
// Keyframes that cannot be decoded are skipped and returned as warnings.
func ApplyPropertyEntity[T any](p *timeline.LayerProperty[T], e *entities.LayerPropertyEntity) ([]error, error) {
	if e.Value != "" {
		var base T
		if err := json.Unmarshal([]byte(e.Value), &base); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, e.Path, err)
		}
		p.SetBaseValue(base)
	}

	var warnings []error
	p.ClearKeyframes()
	for _, ke := range e.Keyframes {
		var v T
		if err := json.Unmarshal([]byte(ke.Value), &v); err != nil {
			warnings = append(warnings, fmt.Errorf("%w: %s@%s: %w", ErrInvalidValue, e.Path, ke.Position, err))
			continue
		}
		if _, err := p.AddKeyframe(ke.Position, v, easing.Function(ke.EasingFunction)); err != nil {
			warnings = append(warnings, fmt.Errorf("%s@%s: %w", e.Path, ke.Position, err))
		}
	}
	p.SetKeyframesEnabled(e.KeyframesEnabled)
	return warnings, nil
}

func TimelineToEntity(t *timeline.Timeline) entities.TimelineEntity {
	return entities.TimelineEntity{
		StartSegmentLength: t.StartSegmentLength,
		MainSegmentLength:  t.MainSegmentLength,
		EndSegmentLength:   t.EndSegmentLength,
		PlayMode:           int(t.PlayMode),
		StopMode:           int(t.StopMode),
	}
}

func TimelineFromEntity(e entities.TimelineEntity) *timeline.Timeline {
	t := timeline.NewTimeline()
	t.StartSegmentLength = e.StartSegmentLength
	t.MainSegmentLength = e.MainSegmentLength
	t.EndSegmentLength = e.EndSegmentLength
	t.PlayMode = timeline.PlayMode(e.PlayMode)
	t.StopMode = timeline.StopMode(e.StopMode)
	return t
}
