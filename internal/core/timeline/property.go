package timeline

import (
	"sort"
	"sync"
	"time"

	"github.com/lightgraph/lightgraph/internal/core/easing"
)

// Property is the type-erased view the owning layer drives every tick
type Property interface {
	Path() string
	Update(delta time.Duration)
	OverrideProgress(position time.Duration)
	Progress() time.Duration
	// Value is CurrentValue boxed
	Value() any
}

// LayerProperty is one animatable attribute of a layer.
// CurrentValue is recomputed from the keyframes whenever progress or the
// keyframe list changes; without keyframes it mirrors BaseValue.
type LayerProperty[T any] struct {
	mu sync.Mutex

	path             string
	baseValue        T
	currentValue     T
	keyframesEnabled bool
	keyframes        []*Keyframe[T]
	progress         time.Duration

	current  *Keyframe[T]
	next     *Keyframe[T]
	fraction float64
	eased    float64

	blend easing.Blender[T]
}

// NewLayerProperty creates a property using the blender matching T
func NewLayerProperty[T any](path string, base T) *LayerProperty[T] {
	return NewLayerPropertyWithBlender(path, base, easing.BlenderFor[T]())
}

// NewLayerPropertyWithBlender creates a property with a custom blender
func NewLayerPropertyWithBlender[T any](path string, base T, blend easing.Blender[T]) *LayerProperty[T] {
	p := &LayerProperty[T]{
		path:         path,
		baseValue:    base,
		currentValue: base,
		blend:        blend,
	}
	return p
}

func (p *LayerProperty[T]) Path() string {
	return p.path
}

func (p *LayerProperty[T]) BaseValue() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.baseValue
}

// SetBaseValue changes the default and recomputes the current value
func (p *LayerProperty[T]) SetBaseValue(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.baseValue = v
	p.recompute()
}

func (p *LayerProperty[T]) CurrentValue() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentValue
}

// SetCurrentValue overrides the computed value until the next recompute.
// Data bindings use this after the keyframes have been applied.
func (p *LayerProperty[T]) SetCurrentValue(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentValue = v
}

func (p *LayerProperty[T]) Value() any {
	return p.CurrentValue()
}

func (p *LayerProperty[T]) KeyframesEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keyframesEnabled
}

func (p *LayerProperty[T]) SetKeyframesEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keyframesEnabled = enabled
	p.recompute()
}

// Keyframes returns copies of the keyframes in position order. Editing a
// copy leaves the property untouched.
func (p *LayerProperty[T]) Keyframes() []Keyframe[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Keyframe[T], len(p.keyframes))
	for i, k := range p.keyframes {
		out[i] = *k
	}
	return out
}

// AddKeyframe inserts a keyframe and enables keyframes on the property
func (p *LayerProperty[T]) AddKeyframe(position time.Duration, value T, fn easing.Function) (*Keyframe[T], error) {
	k := &Keyframe[T]{Position: position, Value: value, Easing: fn}
	if err := p.Insert(k); err != nil {
		return nil, err
	}
	return k, nil
}

// Insert adds an existing keyframe, keeping the list sorted
func (p *LayerProperty[T]) Insert(k *Keyframe[T]) error {
	if k == nil {
		return ErrNilKeyframe
	}
	if k.Position < 0 {
		return ErrNegativePosition
	}
	if !k.Easing.Valid() {
		return ErrInvalidEasing
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keyframes = append(p.keyframes, k)
	p.keyframesEnabled = true
	p.sortKeyframes()
	p.recompute()
	return nil
}

func (p *LayerProperty[T]) RemoveKeyframe(k *Keyframe[T]) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.keyframes {
		if existing == k {
			p.keyframes = append(p.keyframes[:i], p.keyframes[i+1:]...)
			p.recompute()
			return nil
		}
	}
	return ErrKeyframeNotFound
}

// MoveKeyframe changes a keyframe's position and restores ordering
func (p *LayerProperty[T]) MoveKeyframe(k *Keyframe[T], position time.Duration) error {
	if position < 0 {
		return ErrNegativePosition
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, existing := range p.keyframes {
		if existing == k {
			k.Position = position
			p.sortKeyframes()
			p.recompute()
			return nil
		}
	}
	return ErrKeyframeNotFound
}

func (p *LayerProperty[T]) ClearKeyframes() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keyframes = nil
	p.recompute()
}

func (p *LayerProperty[T]) Progress() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// CurrentKeyframe is the last keyframe at or before the progress
func (p *LayerProperty[T]) CurrentKeyframe() *Keyframe[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// NextKeyframe is the first keyframe strictly after the progress
func (p *LayerProperty[T]) NextKeyframe() *Keyframe[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.next
}

// Fraction returns the raw and eased progress between the current and next keyframe
func (p *LayerProperty[T]) Fraction() (raw, eased float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fraction, p.eased
}

// Update advances the progress by delta and recomputes the current value
func (p *LayerProperty[T]) Update(delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress += delta
	if p.progress < 0 {
		p.progress = 0
	}
	p.recompute()
}

// OverrideProgress rewinds to zero and replays up to position, yielding the
// same value natural playback would have reached.
func (p *LayerProperty[T]) OverrideProgress(position time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = 0
	p.recompute()
	p.progress += position
	if p.progress < 0 {
		p.progress = 0
	}
	p.recompute()
}

func (p *LayerProperty[T]) sortKeyframes() {
	sort.SliceStable(p.keyframes, func(i, j int) bool {
		return p.keyframes[i].Position < p.keyframes[j].Position
	})
}

// recompute must be called with mu held
func (p *LayerProperty[T]) recompute() {
	if !p.keyframesEnabled || len(p.keyframes) == 0 {
		p.current, p.next = nil, nil
		p.fraction, p.eased = 0, 0
		p.currentValue = p.baseValue
		return
	}

	idx := sort.Search(len(p.keyframes), func(i int) bool {
		return p.keyframes[i].Position > p.progress
	})
	p.current, p.next = nil, nil
	if idx > 0 {
		p.current = p.keyframes[idx-1]
	}
	if idx < len(p.keyframes) {
		p.next = p.keyframes[idx]
	}

	switch {
	case p.current == nil:
		p.fraction, p.eased = 0, 0
		p.currentValue = p.next.Value
	case p.next == nil:
		p.fraction, p.eased = 1, 1
		p.currentValue = p.current.Value
	default:
		span := p.next.Position - p.current.Position
		p.fraction = float64(p.progress-p.current.Position) / float64(span)
		p.eased = easing.Interpolate(p.fraction, p.current.Easing)
		p.currentValue = p.blend(p.current.Value, p.next.Value, p.eased)
	}
}
