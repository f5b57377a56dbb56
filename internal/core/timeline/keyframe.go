// Package timeline animates layer properties over time. Each LayerProperty
// owns a sorted keyframe list and a progress clock; Timeline models the
// start/main/end segments a layer plays through.
package timeline

import (
	"time"

	"github.com/lightgraph/lightgraph/internal/core/easing"
)

// Keyframe is a timestamped value. Easing shapes the transition from this
// keyframe towards the next one. Once inserted, Position changes only
// through LayerProperty.MoveKeyframe, which keeps the list sorted.
type Keyframe[T any] struct {
	Position time.Duration
	Value    T
	Easing   easing.Function
}
