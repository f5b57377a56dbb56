package timeline

import "errors"

var (
	ErrNilKeyframe      = errors.New("keyframe cannot be nil")
	ErrKeyframeNotFound = errors.New("keyframe not found")
	ErrNegativePosition = errors.New("keyframe position cannot be negative")
	ErrInvalidEasing    = errors.New("invalid easing function")
)
