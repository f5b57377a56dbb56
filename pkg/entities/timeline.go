package entities

import "time"

// KeyframeEntity is a persisted keyframe. Value holds the JSON encoded value.
type KeyframeEntity struct {
	Position       time.Duration `json:"Position" yaml:"Position" msgpack:"Position" validate:"min=0"`
	Value          string        `json:"Value" yaml:"Value" msgpack:"Value"`
	EasingFunction int           `json:"EasingFunction" yaml:"EasingFunction" msgpack:"EasingFunction" validate:"easing"`
}

// LayerPropertyEntity is a persisted layer property with its keyframes
type LayerPropertyEntity struct {
	Path             string           `json:"Path" yaml:"Path" msgpack:"Path" validate:"required,property_path"`
	Value            string           `json:"Value" yaml:"Value" msgpack:"Value"`
	KeyframesEnabled bool             `json:"KeyframesEnabled" yaml:"KeyframesEnabled" msgpack:"KeyframesEnabled"`
	Keyframes        []KeyframeEntity `json:"Keyframes" yaml:"Keyframes" msgpack:"Keyframes" validate:"dive"`
}

// TimelineEntity is a persisted segment timeline
type TimelineEntity struct {
	StartSegmentLength time.Duration `json:"StartSegmentLength" yaml:"StartSegmentLength" msgpack:"StartSegmentLength" validate:"min=0"`
	MainSegmentLength  time.Duration `json:"MainSegmentLength" yaml:"MainSegmentLength" msgpack:"MainSegmentLength" validate:"min=0"`
	EndSegmentLength   time.Duration `json:"EndSegmentLength" yaml:"EndSegmentLength" msgpack:"EndSegmentLength" validate:"min=0"`
	PlayMode           int           `json:"PlayMode" yaml:"PlayMode" msgpack:"PlayMode" validate:"min=0,max=1"`
	StopMode           int           `json:"StopMode" yaml:"StopMode" msgpack:"StopMode" validate:"min=0,max=1"`
}
