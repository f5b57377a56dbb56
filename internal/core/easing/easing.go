// Package easing maps linear progress onto eased progress and blends typed
// values with the result. Curves are backed by gween's ease catalog.
package easing

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// Function identifies an easing curve. The numeric values are persisted in
// keyframe records and must keep their order.
type Function int

const (
	Step Function = iota
	Linear
	QuadraticEaseIn
	QuadraticEaseOut
	QuadraticEaseInOut
	CubicEaseIn
	CubicEaseOut
	CubicEaseInOut
	QuarticEaseIn
	QuarticEaseOut
	QuarticEaseInOut
	QuinticEaseIn
	QuinticEaseOut
	QuinticEaseInOut
	SineEaseIn
	SineEaseOut
	SineEaseInOut
	CircularEaseIn
	CircularEaseOut
	CircularEaseInOut
	ExponentialEaseIn
	ExponentialEaseOut
	ExponentialEaseInOut
	ElasticEaseIn
	ElasticEaseOut
	ElasticEaseInOut
	BackEaseIn
	BackEaseOut
	BackEaseInOut
	BounceEaseIn
	BounceEaseOut
	BounceEaseInOut
)

type curve struct {
	name string
	fn   func(p float64) float64
}

var catalog = []curve{
	Step:                 {"Step", math.Floor},
	Linear:               {"Linear", linear},
	QuadraticEaseIn:      {"QuadraticEaseIn", tween(ease.InQuad)},
	QuadraticEaseOut:     {"QuadraticEaseOut", tween(ease.OutQuad)},
	QuadraticEaseInOut:   {"QuadraticEaseInOut", tween(ease.InOutQuad)},
	CubicEaseIn:          {"CubicEaseIn", tween(ease.InCubic)},
	CubicEaseOut:         {"CubicEaseOut", tween(ease.OutCubic)},
	CubicEaseInOut:       {"CubicEaseInOut", tween(ease.InOutCubic)},
	QuarticEaseIn:        {"QuarticEaseIn", tween(ease.InQuart)},
	QuarticEaseOut:       {"QuarticEaseOut", tween(ease.OutQuart)},
	QuarticEaseInOut:     {"QuarticEaseInOut", tween(ease.InOutQuart)},
	QuinticEaseIn:        {"QuinticEaseIn", tween(ease.InQuint)},
	QuinticEaseOut:       {"QuinticEaseOut", tween(ease.OutQuint)},
	QuinticEaseInOut:     {"QuinticEaseInOut", tween(ease.InOutQuint)},
	SineEaseIn:           {"SineEaseIn", tween(ease.InSine)},
	SineEaseOut:          {"SineEaseOut", tween(ease.OutSine)},
	SineEaseInOut:        {"SineEaseInOut", tween(ease.InOutSine)},
	CircularEaseIn:       {"CircularEaseIn", tween(ease.InCirc)},
	CircularEaseOut:      {"CircularEaseOut", tween(ease.OutCirc)},
	CircularEaseInOut:    {"CircularEaseInOut", tween(ease.InOutCirc)},
	ExponentialEaseIn:    {"ExponentialEaseIn", tween(ease.InExpo)},
	ExponentialEaseOut:   {"ExponentialEaseOut", tween(ease.OutExpo)},
	ExponentialEaseInOut: {"ExponentialEaseInOut", tween(ease.InOutExpo)},
	ElasticEaseIn:        {"ElasticEaseIn", tween(ease.InElastic)},
	ElasticEaseOut:       {"ElasticEaseOut", tween(ease.OutElastic)},
	ElasticEaseInOut:     {"ElasticEaseInOut", tween(ease.InOutElastic)},
	BackEaseIn:           {"BackEaseIn", tween(ease.InBack)},
	BackEaseOut:          {"BackEaseOut", tween(ease.OutBack)},
	BackEaseInOut:        {"BackEaseInOut", tween(ease.InOutBack)},
	BounceEaseIn:         {"BounceEaseIn", tween(ease.InBounce)},
	BounceEaseOut:        {"BounceEaseOut", tween(ease.OutBounce)},
	BounceEaseInOut:      {"BounceEaseInOut", tween(ease.InOutBounce)},
}

func linear(p float64) float64 { return p }

// tween adapts a gween curve (t, begin, change, duration) to the unit interval.
// gween works in float32, so eased curves carry float32 precision.
func tween(fn ease.TweenFunc) func(float64) float64 {
	return func(p float64) float64 {
		return float64(fn(float32(p), 0, 1, 1))
	}
}

// Interpolate maps a linear fraction onto the curve. The fraction is clamped
// to [0, 1] and the endpoints are exact for every function: gween computes in
// float32 and some curves (exponential) only approach their end values.
func Interpolate(p float64, fn Function) float64 {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 1:
		return 1
	}
	if !fn.Valid() {
		fn = Linear
	}
	return catalog[fn].fn(p)
}

// Valid reports whether fn is part of the catalog
func (fn Function) Valid() bool {
	return fn >= 0 && int(fn) < len(catalog)
}

func (fn Function) String() string {
	if !fn.Valid() {
		return fmt.Sprintf("Function(%d)", int(fn))
	}
	return catalog[fn].name
}

// Functions lists every catalog entry in persisted order
func Functions() []Function {
	out := make([]Function, len(catalog))
	for i := range catalog {
		out[i] = Function(i)
	}
	return out
}

// ParseFunction resolves a function by its name
func ParseFunction(name string) (Function, error) {
	for i, c := range catalog {
		if c.name == name {
			return Function(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
}

// MarshalText keeps functions readable in YAML and JSON documents
func (fn Function) MarshalText() ([]byte, error) {
	if !fn.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFunction, int(fn))
	}
	return []byte(fn.String()), nil
}

func (fn *Function) UnmarshalText(text []byte) error {
	parsed, err := ParseFunction(string(text))
	if err != nil {
		return err
	}
	*fn = parsed
	return nil
}
