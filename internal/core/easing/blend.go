package easing

import (
	"math"

	"github.com/lightgraph/lightgraph/internal/core/types"
)

// Blender mixes a and b by an eased fraction f
type Blender[T any] func(a, b T, f float64) T

// LerpFloat64 is a + (b - a) * f
func LerpFloat64(a, b, f float64) float64 {
	return a + (b-a)*f
}

func LerpFloat32(a, b float32, f float64) float32 {
	return float32(LerpFloat64(float64(a), float64(b), f))
}

// LerpInt rounds half away from zero
func LerpInt(a, b int, f float64) int {
	return int(math.Round(LerpFloat64(float64(a), float64(b), f)))
}

// BlendColor interpolates each channel, alpha included, in 8-bit sRGB space.
// Overshooting curves (back, elastic) are clamped to the channel range.
func BlendColor(a, b types.Color, f float64) types.Color {
	return types.Color{
		R: channel(a.R, b.R, f),
		G: channel(a.G, b.G, f),
		B: channel(a.B, b.B, f),
		A: channel(a.A, b.A, f),
	}
}

func channel(a, b uint8, f float64) uint8 {
	v := math.Round(LerpFloat64(float64(a), float64(b), f))
	return uint8(math.Max(0, math.Min(255, v)))
}

// StepBlend snaps to b once the fraction reaches 1 and holds a otherwise.
// Used for values that cannot be interpolated.
func StepBlend[T any](a, b T, f float64) T {
	if f >= 1 {
		return b
	}
	return a
}

// BlenderFor picks the blender matching T
func BlenderFor[T any]() Blender[T] {
	var zero T
	var b any
	switch any(zero).(type) {
	case float64:
		b = Blender[float64](LerpFloat64)
	case float32:
		b = Blender[float32](LerpFloat32)
	case int:
		b = Blender[int](LerpInt)
	case types.Color:
		b = Blender[types.Color](BlendColor)
	default:
		return StepBlend[T]
	}
	return b.(Blender[T])
}
