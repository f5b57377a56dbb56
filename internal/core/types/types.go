// Package types defines the value types that flow through node pins and
// layer properties, together with their assignability rules.
package types

import (
	"fmt"
	"math"
)

// ValueType identifies the kind of value a pin or property carries
type ValueType string

const (
	// Any accepts or produces values of every type
	Any ValueType = "any"
	// Bool carries a bool
	Bool ValueType = "bool"
	// Integer carries an int
	Integer ValueType = "integer"
	// Numeric carries a float64
	Numeric ValueType = "numeric"
	// String carries a string
	String ValueType = "string"
	// ColorType carries a Color
	ColorType ValueType = "color"
)

var known = map[ValueType]struct{}{
	Any: {}, Bool: {}, Integer: {}, Numeric: {}, String: {}, ColorType: {},
}

// Valid reports whether t is a registered value type
func (t ValueType) Valid() bool {
	_, ok := known[t]
	return ok
}

// Parse converts a persisted type name into a ValueType
func Parse(s string) (ValueType, error) {
	t := ValueType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// AssignableTo reports whether a value produced as t can be consumed as dst.
// Exact matches and Any on either side unify; Integer widens to Numeric.
func (t ValueType) AssignableTo(dst ValueType) bool {
	switch {
	case t == dst, t == Any, dst == Any:
		return true
	case t == Integer && dst == Numeric:
		return true
	default:
		return false
	}
}

// Zero returns the zero value of the type. Any has no zero value besides nil.
func Zero(t ValueType) any {
	switch t {
	case Bool:
		return false
	case Integer:
		return 0
	case Numeric:
		return 0.0
	case String:
		return ""
	case ColorType:
		return Color{}
	default:
		return nil
	}
}

// Coerce converts v to the representation of dst, applying implicit
// widening. Whole floats narrow to Integer. Values that cannot be represented
// yield the zero value and false.
func Coerce(v any, dst ValueType) (any, bool) {
	if dst == Any {
		return v, true
	}
	switch dst {
	case Bool:
		b, ok := v.(bool)
		return b, ok
	case Integer:
		switch n := v.(type) {
		case int:
			return n, true
		case float64:
			return integral(n)
		case float32:
			return integral(float64(n))
		}
		return 0, false
	case Numeric:
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		}
		return 0.0, false
	case String:
		s, ok := v.(string)
		return s, ok
	case ColorType:
		c, ok := v.(Color)
		return c, ok
	}
	return nil, false
}

// Of infers the value type of a Go value
func Of(v any) ValueType {
	switch v.(type) {
	case bool:
		return Bool
	case int:
		return Integer
	case float64, float32:
		return Numeric
	case string:
		return String
	case Color:
		return ColorType
	default:
		return Any
	}
}

// integral accepts a float that holds a whole number within int range, the
// shape JSON decoding gives every number.
func integral(f float64) (any, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}
