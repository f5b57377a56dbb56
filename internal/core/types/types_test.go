package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueType_AssignableTo(t *testing.T) {
	tests := []struct {
		name string
		src  ValueType
		dst  ValueType
		want bool
	}{
		{name: "exact", src: Bool, dst: Bool, want: true},
		{name: "any target", src: ColorType, dst: Any, want: true},
		{name: "any source", src: Any, dst: Numeric, want: true},
		{name: "integer widens", src: Integer, dst: Numeric, want: true},
		{name: "numeric does not narrow", src: Numeric, dst: Integer, want: false},
		{name: "mismatch", src: String, dst: Bool, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.src.AssignableTo(tt.dst))
		})
	}
}

func TestCoerce(t *testing.T) {
	v, ok := Coerce(3, Numeric)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = Coerce("x", Bool)
	assert.False(t, ok)
	assert.Equal(t, false, v)

	v, ok = Coerce("x", Any)
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestCoerce_Integer(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
		ok   bool
	}{
		{"int", 7, 7, true},
		{"whole float64", 3.0, 3, true},
		{"negative whole float64", -12.0, -12, true},
		{"whole float32", float32(4), 4, true},
		{"fractional float64", 2.5, 0, false},
		{"nan", math.NaN(), 0, false},
		{"infinity", math.Inf(1), 0, false},
		{"string", "3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Coerce(tt.in, Integer)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestCoerce_DecodedJSONFeedsInteger(t *testing.T) {
	var decoded any
	require.NoError(t, json.Unmarshal([]byte(`42`), &decoded))

	v, ok := Coerce(decoded, Integer)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestParse(t *testing.T) {
	vt, err := Parse("numeric")
	require.NoError(t, err)
	assert.Equal(t, Numeric, vt)

	_, err = Parse("matrix")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestColor_JSON(t *testing.T) {
	c := RGBA(255, 128, 0, 200)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"#C8FF8000"`, string(data))

	var back Color
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#102030")
	require.NoError(t, err)
	assert.Equal(t, RGBA(0x10, 0x20, 0x30, 0xFF), c)

	_, err = ParseHex("#12")
	assert.ErrorIs(t, err, ErrInvalidColor)
}
