package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Color is an 8-bit per channel sRGB color with straight alpha
type Color struct {
	R uint8 `yaml:"r" msgpack:"r"`
	G uint8 `yaml:"g" msgpack:"g"`
	B uint8 `yaml:"b" msgpack:"b"`
	A uint8 `yaml:"a" msgpack:"a"`
}

// RGBA builds a color from its channels
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex renders the color as #AARRGGBB
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// ParseHex accepts #RRGGBB or #AARRGGBB
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 6:
		s = "FF" + s
	case 8:
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, nil
}

// MarshalJSON stores colors as hex strings to keep persisted values compact
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
