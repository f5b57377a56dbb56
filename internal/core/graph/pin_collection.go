package graph

import (
	"fmt"

	"github.com/lightgraph/lightgraph/internal/core/types"
)

// PinCollection is an ordered, resizable group of same-typed pins
type PinCollection struct {
	node      *Node
	name      string
	direction Direction
	valueType types.ValueType
	minimum   int
	pins      []*Pin
}

func (c *PinCollection) Node() *Node           { return c.node }
func (c *PinCollection) Name() string          { return c.name }
func (c *PinCollection) Direction() Direction  { return c.direction }
func (c *PinCollection) Type() types.ValueType { return c.valueType }
func (c *PinCollection) Minimum() int          { return c.minimum }
func (c *PinCollection) Len() int              { return len(c.pins) }
func (c *PinCollection) Pins() []*Pin          { return append([]*Pin(nil), c.pins...) }

func (c *PinCollection) At(i int) (*Pin, error) {
	if i < 0 || i >= len(c.pins) {
		return nil, fmt.Errorf("%w: %s[%d]", ErrPinNotFound, c.name, i)
	}
	return c.pins[i], nil
}

func (c *PinCollection) grow() *Pin {
	p := newPin(c.node, fmt.Sprintf("%s %d", c.name, len(c.pins)+1), c.direction, c.valueType)
	p.collection = c
	c.pins = append(c.pins, p)
	return p
}

func (c *PinCollection) indexOf(p *Pin) int {
	for i, existing := range c.pins {
		if existing == p {
			return i
		}
	}
	return -1
}
