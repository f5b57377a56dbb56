package graph

import (
	"fmt"

	"github.com/lightgraph/lightgraph/internal/core/types"
)

// Direction tells whether a pin consumes or produces values.
// The numeric values are persisted.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Pin is a typed socket on a node.
// Output pins hold the value computed in the last pass; input pins resolve
// through their connection or fall back to a local default.
type Pin struct {
	node       *Node
	collection *PinCollection
	name       string
	direction  Direction
	valueType  types.ValueType

	value       any
	connections []*Connection
}

func newPin(node *Node, name string, dir Direction, t types.ValueType) *Pin {
	return &Pin{
		node:      node,
		name:      name,
		direction: dir,
		valueType: t,
		value:     types.Zero(t),
	}
}

func (p *Pin) Node() *Node                { return p.node }
func (p *Pin) Name() string               { return p.name }
func (p *Pin) Direction() Direction       { return p.direction }
func (p *Pin) Type() types.ValueType      { return p.valueType }
func (p *Pin) Collection() *PinCollection { return p.collection }
func (p *Pin) IsConnected() bool          { return len(p.connections) > 0 }
func (p *Pin) Connections() []*Connection { return append([]*Connection(nil), p.connections...) }

// Connection returns the incoming connection of an input pin, if any
func (p *Pin) Connection() *Connection {
	if p.direction != Input || len(p.connections) == 0 {
		return nil
	}
	return p.connections[0]
}

// Value resolves the pin. Inputs follow their connection and coerce the
// source value into the pin type; values that do not fit resolve to zero.
func (p *Pin) Value() any {
	if c := p.Connection(); c != nil {
		v, ok := types.Coerce(c.Source.value, p.valueType)
		if !ok {
			return types.Zero(p.valueType)
		}
		return v
	}
	return p.value
}

// SetValue stores an output value, or the local default of an input
func (p *Pin) SetValue(v any) error {
	coerced, ok := types.Coerce(v, p.valueType)
	if !ok {
		return fmt.Errorf("%w: %s pin %q cannot hold %T", ErrIncompatibleType, p.valueType, p.name, v)
	}
	p.value = coerced
	return nil
}

// Default is the local value an unconnected input resolves to
func (p *Pin) Default() any {
	return p.value
}

func (p *Pin) reset() {
	p.value = types.Zero(p.valueType)
}

func (p *Pin) Bool() bool {
	b, _ := p.Value().(bool)
	return b
}

func (p *Pin) Integer() int {
	v, _ := types.Coerce(p.Value(), types.Integer)
	i, _ := v.(int)
	return i
}

func (p *Pin) Numeric() float64 {
	v, _ := types.Coerce(p.Value(), types.Numeric)
	f, _ := v.(float64)
	return f
}

// Text resolves the pin as a string
func (p *Pin) Text() string {
	s, _ := p.Value().(string)
	return s
}

func (p *Pin) Color() types.Color {
	c, _ := p.Value().(types.Color)
	return c
}

func (p *Pin) removeConnection(c *Connection) {
	for i, existing := range p.connections {
		if existing == c {
			p.connections = append(p.connections[:i], p.connections[i+1:]...)
			return
		}
	}
}
