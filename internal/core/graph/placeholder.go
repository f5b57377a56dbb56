package graph

import (
	"github.com/lightgraph/lightgraph/internal/core/types"
)

// NewPlaceholder creates an inert stand-in for a node whose kind is not registered.
// It keeps the kind identity and storage so a later save writes them back untouched.
func NewPlaceholder(kind Kind, storage string) *Node {
	n := NewNode(kind, nil)
	n.placeholder = true
	n.storage = storage
	return n
}

// EnsureCollection makes sure a placeholder has collection index with size pins
func (n *Node) EnsureCollection(index int, dir Direction, size int) *PinCollection {
	for len(n.collections) <= index {
		n.addCollection("Pins", dir, types.Any, 0, 0)
	}
	c := n.collections[index]
	if c.direction != dir && len(c.pins) == 0 {
		c.direction = dir
	}
	for len(c.pins) < size {
		c.grow()
	}
	return c
}

// EnsureCollectionPin makes sure a placeholder collection exposes slot pin.
// An untyped slot takes t, the type its persisted connection was saved with.
func (n *Node) EnsureCollectionPin(index int, dir Direction, pin int, t types.ValueType) *Pin {
	c := n.EnsureCollection(index, dir, pin+1)
	p := c.pins[pin]
	if p.valueType == types.Any {
		p.valueType = t
	}
	return p
}

// EnsurePin makes sure a placeholder exposes the single pin at index.
// Missing pins before it are filled with untyped pins.
func (n *Node) EnsurePin(dir Direction, index int, t types.ValueType) *Pin {
	for len(n.singles(dir)) <= index {
		pinType := types.Any
		if len(n.singles(dir)) == index {
			pinType = t
		}
		if dir == Output {
			n.AddOutput("Output", pinType)
		} else {
			n.AddInput("Input", pinType)
		}
	}
	return n.singles(dir)[index]
}
