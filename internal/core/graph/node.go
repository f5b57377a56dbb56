// Package graph provides node definitions
package graph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/types"
)

// Kind identifies what a node computes
type Kind struct {
	ID          string
	ProviderID  string
	Name        string
	Description string
}

// Logic is the per-kind computation of a node.
// Evaluate reads input pins and writes output pins; it must not block.
type Logic interface {
	Evaluate(n *Node) error
}

// LogicFunc adapts a function to Logic
type LogicFunc func(n *Node) error

func (f LogicFunc) Evaluate(n *Node) error { return f(n) }

// Resetter is implemented by kinds holding state across passes
type Resetter interface {
	Reset(n *Node)
}

// StorageObserver is notified after the node storage string changes
type StorageObserver interface {
	StorageChanged(n *Node) error
}

// Node represents a vertex of a script
// PRINCIPLES:
// - SRP: holds pins and storage, the kind's Logic does the work
// - KISS: pins are plain slices in declaration order
type Node struct {
	// ID must not change once the node is added to a script
	ID          uuid.UUID
	Kind        Kind
	Name        string
	Description string
	X, Y        float64

	storage     string
	script      *Script
	inputs      []*Pin
	outputs     []*Pin
	collections []*PinCollection
	logic       Logic
	exit        bool
	placeholder bool
}

// NewNode creates a detached node. build declares pins and returns the kind logic.
func NewNode(kind Kind, build func(n *Node) Logic) *Node {
	n := &Node{
		ID:          uuid.New(),
		Kind:        kind,
		Name:        kind.Name,
		Description: kind.Description,
	}
	if build != nil {
		n.logic = build(n)
	}
	return n
}

func (n *Node) Script() *Script     { return n.script }
func (n *Node) Logic() Logic        { return n.logic }
func (n *Node) IsExitNode() bool    { return n.exit }
func (n *Node) IsPlaceholder() bool { return n.placeholder }
func (n *Node) Storage() string     { return n.storage }

// SetStorage replaces the storage envelope and notifies the kind.
// The string is kept even when the kind rejects it so it survives a save.
// Attached nodes must be edited through Script.Edit.
func (n *Node) SetStorage(storage string) error {
	n.storage = storage
	if o, ok := n.logic.(StorageObserver); ok {
		if err := o.StorageChanged(n); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidStorage, n.Kind.ID, err)
		}
	}
	return nil
}

// AddInput declares a single input pin
func (n *Node) AddInput(name string, t types.ValueType) *Pin {
	p := newPin(n, name, Input, t)
	n.inputs = append(n.inputs, p)
	return p
}

// AddOutput declares a single output pin
func (n *Node) AddOutput(name string, t types.ValueType) *Pin {
	p := newPin(n, name, Output, t)
	n.outputs = append(n.outputs, p)
	return p
}

// AddInputCollection declares a resizable group of input pins
func (n *Node) AddInputCollection(name string, t types.ValueType, initial, minimum int) *PinCollection {
	return n.addCollection(name, Input, t, initial, minimum)
}

// AddOutputCollection declares a resizable group of output pins
func (n *Node) AddOutputCollection(name string, t types.ValueType, initial, minimum int) *PinCollection {
	return n.addCollection(name, Output, t, initial, minimum)
}

func (n *Node) addCollection(name string, dir Direction, t types.ValueType, initial, minimum int) *PinCollection {
	c := &PinCollection{node: n, name: name, direction: dir, valueType: t, minimum: minimum}
	for i := 0; i < max(initial, minimum); i++ {
		c.grow()
	}
	n.collections = append(n.collections, c)
	return c
}

func (n *Node) Inputs() []*Pin                { return append([]*Pin(nil), n.inputs...) }
func (n *Node) Outputs() []*Pin               { return append([]*Pin(nil), n.outputs...) }
func (n *Node) Collections() []*PinCollection { return append([]*PinCollection(nil), n.collections...) }

// Pins returns every pin of the node, single pins first then collection members
func (n *Node) Pins() []*Pin {
	pins := make([]*Pin, 0, len(n.inputs)+len(n.outputs))
	pins = append(pins, n.inputs...)
	pins = append(pins, n.outputs...)
	for _, c := range n.collections {
		pins = append(pins, c.pins...)
	}
	return pins
}

// Input returns the single input pin with the given name
func (n *Node) Input(name string) (*Pin, bool) {
	return findPin(n.inputs, name)
}

// Output returns the single output pin with the given name
func (n *Node) Output(name string) (*Pin, bool) {
	return findPin(n.outputs, name)
}

func findPin(pins []*Pin, name string) (*Pin, bool) {
	for _, p := range pins {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// SingleCollection marks a pin address that refers to a single pin
const SingleCollection = -1

// PinAddress returns the persisted address of a pin: the collection index
// (SingleCollection for single pins) and the pin index inside it.
// Single pins are indexed among the pins sharing their direction.
func (n *Node) PinAddress(p *Pin) (collectionID, pinID int, err error) {
	if p == nil || p.node != n {
		return 0, 0, ErrPinNotFound
	}
	if p.collection != nil {
		for ci, c := range n.collections {
			if c == p.collection {
				return ci, c.indexOf(p), nil
			}
		}
		return 0, 0, ErrCollectionNotFound
	}
	for i, existing := range n.singles(p.direction) {
		if existing == p {
			return SingleCollection, i, nil
		}
	}
	return 0, 0, ErrPinNotFound
}

// PinAt resolves a persisted pin address
func (n *Node) PinAt(dir Direction, collectionID, pinID int) (*Pin, error) {
	if collectionID == SingleCollection {
		pins := n.singles(dir)
		if pinID < 0 || pinID >= len(pins) {
			return nil, fmt.Errorf("%w: %s pin %d on node %s", ErrPinNotFound, dir, pinID, n.ID)
		}
		return pins[pinID], nil
	}
	if collectionID < 0 || collectionID >= len(n.collections) {
		return nil, fmt.Errorf("%w: %d on node %s", ErrCollectionNotFound, collectionID, n.ID)
	}
	c := n.collections[collectionID]
	if c.direction != dir {
		return nil, fmt.Errorf("%w: collection %d is an %s", ErrPinDirection, collectionID, c.direction)
	}
	return c.At(pinID)
}

func (n *Node) singles(dir Direction) []*Pin {
	if dir == Output {
		return n.outputs
	}
	return n.inputs
}

// incoming lists every input pin, collection members included
func (n *Node) incoming() []*Pin {
	pins := append([]*Pin(nil), n.inputs...)
	for _, c := range n.collections {
		if c.direction == Input {
			pins = append(pins, c.pins...)
		}
	}
	return pins
}

func (n *Node) outgoing() []*Pin {
	pins := append([]*Pin(nil), n.outputs...)
	for _, c := range n.collections {
		if c.direction == Output {
			pins = append(pins, c.pins...)
		}
	}
	return pins
}

func (n *Node) zeroOutputs() {
	for _, p := range n.outgoing() {
		p.reset()
	}
}

// run executes the kind logic behind the fault boundary
func (n *Node) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNodePanic, r)
		}
	}()
	if n.logic == nil {
		return nil
	}
	return n.logic.Evaluate(n)
}
