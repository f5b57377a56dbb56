// Package graph provides the node-script runtime: typed pins, connections
// and a pull-based evaluator guarded by a per-script mutex.
package graph

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/types"
)

// Script is a typed computation graph with exactly one exit node
// PRINCIPLES:
// - SRP: owns structure and evaluation, persistence lives in the mapper
// - KISS: one mutex for every mutation and every pass
type Script struct {
	mu sync.Mutex

	ID          uuid.UUID
	Name        string
	Description string

	context     atomic.Pointer[contextBox]
	resultType  types.ValueType
	nodes       []*Node
	index       map[uuid.UUID]*Node
	connections []*Connection
	exit        *Node
}

type contextBox struct{ v any }

// ScriptOption configures a script at construction
type ScriptOption func(*Script)

// WithID sets the script id instead of generating one
func WithID(id uuid.UUID) ScriptOption {
	return func(s *Script) { s.ID = id }
}

// WithExitNodeID sets the id of the exit node, used when loading
func WithExitNodeID(id uuid.UUID) ScriptOption {
	return func(s *Script) { s.exit.ID = id }
}

// NewScript creates a script whose exit node accepts resultType
func NewScript(name, description string, resultType types.ValueType, ctx any, opts ...ScriptOption) *Script {
	s := &Script{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		resultType:  resultType,
		index:       make(map[uuid.UUID]*Node),
		exit:        newExitNode(resultType),
	}
	s.context.Store(&contextBox{v: ctx})
	for _, opt := range opts {
		opt(s)
	}
	s.exit.script = s
	s.nodes = append(s.nodes, s.exit)
	s.index[s.exit.ID] = s.exit
	return s
}

// Context returns the host object node kinds read from.
// Safe to call from inside a pass.
func (s *Script) Context() any {
	return s.context.Load().v
}

func (s *Script) SetContext(ctx any) {
	s.context.Store(&contextBox{v: ctx})
}

func (s *Script) ResultType() types.ValueType { return s.resultType }

// ExitNode returns the node whose input is the script result
func (s *Script) ExitNode() *Node { return s.exit }

// Nodes returns the nodes in insertion order
func (s *Script) Nodes() []*Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Node(nil), s.nodes...)
}

// Node looks up a node by id
func (s *Script) Node(id uuid.UUID) (*Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.index[id]
	return n, ok
}

// Connections returns the connections in creation order
func (s *Script) Connections() []*Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Connection(nil), s.connections...)
}

// Edit runs fn while holding the script lock so it never interleaves with a pass.
// Use it for storage edits on attached nodes.
func (s *Script) Edit(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// AddNode attaches a detached node
func (s *Script) AddNode(n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.exit {
		return ErrExitNodeExists
	}
	if n.script != nil {
		return ErrNodeAttached
	}
	if _, exists := s.index[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID)
	}
	n.script = s
	s.nodes = append(s.nodes, n)
	s.index[n.ID] = n
	return nil
}

// RemoveNode detaches a node after dropping all of its connections
func (s *Script) RemoveNode(n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.exit {
		return ErrExitNodeRemoval
	}
	if n.script != s {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, n.ID)
	}
	for _, c := range append([]*Connection(nil), s.connections...) {
		if c.Source.node == n || c.Target.node == n {
			s.disconnect(c)
		}
	}
	for i, existing := range s.nodes {
		if existing == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	delete(s.index, n.ID)
	n.script = nil
	return nil
}

// Connect wires an output pin to an input pin.
// A rejected connection leaves the script unchanged.
func (s *Script) Connect(source, target *Pin) (*Connection, error) {
	if source == nil || target == nil {
		return nil, ErrNilPin
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.owns(source) || !s.owns(target) {
		return nil, ErrForeignPin
	}
	if source.direction != Output || target.direction != Input {
		return nil, ErrPinDirection
	}
	if !source.valueType.AssignableTo(target.valueType) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIncompatibleType, source.valueType, target.valueType)
	}
	if target.IsConnected() {
		return nil, ErrTargetOccupied
	}
	c := &Connection{Source: source, Target: target}
	source.connections = append(source.connections, c)
	target.connections = append(target.connections, c)
	s.connections = append(s.connections, c)
	return c, nil
}

// Disconnect removes a connection; the target falls back to its local default
func (s *Script) Disconnect(c *Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.connections {
		if existing == c {
			s.disconnect(c)
			return nil
		}
	}
	return ErrConnectionNotFound
}

func (s *Script) disconnect(c *Connection) {
	c.Source.removeConnection(c)
	c.Target.removeConnection(c)
	for i, existing := range s.connections {
		if existing == c {
			s.connections = append(s.connections[:i], s.connections[i+1:]...)
			return
		}
	}
}

// AddPinToCollection appends a pin to a collection of an attached node
func (s *Script) AddPinToCollection(c *PinCollection) (*Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil || c.node.script != s {
		return nil, ErrForeignPin
	}
	return c.grow(), nil
}

// RemovePinFromCollection drops a pin and its connections from a collection
func (s *Script) RemovePinFromCollection(c *PinCollection, p *Pin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil || c.node.script != s {
		return ErrForeignPin
	}
	i := c.indexOf(p)
	if i < 0 {
		return ErrPinNotFound
	}
	if len(c.pins) <= c.minimum {
		return ErrCollectionMinimum
	}
	for _, conn := range append([]*Connection(nil), p.connections...) {
		s.disconnect(conn)
	}
	c.pins = append(c.pins[:i], c.pins[i+1:]...)
	return nil
}

// ResizeCollection grows or shrinks a collection to exactly size pins
func (s *Script) ResizeCollection(c *PinCollection, size int) error {
	if c == nil {
		return ErrCollectionNotFound
	}
	if size < c.minimum {
		return fmt.Errorf("%w: %s needs %d", ErrCollectionMinimum, c.name, c.minimum)
	}
	for c.Len() < size {
		if _, err := s.AddPinToCollection(c); err != nil {
			return err
		}
	}
	for c.Len() > size {
		if err := s.RemovePinFromCollection(c, c.pins[len(c.pins)-1]); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears output values and lets stateful kinds start over
func (s *Script) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nodes {
		n.zeroOutputs()
		if r, ok := n.logic.(Resetter); ok {
			r.Reset(n)
		}
	}
}

func (s *Script) owns(p *Pin) bool {
	return p.node != nil && p.node.script == s
}
