package graph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/types"
)

// PassResult summarizes one evaluation pass
type PassResult struct {
	// Value is the exit value, or the first output when a single node was inspected
	Value any
	// Outputs maps output pin names to values for EvaluateNode
	Outputs  map[string]any
	Faults   []NodeFault
	Computed int
}

// Faulted reports whether any node failed during the pass
func (r PassResult) Faulted() bool {
	return len(r.Faults) > 0
}

// ResultAs converts a pass value to T
func ResultAs[T any](r PassResult) (T, bool) {
	v, ok := r.Value.(T)
	return v, ok
}

type visitState uint8

const (
	unvisited visitState = iota
	inProgress
	done
)

// pass is the per-evaluation memo. Each feeding node computes at most once.
type pass struct {
	states   map[*Node]visitState
	faults   []NodeFault
	computed int
}

func newPass() *pass {
	return &pass{states: make(map[*Node]visitState)}
}

func (p *pass) visit(n *Node) error {
	switch p.states[n] {
	case done:
		return nil
	case inProgress:
		return &CycleError{NodeID: n.ID, Name: n.Name}
	}
	p.states[n] = inProgress
	for _, in := range n.incoming() {
		if c := in.Connection(); c != nil {
			if err := p.visit(c.Source.node); err != nil {
				return err
			}
		}
	}
	p.computed++
	if err := n.run(); err != nil {
		p.faults = append(p.faults, NodeFault{NodeID: n.ID, KindID: n.Kind.ID, Err: err})
		n.zeroOutputs()
	}
	p.states[n] = done
	return nil
}

func (p *pass) result(v any) PassResult {
	return PassResult{Value: v, Faults: p.faults, Computed: p.computed}
}

// Evaluate computes the exit node and every node feeding it.
// A cycle fails the whole pass; node faults only zero that node's outputs.
func (s *Script) Evaluate() (PassResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := newPass()
	if err := p.visit(s.exit); err != nil {
		return p.result(types.Zero(s.resultType)), err
	}
	return p.result(s.exit.inputs[0].Value()), nil
}

// EvaluateNode computes a single node and its upstream for inspection
func (s *Script) EvaluateNode(id uuid.UUID) (PassResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.index[id]
	if !ok {
		return PassResult{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	p := newPass()
	if err := p.visit(n); err != nil {
		return p.result(nil), err
	}
	res := p.result(nil)
	res.Outputs = make(map[string]any)
	for i, out := range n.outgoing() {
		if i == 0 {
			res.Value = out.value
		}
		res.Outputs[out.name] = out.value
	}
	if n.exit {
		res.Value = n.inputs[0].Value()
	}
	return res, nil
}
