// Package graph defines domain-specific errors
package graph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain errors - defined once, used everywhere
var (
	// Script errors
	ErrCyclicGraph        = errors.New("cyclic dependency detected")
	ErrExitNodeRemoval    = errors.New("exit node cannot be removed")
	ErrExitNodeExists     = errors.New("script already has an exit node")
	ErrConnectionNotFound = errors.New("connection not found")

	// Node errors
	ErrNilNode        = errors.New("node cannot be nil")
	ErrNodeNotFound   = errors.New("node not found")
	ErrDuplicateNode  = errors.New("duplicate node ID")
	ErrNodeAttached   = errors.New("node already belongs to a script")
	ErrNodePanic      = errors.New("node computation panicked")
	ErrInvalidStorage = errors.New("invalid node storage")

	// Pin errors
	ErrNilPin             = errors.New("pin cannot be nil")
	ErrIncompatibleType   = errors.New("incompatible pin types")
	ErrTargetOccupied     = errors.New("target pin already has a connection")
	ErrForeignPin         = errors.New("pin does not belong to this script")
	ErrPinDirection       = errors.New("connections run from an output pin to an input pin")
	ErrPinNotFound        = errors.New("pin not found")
	ErrCollectionNotFound = errors.New("pin collection not found")
	ErrCollectionMinimum  = errors.New("pin collection is at its minimum size")
)

// CycleError reports the node that was re-entered while still being evaluated
type CycleError struct {
	NodeID uuid.UUID
	Name   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: node %q (%s) re-entered during evaluation", ErrCyclicGraph, e.Name, e.NodeID)
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicGraph
}

// NodeFault is a computation failure contained at the node boundary
type NodeFault struct {
	NodeID uuid.UUID
	KindID string
	Err    error
}

func (f NodeFault) Error() string {
	return fmt.Sprintf("node %s (%s) faulted: %v", f.NodeID, f.KindID, f.Err)
}

func (f NodeFault) Unwrap() error {
	return f.Err
}
