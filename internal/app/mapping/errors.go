// Package mapping converts live scripts, properties and timelines to and
// from their persisted records.
package mapping

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidEntity      = errors.New("invalid script entity")
	ErrDanglingConnection = errors.New("connection cannot be restored")
	ErrUnknownNodeType    = errors.New("unknown node type")
	ErrInvalidValue       = errors.New("invalid property value")
)

// UnknownNodeTypeWarning reports a node loaded as an inert placeholder
type UnknownNodeTypeWarning struct {
	NodeID     uuid.UUID
	KindID     string
	ProviderID string
}

func (w *UnknownNodeTypeWarning) Error() string {
	return fmt.Sprintf("%s %q from provider %q, node %s loaded as placeholder", ErrUnknownNodeType, w.KindID, w.ProviderID, w.NodeID)
}

func (w *UnknownNodeTypeWarning) Unwrap() error {
	return ErrUnknownNodeType
}

// NodeWarning reports a recoverable problem restoring a node
type NodeWarning struct {
	NodeID uuid.UUID
	Err    error
}

func (w *NodeWarning) Error() string {
	return fmt.Sprintf("node %s: %v", w.NodeID, w.Err)
}

func (w *NodeWarning) Unwrap() error {
	return w.Err
}

// Placeholders counts the unknown-kind warnings in warnings
func Placeholders(warnings []error) int {
	n := 0
	for _, w := range warnings {
		if errors.Is(w, ErrUnknownNodeType) {
			n++
		}
	}
	return n
}
