// Package registry defines domain-specific errors
package registry

import "errors"

var (
	ErrNotFound          = errors.New("node kind not registered")
	ErrDuplicateKind     = errors.New("node kind already registered")
	ErrInvalidDescriptor = errors.New("invalid node kind descriptor")
)
