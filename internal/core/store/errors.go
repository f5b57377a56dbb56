// Package store defines the persisted script record and the store interface
// implemented by the repository adapters.
package store

import "errors"

var (
	// Record validation errors
	ErrInvalidRecordID = errors.New("invalid record ID")
	ErrInvalidName     = errors.New("record name cannot be empty")
	ErrNilRecord       = errors.New("record cannot be nil")
	ErrRecordNotFound  = errors.New("record not found")

	// Filter validation errors
	ErrInvalidLimit     = errors.New("limit cannot be negative")
	ErrInvalidOffset    = errors.New("offset cannot be negative")
	ErrInvalidTimeRange = errors.New("invalid time range: since is after before")

	ErrMemoryLimit = errors.New("memory limit exceeded")
)
