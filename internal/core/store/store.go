package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScriptStore persists script records
// PRINCIPLES:
// - ISP: four methods, nothing adapter specific
// - DIP: use cases depend on this interface, not on a database
type ScriptStore interface {
	// Save inserts or replaces a record
	Save(ctx context.Context, r *Record) error

	// Load retrieves a record by ID
	Load(ctx context.Context, id uuid.UUID) (*Record, error)

	// List returns records matching the filter, most recently updated first
	List(ctx context.Context, filter Filter) ([]*Record, error)

	// Delete removes a record by ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// Filter for record queries
type Filter struct {
	Name   string     `json:"name,omitempty"`
	Tag    string     `json:"tag,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
	Before *time.Time `json:"before,omitempty"`
}

// Validate ensures filter parameters are valid
func (f *Filter) Validate() error {
	if f.Limit < 0 {
		return ErrInvalidLimit
	}
	if f.Offset < 0 {
		return ErrInvalidOffset
	}
	if f.Since != nil && f.Before != nil && f.Since.After(*f.Before) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Matches applies every filter field except paging
func (f *Filter) Matches(r *Record) bool {
	if f.Name != "" && r.Name != f.Name {
		return false
	}
	if f.Tag != "" && !r.HasTag(f.Tag) {
		return false
	}
	if f.Since != nil && !r.UpdatedAt.After(*f.Since) {
		return false
	}
	if f.Before != nil && !r.UpdatedAt.Before(*f.Before) {
		return false
	}
	return true
}

// Page applies Offset and Limit to an already filtered, ordered slice
func (f *Filter) Page(records []*Record) []*Record {
	if f.Offset >= len(records) {
		return nil
	}
	records = records[f.Offset:]
	if f.Limit > 0 && len(records) > f.Limit {
		records = records[:f.Limit]
	}
	return records
}
