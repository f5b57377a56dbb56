package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/pkg/entities"
)

// CurrentVersion is written with every record
const CurrentVersion = "1.0"

// Record is a named, persisted node script
// PRINCIPLES:
// - KISS: the script travels as its entity, never as a live graph
// - SRP: only carries what a store needs to index and return
type Record struct {
	ID        uuid.UUID                 `json:"id"`
	Name      string                    `json:"name"`
	Script    entities.NodeScriptEntity `json:"script"`
	Metadata  Metadata                  `json:"metadata"`
	UpdatedAt time.Time                 `json:"updated_at"`
	Version   string                    `json:"version"`
}

// Metadata holds indexing information that is not part of the script
type Metadata struct {
	Source    string   `json:"source,omitempty"`
	CreatedBy string   `json:"created_by,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// NewRecord wraps a script entity under a fresh id
func NewRecord(script entities.NodeScriptEntity) *Record {
	return &Record{
		ID:        uuid.New(),
		Name:      script.Name,
		Script:    script,
		UpdatedAt: time.Now().UTC(),
		Version:   CurrentVersion,
	}
}

// Validate ensures record integrity
func (r *Record) Validate() error {
	if r == nil {
		return ErrNilRecord
	}
	if r.ID == uuid.Nil {
		return ErrInvalidRecordID
	}
	if r.Name == "" {
		return ErrInvalidName
	}
	return nil
}

// HasTag reports whether the record carries tag
func (r *Record) HasTag(tag string) bool {
	for _, t := range r.Metadata.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
