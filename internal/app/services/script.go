// Package services wires the script store, the mapper and the serializer
// into the operations the CLI and the server expose.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/internal/infrastructure/metrics"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

var ErrNilScript = errors.New("script cannot be nil")

// ScriptService saves, loads, exports and imports node scripts
// PRINCIPLES:
// - SRP: persistence orchestration only; evaluation lives in usecases
// - DIP: depends on store.ScriptStore, not on a database
type ScriptService struct {
	store      store.ScriptStore
	mapper     *mapping.ScriptMapper
	serializer *serialization.Serializer
	logger     *slog.Logger
}

func NewScriptService(st store.ScriptStore, mapper *mapping.ScriptMapper, serializer *serialization.Serializer, logger *slog.Logger) *ScriptService {
	if serializer == nil {
		serializer = serialization.NewSerializer(serialization.SerializationConfig{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScriptService{
		store:      st,
		mapper:     mapper,
		serializer: serializer,
		logger:     logger.With("component", "script_service"),
	}
}

// Save persists s under its own id
func (s *ScriptService) Save(ctx context.Context, script *graph.Script, meta store.Metadata) (*store.Record, error) {
	if script == nil {
		return nil, ErrNilScript
	}
	e, err := s.mapper.ToEntity(script)
	if err != nil {
		return nil, fmt.Errorf("failed to map script: %w", err)
	}
	r := &store.Record{
		ID:        script.ID,
		Name:      script.Name,
		Script:    e,
		Metadata:  meta,
		UpdatedAt: time.Now().UTC(),
		Version:   store.CurrentVersion,
	}
	if err := s.store.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save script %s: %w", script.ID, err)
	}
	s.logger.Debug("script saved", "script", script.Name, "id", script.ID)
	return r, nil
}

// SaveEntity persists an already mapped script, e.g. one posted to the server
func (s *ScriptService) SaveEntity(ctx context.Context, e *entities.NodeScriptEntity, meta store.Metadata) (*store.Record, error) {
	// map once so records that cannot be restored are rejected up front
	if _, _, err := s.mapper.FromEntity(e, "", nil); err != nil {
		return nil, err
	}
	r := store.NewRecord(*e)
	r.Metadata = meta
	if err := s.store.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save script %s: %w", r.ID, err)
	}
	return r, nil
}

// Load restores the script stored under id with hostCtx as its context
func (s *ScriptService) Load(ctx context.Context, id uuid.UUID, hostCtx any) (*graph.Script, []error, error) {
	r, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	script, warnings, err := s.fromEntity(&r.Script, hostCtx)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to restore script %s: %w", id, err)
	}
	script.ID = r.ID
	return script, warnings, nil
}

func (s *ScriptService) List(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	return s.store.List(ctx, filter)
}

func (s *ScriptService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// Export encodes a script with the service serializer
func (s *ScriptService) Export(script *graph.Script) ([]byte, error) {
	if script == nil {
		return nil, ErrNilScript
	}
	e, err := s.mapper.ToEntity(script)
	if err != nil {
		return nil, fmt.Errorf("failed to map script: %w", err)
	}
	data, err := s.serializer.Serialize(e)
	if err != nil {
		return nil, fmt.Errorf("failed to export script: %w", err)
	}
	return data, nil
}

// Import decodes data produced by Export
func (s *ScriptService) Import(data []byte, hostCtx any) (*graph.Script, []error, error) {
	var e entities.NodeScriptEntity
	if err := s.serializer.Deserialize(data, &e); err != nil {
		return nil, nil, fmt.Errorf("failed to import script: %w", err)
	}
	return s.fromEntity(&e, hostCtx)
}

func (s *ScriptService) fromEntity(e *entities.NodeScriptEntity, hostCtx any) (*graph.Script, []error, error) {
	script, warnings, err := s.mapper.FromEntity(e, "", hostCtx)
	if n := mapping.Placeholders(warnings); n > 0 {
		metrics.AddPlaceholders(int64(n))
		s.logger.Warn("script loaded with placeholder nodes", "script", e.Name, "placeholders", n)
	}
	return script, warnings, err
}
