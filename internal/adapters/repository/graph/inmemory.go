// Package graphrepo keeps live scripts in memory, keyed by their store record id
package graphrepo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/graph"
)

var (
	ErrScriptNotFound = errors.New("script not found")
	ErrNilScript      = errors.New("script cannot be nil")
)

// InMemoryScriptRepository holds mapped, ready-to-evaluate scripts
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for live script lookup
// - Thread-safe
type InMemoryScriptRepository struct {
	mu      sync.RWMutex
	scripts map[uuid.UUID]*graph.Script
}

func NewInMemoryScriptRepository() *InMemoryScriptRepository {
	return &InMemoryScriptRepository{
		scripts: make(map[uuid.UUID]*graph.Script),
	}
}

// Save registers s under id, replacing any previous script
func (r *InMemoryScriptRepository) Save(_ context.Context, id uuid.UUID, s *graph.Script) error {
	if s == nil {
		return ErrNilScript
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scripts[id] = s
	return nil
}

func (r *InMemoryScriptRepository) Get(_ context.Context, id uuid.UUID) (*graph.Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scripts[id]
	if !ok {
		return nil, ErrScriptNotFound
	}
	return s, nil
}

// List returns the cached scripts ordered by name
func (r *InMemoryScriptRepository) List(_ context.Context) ([]*graph.Script, error) {
	r.mu.RLock()
	out := make([]*graph.Script, 0, len(r.scripts))
	for _, s := range r.scripts {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryScriptRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scripts[id]; !ok {
		return ErrScriptNotFound
	}
	delete(r.scripts, id)
	return nil
}
