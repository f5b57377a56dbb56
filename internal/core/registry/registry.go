// Package registry maps stable kind ids to node factories.
// Providers register their kinds explicitly at startup.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

// Factory declares the pins of a fresh node and returns its logic
type Factory func(n *graph.Node) graph.Logic

// Descriptor describes a node kind shown in the palette
type Descriptor struct {
	KindID      string
	ProviderID  string
	Name        string
	Description string
	Category    string
	// InputType and OutputType are palette hints for filtering by pin type
	InputType  types.ValueType
	OutputType types.ValueType
	Factory    Factory
}

// Kind returns the identity stamped on created nodes
func (d Descriptor) Kind() graph.Kind {
	return graph.Kind{ID: d.KindID, ProviderID: d.ProviderID, Name: d.Name, Description: d.Description}
}

func (d Descriptor) validate() error {
	switch {
	case d.KindID == "":
		return fmt.Errorf("%w: empty kind id", ErrInvalidDescriptor)
	case d.KindID == graph.ExitKindID:
		return fmt.Errorf("%w: %s is reserved", ErrInvalidDescriptor, d.KindID)
	case d.Name == "":
		return fmt.Errorf("%w: %s has no name", ErrInvalidDescriptor, d.KindID)
	case d.Factory == nil:
		return fmt.Errorf("%w: %s has no factory", ErrInvalidDescriptor, d.KindID)
	}
	return nil
}

// Registry is safe for concurrent use
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Descriptor
}

func New() *Registry {
	return &Registry{kinds: make(map[string]Descriptor)}
}

// Register adds a kind. Ids are stable across versions since they are persisted.
func (r *Registry) Register(d Descriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[d.KindID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, d.KindID)
	}
	r.kinds[d.KindID] = d
	return nil
}

// Unregister removes a kind, typically when its provider unloads
func (r *Registry) Unregister(kindID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[kindID]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, kindID)
	}
	delete(r.kinds, kindID)
	return nil
}

// UnregisterProvider removes every kind of a provider and returns how many were removed
func (r *Registry) UnregisterProvider(providerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, d := range r.kinds {
		if d.ProviderID == providerID {
			delete(r.kinds, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Resolve(kindID string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.kinds[kindID]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, kindID)
	}
	return d, nil
}

// All lists kinds sorted by category, then name
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	all := make([]Descriptor, 0, len(r.kinds))
	for _, d := range r.kinds {
		all = append(all, d)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Category != all[j].Category {
			return all[i].Category < all[j].Category
		}
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].KindID < all[j].KindID
	})
	return all
}

// Instantiate builds a detached node of the given kind
func (r *Registry) Instantiate(kindID string) (*graph.Node, error) {
	d, err := r.Resolve(kindID)
	if err != nil {
		return nil, err
	}
	return graph.NewNode(d.Kind(), d.Factory), nil
}

// Create builds a node of the given kind and adds it to the script
func (r *Registry) Create(s *graph.Script, kindID string) (*graph.Node, error) {
	n, err := r.Instantiate(kindID)
	if err != nil {
		return nil, err
	}
	if err := s.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}
