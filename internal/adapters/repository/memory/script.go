// Package memory provides an in-process script store
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

// ScriptStore implements store.ScriptStore with serialized, copy-on-read entries
// PRINCIPLES:
// - KISS: map guarded by one RWMutex
// - SRP: storage and eviction only, no script semantics
// - DIP: implements store.ScriptStore
type ScriptStore struct {
	mu          sync.RWMutex
	entries     map[uuid.UUID]*entry
	currentSize int64
	maxBytes    int64
	ttl         time.Duration
	serializer  *serialization.Serializer

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	cleanupOnce   sync.Once
}

// Config holds configuration for ScriptStore
type Config struct {
	TTL             time.Duration             // zero keeps records forever
	MaxMemoryMB     int64                     // zero defaults to 64MB
	CleanupInterval time.Duration             // only used with a TTL
	Serializer      *serialization.Serializer // optional
}

type entry struct {
	record     *store.Record // scripts stripped, for filtering
	data       []byte
	size       int64
	expiresAt  time.Time
	accessedAt time.Time
}

func NewScriptStore(config Config) *ScriptStore {
	if config.MaxMemoryMB == 0 {
		config.MaxMemoryMB = 64
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.Serializer == nil {
		config.Serializer = serialization.DefaultSerializer()
	}
	s := &ScriptStore{
		entries:     make(map[uuid.UUID]*entry),
		maxBytes:    config.MaxMemoryMB * 1024 * 1024,
		ttl:         config.TTL,
		serializer:  config.Serializer,
		stopCleanup: make(chan struct{}),
	}
	if s.ttl > 0 {
		s.startCleanup(config.CleanupInterval)
	}
	return s
}

// DefaultScriptStore creates a store without expiry
func DefaultScriptStore() *ScriptStore {
	return NewScriptStore(Config{})
}

func (s *ScriptStore) Save(_ context.Context, r *store.Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("record validation failed: %w", err)
	}
	data, err := s.serializer.Serialize(r)
	if err != nil {
		return fmt.Errorf("record serialization failed: %w", err)
	}

	now := time.Now()
	e := &entry{
		record:     header(r),
		data:       data,
		size:       int64(len(data)),
		accessedAt: now,
	}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.entries[r.ID]; ok {
		s.currentSize -= old.size
		delete(s.entries, r.ID)
	}
	if err := s.reserve(e.size); err != nil {
		return err
	}
	s.entries[r.ID] = e
	s.currentSize += e.size
	return nil
}

func (s *ScriptStore) Load(_ context.Context, id uuid.UUID) (*store.Record, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && e.expired(time.Now()) {
		s.remove(id)
		ok = false
	}
	if ok {
		e.accessedAt = time.Now()
	}
	s.mu.Unlock()
	if !ok {
		return nil, store.ErrRecordNotFound
	}

	var r store.Record
	if err := s.serializer.Deserialize(e.data, &r); err != nil {
		return nil, fmt.Errorf("record deserialization failed: %w", err)
	}
	return &r, nil
}

func (s *ScriptStore) List(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter validation failed: %w", err)
	}

	now := time.Now()
	s.mu.RLock()
	var headers []*store.Record
	for _, e := range s.entries {
		if e.expired(now) || !filter.Matches(e.record) {
			continue
		}
		headers = append(headers, e.record)
	}
	s.mu.RUnlock()

	sort.Slice(headers, func(i, j int) bool { return headers[i].UpdatedAt.After(headers[j].UpdatedAt) })
	headers = filter.Page(headers)

	out := make([]*store.Record, 0, len(headers))
	for _, h := range headers {
		r, err := s.Load(ctx, h.ID)
		if err != nil {
			// evicted or expired between the scan and the load
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *ScriptStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return store.ErrRecordNotFound
	}
	s.remove(id)
	return nil
}

// Stats reports memory usage
type Stats struct {
	Count              int     `json:"count"`
	SizeBytes          int64   `json:"size_bytes"`
	MaxBytes           int64   `json:"max_bytes"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

func (s *ScriptStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Count: len(s.entries), SizeBytes: s.currentSize, MaxBytes: s.maxBytes}
	if s.maxBytes > 0 {
		st.UtilizationPercent = float64(s.currentSize) / float64(s.maxBytes) * 100
	}
	return st
}

// Close stops the cleanup goroutine
func (s *ScriptStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
		}
	})
	return nil
}

func (s *ScriptStore) startCleanup(interval time.Duration) {
	s.cleanupTicker = time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-s.cleanupTicker.C:
				s.cleanupExpired()
			case <-s.stopCleanup:
				return
			}
		}
	}()
}

func (s *ScriptStore) cleanupExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.expired(now) {
			s.remove(id)
		}
	}
}

// remove requires s.mu
func (s *ScriptStore) remove(id uuid.UUID) {
	if e, ok := s.entries[id]; ok {
		s.currentSize -= e.size
		delete(s.entries, id)
	}
}

// reserve evicts least recently used entries until size fits; requires s.mu
func (s *ScriptStore) reserve(size int64) error {
	if size > s.maxBytes {
		return fmt.Errorf("%w: record is %d bytes, max %d", store.ErrMemoryLimit, size, s.maxBytes)
	}
	if s.currentSize+size <= s.maxBytes {
		return nil
	}

	type access struct {
		id uuid.UUID
		at time.Time
	}
	order := make([]access, 0, len(s.entries))
	for id, e := range s.entries {
		order = append(order, access{id, e.accessedAt})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].at.Before(order[j].at) })
	for _, a := range order {
		if s.currentSize+size <= s.maxBytes {
			break
		}
		s.remove(a.id)
	}
	return nil
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// header copies the indexed fields of r without the script
func header(r *store.Record) *store.Record {
	h := *r
	h.Script.Nodes = nil
	h.Script.Connections = nil
	h.Metadata.Tags = append([]string(nil), r.Metadata.Tags...)
	return &h
}
