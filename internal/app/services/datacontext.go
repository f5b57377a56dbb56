package services

import (
	"strings"
	"sync"
)

// DataContext is the host data model scripts read through data-model nodes.
// Paths are dot separated; each segment descends into a nested map.
// PRINCIPLES:
// - SRP: holds values, knows nothing about scripts
// - Thread-safe: hosts write from their own goroutines while layers tick
type DataContext struct {
	mu      sync.RWMutex
	values  map[string]any
	version uint64
}

// NewDataContext copies initial into a new context
func NewDataContext(initial map[string]any) *DataContext {
	return &DataContext{values: deepCopy(initial)}
}

// Lookup implements nodes.DataSource
func (c *DataContext) Lookup(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var cur any = c.values
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores v at path, creating intermediate maps and replacing
// non-map values found on the way
func (c *DataContext) Set(path string, v any) {
	if path == "" {
		return
	}
	segs := strings.Split(path, ".")

	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.values
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[seg] = next
		}
		m = next
	}
	m[segs[len(segs)-1]] = v
	c.version++
}

// Update merges top-level values
func (c *DataContext) Update(values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range values {
		c.values[k] = v
	}
	c.version++
}

// Delete removes path and reports whether it existed
func (c *DataContext) Delete(path string) bool {
	segs := strings.Split(path, ".")

	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.values
	for _, seg := range segs[:len(segs)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			return false
		}
		m = next
	}
	last := segs[len(segs)-1]
	if _, ok := m[last]; !ok {
		return false
	}
	delete(m, last)
	c.version++
	return true
}

// Snapshot returns a deep copy of the data model
func (c *DataContext) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return deepCopy(c.values)
}

// Version increases on every write
func (c *DataContext) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

func deepCopy(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if m, ok := v.(map[string]any); ok {
			v = deepCopy(m)
		}
		dst[k] = v
	}
	return dst
}
