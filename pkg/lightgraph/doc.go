// Package lightgraph provides a minimal public façade for loading lighting
// profiles and node scripts without importing internal packages. It
// re-exports the core types for convenience and exposes a Runtime that owns
// the node kinds, a script store, the shared data model and a host.
package lightgraph
