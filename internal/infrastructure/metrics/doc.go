// Package metrics exposes expvar-published counters and gauges used by the
// lightgraph runtime (evaluator, layers and the host tick). It is consumed by
// lightgraph-server for the /debug/vars and /metrics endpoints.
package metrics
