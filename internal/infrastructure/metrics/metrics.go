package metrics

import (
	"expvar"
)

// Evaluation metrics keyed by script name.
var (
	passesTotal       = expvar.NewMap("lightgraph_passes_total")
	cycleFailures     = expvar.NewMap("lightgraph_cycle_failures_total")
	nodeFaults        = expvar.NewMap("lightgraph_node_faults_total")
	lastPassDurations = expvar.NewMap("lightgraph_last_pass_microseconds")
)

// Runtime metrics.
var (
	nodeComputations = new(expvar.Int)
	ticksTotal       = new(expvar.Int)
	ticksSkipped     = new(expvar.Int)
	timelineUpdates  = new(expvar.Int)
	placeholders     = new(expvar.Int)
	activeLayers     = new(expvar.Int)
	tickWorkers      = new(expvar.Int)
)

func init() {
	expvar.Publish("lightgraph_node_computations_total", nodeComputations)
	expvar.Publish("lightgraph_ticks_total", ticksTotal)
	expvar.Publish("lightgraph_ticks_skipped_total", ticksSkipped)
	expvar.Publish("lightgraph_timeline_updates_total", timelineUpdates)
	expvar.Publish("lightgraph_placeholders_total", placeholders)
	expvar.Publish("lightgraph_active_layers", activeLayers)
	expvar.Publish("lightgraph_tick_workers", tickWorkers)
}

// Evaluation helpers
func IncPasses(script string)                       { passesTotal.Add(script, 1) }
func IncCycleFailures(script string)                { cycleFailures.Add(script, 1) }
func AddNodeFaults(script string, n int64)          { nodeFaults.Add(script, n) }
func SetLastPassMicros(script string, micros int64) { setMapInt(lastPassDurations, script, micros) }

// Runtime helpers
func AddNodeComputations(n int64) { nodeComputations.Add(n) }
func IncTicks()                   { ticksTotal.Add(1) }
func IncSkippedTicks()            { ticksSkipped.Add(1) }
func AddTimelineUpdates(n int64)  { timelineUpdates.Add(n) }
func AddPlaceholders(n int64)     { placeholders.Add(n) }
func SetActiveLayers(n int)       { activeLayers.Set(int64(n)) }
func SetTickWorkers(n int)        { tickWorkers.Set(int64(n)) }

// setMapInt replaces value for a key in an expvar.Map with an *expvar.Int set to v.
func setMapInt(m *expvar.Map, key string, v int64) {
	x := new(expvar.Int)
	x.Set(v)
	m.Set(key, x)
}
