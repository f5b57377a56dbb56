package usecases

import (
	"errors"
	"log/slog"
	"time"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/infrastructure/metrics"
)

// ScriptRunner is the pass boundary: it evaluates a script, records metrics
// and logs cycles and node faults. Callers decide what to keep on failure.
type ScriptRunner struct {
	logger *slog.Logger
}

func NewScriptRunner(logger *slog.Logger) *ScriptRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScriptRunner{logger: logger.With("component", "script_runner")}
}

// Run evaluates the exit node of s
func (r *ScriptRunner) Run(s *graph.Script) (graph.PassResult, error) {
	start := time.Now()
	res, err := s.Evaluate()
	r.record(s, res, time.Since(start), err)
	return res, err
}

// RunNode evaluates a single node of s for inspection
func (r *ScriptRunner) RunNode(s *graph.Script, node *graph.Node) (graph.PassResult, error) {
	start := time.Now()
	res, err := s.EvaluateNode(node.ID)
	r.record(s, res, time.Since(start), err)
	return res, err
}

func (r *ScriptRunner) record(s *graph.Script, res graph.PassResult, elapsed time.Duration, err error) {
	metrics.IncPasses(s.Name)
	metrics.AddNodeComputations(int64(res.Computed))
	metrics.SetLastPassMicros(s.Name, elapsed.Microseconds())

	if err != nil {
		if errors.Is(err, graph.ErrCyclicGraph) {
			metrics.IncCycleFailures(s.Name)
		}
		r.logger.Warn("script pass failed", "script", s.Name, "id", s.ID, "error", err)
		return
	}
	if len(res.Faults) > 0 {
		metrics.AddNodeFaults(s.Name, int64(len(res.Faults)))
		for _, f := range res.Faults {
			r.logger.Warn("node faulted", "script", s.Name, "node", f.NodeID, "kind", f.KindID, "error", f.Err)
		}
	}
}
