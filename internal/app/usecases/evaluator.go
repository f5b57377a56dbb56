package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/app/dto"
	"github.com/lightgraph/lightgraph/internal/app/services"
	"github.com/lightgraph/lightgraph/internal/core/graph"
)

// ScriptEvaluator answers evaluation requests for stored scripts.
// Restored scripts are cached in the repository; every request gets a fresh
// data context built from its payload.
// PRINCIPLES:
// - SRP: request handling only; passes go through ScriptRunner
// - DIP: depends on ScriptLoader and ScriptRepository
type ScriptEvaluator struct {
	loader ScriptLoader
	repo   ScriptRepository
	runner *ScriptRunner
	logger *slog.Logger

	// scripts are single writer; context swaps and passes are serialized
	mu sync.Mutex
}

func NewScriptEvaluator(loader ScriptLoader, repo ScriptRepository, runner *ScriptRunner, logger *slog.Logger) *ScriptEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	if runner == nil {
		runner = NewScriptRunner(logger)
	}
	return &ScriptEvaluator{
		loader: loader,
		repo:   repo,
		runner: runner,
		logger: logger.With("component", "script_evaluator"),
	}
}

// Evaluate runs one pass. A failed pass is reported in the response, the
// error return is reserved for requests that could not be served.
func (e *ScriptEvaluator) Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	id, nodeID, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	s, warnings, err := e.script(ctx, id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s.SetContext(services.NewDataContext(req.Context))

	start := time.Now()
	var res graph.PassResult
	if nodeID != uuid.Nil {
		n, ok := s.Node(nodeID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, nodeID)
		}
		res, err = e.runner.RunNode(s, n)
	} else {
		res, err = e.runner.Run(s)
	}
	resp := dto.NewEvaluateResponse(id, res, time.Since(start), err)
	for _, w := range warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp, nil
}

// Forget drops a cached script so the next request reloads it
func (e *ScriptEvaluator) Forget(ctx context.Context, id uuid.UUID) {
	if err := e.repo.Delete(ctx, id); err == nil {
		e.logger.Debug("script evicted", "id", id)
	}
}

func (e *ScriptEvaluator) script(ctx context.Context, id uuid.UUID) (*graph.Script, []error, error) {
	if s, err := e.repo.Get(ctx, id); err == nil {
		return s, nil, nil
	}
	s, warnings, err := e.loader.Load(ctx, id, nil)
	if err != nil {
		return nil, warnings, err
	}
	if err := e.repo.Save(ctx, id, s); err != nil {
		return nil, warnings, fmt.Errorf("failed to cache script %s: %w", id, err)
	}
	e.logger.Debug("script cached", "script", s.Name, "id", id)
	return s, warnings, nil
}
