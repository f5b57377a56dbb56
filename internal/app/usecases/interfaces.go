package usecases

import (
	"context"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/graph"
)

// ScriptRepository holds live scripts the server evaluates on demand
// PRINCIPLES:
// - SRP: Only responsible for script lookup
// - DIP: Used for dependency injection
type ScriptRepository interface {
	Save(ctx context.Context, id uuid.UUID, s *graph.Script) error
	Get(ctx context.Context, id uuid.UUID) (*graph.Script, error)
	List(ctx context.Context) ([]*graph.Script, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScriptLoader restores a stored script, e.g. services.ScriptService
type ScriptLoader interface {
	Load(ctx context.Context, id uuid.UUID, hostCtx any) (*graph.Script, []error, error)
}
