package validation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/pkg/entities"
)

var (
	ErrMissingExitNode   = errors.New("script has no exit node")
	ErrMultipleExitNodes = errors.New("script has more than one exit node")
	ErrDuplicateNodeID   = errors.New("duplicate node ID")
	ErrDanglingEndpoint  = errors.New("connection references an unknown node")
	ErrOccupiedTarget    = errors.New("two connections share a target pin")
	ErrCyclicScript      = errors.New("script contains a cycle")
)

// ScriptValidationOptions controls optional validation checks.
type ScriptValidationOptions struct {
	// CheckCycles enables detection of directed cycles.
	CheckCycles bool
}

// ValidateScriptEntity performs structural validation on a persisted script.
// It is meant for records loaded from external sources, before mapping them
// into a live script.
func ValidateScriptEntity(e *entities.NodeScriptEntity, opts ...ScriptValidationOptions) error {
	if e == nil {
		return ErrNilEntity
	}
	if err := ValidateWithPlayground(e); err != nil {
		return err
	}

	nodes := make(map[uuid.UUID]struct{}, len(e.Nodes))
	exits := 0
	for _, n := range e.Nodes {
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
		}
		nodes[n.ID] = struct{}{}
		if n.IsExitNode {
			exits++
		}
	}
	switch {
	case exits == 0:
		return ErrMissingExitNode
	case exits > 1:
		return ErrMultipleExitNodes
	}

	type slot struct {
		node            uuid.UUID
		collection, pin int
	}
	targets := make(map[slot]struct{}, len(e.Connections))
	for _, c := range e.Connections {
		if _, ok := nodes[c.SourceNode]; !ok {
			return fmt.Errorf("%w: source %s", ErrDanglingEndpoint, c.SourceNode)
		}
		if _, ok := nodes[c.TargetNode]; !ok {
			return fmt.Errorf("%w: target %s", ErrDanglingEndpoint, c.TargetNode)
		}
		k := slot{c.TargetNode, c.TargetPinCollectionID, c.TargetPinID}
		if _, dup := targets[k]; dup {
			return fmt.Errorf("%w: node %s pin %d/%d", ErrOccupiedTarget, c.TargetNode, c.TargetPinCollectionID, c.TargetPinID)
		}
		targets[k] = struct{}{}
	}

	var cfg ScriptValidationOptions
	if len(opts) > 0 {
		cfg = opts[0]
	}
	if cfg.CheckCycles && hasCycle(e) {
		return ErrCyclicScript
	}
	return nil
}

// hasCycle detects any cycle in a directed graph using DFS with coloring.
func hasCycle(e *entities.NodeScriptEntity) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting
		black = 2 // visited
	)
	color := make(map[uuid.UUID]int, len(e.Nodes))
	adj := make(map[uuid.UUID][]uuid.UUID, len(e.Nodes))
	for _, c := range e.Connections {
		adj[c.SourceNode] = append(adj[c.SourceNode], c.TargetNode)
	}
	var dfs func(uuid.UUID) bool
	dfs = func(u uuid.UUID) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				return true // back-edge
			}
			if color[v] == white && dfs(v) {
				return true
			}
		}
		color[u] = black
		return false
	}
	for _, n := range e.Nodes {
		if color[n.ID] == white && dfs(n.ID) {
			return true
		}
	}
	return false
}
