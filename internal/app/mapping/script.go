package mapping

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/validation"
)

// ScriptMapper converts between graph.Script and entities.NodeScriptEntity.
// Kinds are resolved through the registry; unknown kinds become placeholders.
type ScriptMapper struct {
	registry *registry.Registry
	logger   *slog.Logger
}

func NewScriptMapper(r *registry.Registry, logger *slog.Logger) *ScriptMapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScriptMapper{registry: r, logger: logger.With("component", "mapping")}
}

// ToEntity snapshots a script. Nodes and connections keep their order.
func (m *ScriptMapper) ToEntity(s *graph.Script) (entities.NodeScriptEntity, error) {
	e := entities.NodeScriptEntity{
		Name:        s.Name,
		Description: s.Description,
		ResultType:  string(s.ResultType()),
	}

	nodes := s.Nodes()
	e.Nodes = make([]entities.NodeEntity, 0, len(nodes))
	for _, n := range nodes {
		e.Nodes = append(e.Nodes, nodeToEntity(n))
	}

	conns := s.Connections()
	e.Connections = make([]entities.NodeConnectionEntity, 0, len(conns))
	for _, c := range conns {
		ce, err := connectionToEntity(c)
		if err != nil {
			return entities.NodeScriptEntity{}, err
		}
		e.Connections = append(e.Connections, ce)
	}
	return e, nil
}

func nodeToEntity(n *graph.Node) entities.NodeEntity {
	cols := n.Collections()
	ne := entities.NodeEntity{
		ID:             n.ID,
		Type:           n.Kind.ID,
		ProviderID:     n.Kind.ProviderID,
		Name:           n.Name,
		Description:    n.Description,
		IsExitNode:     n.IsExitNode(),
		X:              n.X,
		Y:              n.Y,
		Storage:        n.Storage(),
		PinCollections: make([]entities.NodePinCollectionEntity, 0, len(cols)),
	}
	for i, c := range cols {
		ne.PinCollections = append(ne.PinCollections, entities.NodePinCollectionEntity{
			ID:        i,
			Direction: int(c.Direction()),
			Amount:    c.Len(),
		})
	}
	return ne
}

func connectionToEntity(c *graph.Connection) (entities.NodeConnectionEntity, error) {
	srcCol, srcPin, err := c.SourceNode().PinAddress(c.Source)
	if err != nil {
		return entities.NodeConnectionEntity{}, err
	}
	dstCol, dstPin, err := c.TargetNode().PinAddress(c.Target)
	if err != nil {
		return entities.NodeConnectionEntity{}, err
	}
	return entities.NodeConnectionEntity{
		SourceType:            string(c.Source.Type()),
		SourceNode:            c.SourceNode().ID,
		SourcePinCollectionID: srcCol,
		SourcePinID:           srcPin,
		TargetType:            string(c.Target.Type()),
		TargetNode:            c.TargetNode().ID,
		TargetPinCollectionID: dstCol,
		TargetPinID:           dstPin,
	}, nil
}

// FromEntity rebuilds a live script.
// resultType overrides the persisted result type when not empty.
// Warnings are non-fatal; an error means the script could not be restored.
func (m *ScriptMapper) FromEntity(e *entities.NodeScriptEntity, resultType types.ValueType, ctx any) (*graph.Script, []error, error) {
	if err := validation.ValidateScriptEntity(e); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	rt, err := m.resultType(e, resultType)
	if err != nil {
		return nil, nil, err
	}

	exitEntity, _ := e.ExitNode()
	s := graph.NewScript(e.Name, e.Description, rt, ctx, graph.WithExitNodeID(exitEntity.ID))
	exit := s.ExitNode()
	exit.Name, exit.Description, exit.X, exit.Y = exitEntity.Name, exitEntity.Description, exitEntity.X, exitEntity.Y
	if exit.Name == "" {
		exit.Name = exit.Kind.Name
	}

	log := m.logger.With("script", e.Name)
	needs := pinNeeds(e)
	var warnings []error

	for i := range e.Nodes {
		ne := &e.Nodes[i]
		if ne.IsExitNode {
			continue
		}
		n, nodeWarnings := m.restoreNode(s, ne, needs[ne.ID])
		for _, w := range nodeWarnings {
			log.Warn("node restored with warnings", "node", ne.ID, "kind", ne.Type, "error", w)
		}
		warnings = append(warnings, nodeWarnings...)
		if err := s.AddNode(n); err != nil {
			return nil, warnings, fmt.Errorf("%w: node %s: %w", ErrInvalidEntity, ne.ID, err)
		}
		warnings = append(warnings, m.resizeCollections(s, n, ne)...)
	}

	for i, ce := range e.Connections {
		if err := connect(s, ce); err != nil {
			return nil, warnings, fmt.Errorf("%w: #%d: %w", ErrDanglingConnection, i, err)
		}
	}
	return s, warnings, nil
}

func (m *ScriptMapper) resultType(e *entities.NodeScriptEntity, override types.ValueType) (types.ValueType, error) {
	if override != "" {
		return override, nil
	}
	if e.ResultType == "" {
		return types.Any, nil
	}
	rt, err := types.Parse(e.ResultType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return rt, nil
}

// restoreNode creates a registered node or a placeholder shaped by the connections that reference it
func (m *ScriptMapper) restoreNode(s *graph.Script, ne *entities.NodeEntity, needs []pinNeed) (*graph.Node, []error) {
	var warnings []error
	d, err := m.registry.Resolve(ne.Type)
	var n *graph.Node
	if err != nil {
		n = graph.NewPlaceholder(graph.Kind{ID: ne.Type, ProviderID: ne.ProviderID, Name: ne.Name, Description: ne.Description}, ne.Storage)
		for _, pc := range ne.PinCollections {
			n.EnsureCollection(pc.ID, graph.Direction(pc.Direction), pc.Amount)
		}
		for _, need := range needs {
			if need.collection == graph.SingleCollection {
				n.EnsurePin(need.direction, need.pin, need.valueType)
			} else {
				n.EnsureCollectionPin(need.collection, need.direction, need.pin, need.valueType)
			}
		}
		warnings = append(warnings, &UnknownNodeTypeWarning{NodeID: ne.ID, KindID: ne.Type, ProviderID: ne.ProviderID})
	} else {
		n = graph.NewNode(d.Kind(), d.Factory)
		if err := n.SetStorage(ne.Storage); err != nil {
			warnings = append(warnings, &NodeWarning{NodeID: ne.ID, Err: err})
		}
	}
	n.ID = ne.ID
	n.Name, n.Description, n.X, n.Y = ne.Name, ne.Description, ne.X, ne.Y
	if n.Name == "" {
		n.Name = n.Kind.Name
	}
	return n, warnings
}

func (m *ScriptMapper) resizeCollections(s *graph.Script, n *graph.Node, ne *entities.NodeEntity) []error {
	if n.IsPlaceholder() {
		return nil
	}
	var warnings []error
	cols := n.Collections()
	for _, pc := range ne.PinCollections {
		if pc.ID >= len(cols) {
			warnings = append(warnings, &NodeWarning{NodeID: ne.ID, Err: fmt.Errorf("%w: %d", graph.ErrCollectionNotFound, pc.ID)})
			continue
		}
		if err := s.ResizeCollection(cols[pc.ID], pc.Amount); err != nil {
			warnings = append(warnings, &NodeWarning{NodeID: ne.ID, Err: err})
		}
	}
	return warnings
}

func connect(s *graph.Script, ce entities.NodeConnectionEntity) error {
	src, ok := s.Node(ce.SourceNode)
	if !ok {
		return fmt.Errorf("%w: source %s", graph.ErrNodeNotFound, ce.SourceNode)
	}
	dst, ok := s.Node(ce.TargetNode)
	if !ok {
		return fmt.Errorf("%w: target %s", graph.ErrNodeNotFound, ce.TargetNode)
	}
	out, err := src.PinAt(graph.Output, ce.SourcePinCollectionID, ce.SourcePinID)
	if err != nil {
		return err
	}
	in, err := dst.PinAt(graph.Input, ce.TargetPinCollectionID, ce.TargetPinID)
	if err != nil {
		return err
	}
	_, err = s.Connect(out, in)
	return err
}

type pinNeed struct {
	direction  graph.Direction
	collection int
	pin        int
	valueType  types.ValueType
}

// pinNeeds lists, per node, the pins referenced by persisted connections
// in ascending pin order so placeholders get typed pins at the right index.
func pinNeeds(e *entities.NodeScriptEntity) map[uuid.UUID][]pinNeed {
	needs := make(map[uuid.UUID][]pinNeed)
	for _, c := range e.Connections {
		needs[c.SourceNode] = append(needs[c.SourceNode], pinNeed{graph.Output, c.SourcePinCollectionID, c.SourcePinID, parseOrAny(c.SourceType)})
		needs[c.TargetNode] = append(needs[c.TargetNode], pinNeed{graph.Input, c.TargetPinCollectionID, c.TargetPinID, parseOrAny(c.TargetType)})
	}
	for _, list := range needs {
		sort.SliceStable(list, func(i, j int) bool { return list[i].pin < list[j].pin })
	}
	return needs
}

func parseOrAny(s string) types.ValueType {
	t, err := types.Parse(s)
	if err != nil {
		return types.Any
	}
	return t
}
