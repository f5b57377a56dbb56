package prebuilt

import (
	"encoding/json"
	"fmt"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
	"github.com/lightgraph/lightgraph/internal/nodes"
)

// Value sends the data model value at cfg.Path to the exit node. The result
// type defaults to Any so the script can feed any property.
func Value(kinds *registry.Registry, cfg Config) (*graph.Script, error) {
	if cfg.Path == "" {
		return nil, ErrMissingPath
	}
	resultType := cfg.ResultType
	if resultType == "" {
		resultType = types.Any
	}
	b := newBuilder(kinds, cfg.name("value "+cfg.Path), resultType)
	src := b.data(cfg.Path)
	b.connect(b.first(src), b.s.ExitNode().Inputs()[0])
	return b.done()
}

// Flag is a display condition that holds while cfg.Path is true
func Flag(kinds *registry.Registry, cfg Config) (*graph.Script, error) {
	if cfg.Path == "" {
		return nil, ErrMissingPath
	}
	b := newBuilder(kinds, cfg.name("flag "+cfg.Path), types.Bool)
	src := b.data(cfg.Path)
	b.connect(b.first(src), b.s.ExitNode().Inputs()[0])
	return b.done()
}

// Threshold is a display condition that holds while cfg.Path is above cfg.Limit
func Threshold(kinds *registry.Registry, cfg Config) (*graph.Script, error) {
	if cfg.Path == "" {
		return nil, ErrMissingPath
	}
	b := newBuilder(kinds, cfg.name(fmt.Sprintf("%s above %g", cfg.Path, cfg.Limit)), types.Bool)
	src := b.data(cfg.Path)
	limit := b.node(nodes.KindStaticNumeric, b.encode(cfg.Limit))
	cmp := b.node(nodes.KindGreaterThan, "")
	b.connect(b.first(src), b.input(cmp, "A"))
	b.connect(b.first(limit), b.input(cmp, "B"))
	b.connect(b.output(cmp, "Result"), b.s.ExitNode().Inputs()[0])
	return b.done()
}

// AnyOf is a display condition that holds while any of cfg.Paths is true
func AnyOf(kinds *registry.Registry, cfg Config) (*graph.Script, error) {
	if len(cfg.Paths) == 0 {
		return nil, ErrMissingPath
	}
	b := newBuilder(kinds, cfg.name(fmt.Sprintf("any of %d flags", len(cfg.Paths))), types.Bool)
	or := b.node(nodes.KindOr, "")
	if b.err != nil {
		return nil, b.err
	}
	values := or.Collections()[0]
	for i, path := range cfg.Paths {
		src := b.data(path)
		if b.err != nil {
			break
		}
		pin, err := values.At(i)
		if err != nil {
			pin, err = b.s.AddPinToCollection(values)
		}
		if err != nil {
			b.err = err
			break
		}
		b.connect(b.first(src), pin)
	}
	b.connect(b.output(or, "Result"), b.s.ExitNode().Inputs()[0])
	return b.done()
}

func (c Config) name(fallback string) string {
	if c.Name != "" {
		return c.Name
	}
	return fallback
}

// builder keeps the first error so scripts read as a straight line of steps
type builder struct {
	kinds *registry.Registry
	s     *graph.Script
	err   error
}

func newBuilder(kinds *registry.Registry, name string, resultType types.ValueType) *builder {
	return &builder{kinds: kinds, s: graph.NewScript(name, "", resultType, nil)}
}

func (b *builder) node(kindID, storage string) *graph.Node {
	if b.err != nil {
		return nil
	}
	n, err := b.kinds.Create(b.s, kindID)
	if err != nil {
		b.err = err
		return nil
	}
	if storage != "" {
		if err := b.s.Edit(func() error { return n.SetStorage(storage) }); err != nil {
			b.err = fmt.Errorf("%s storage: %w", kindID, err)
			return nil
		}
	}
	return n
}

func (b *builder) data(path string) *graph.Node {
	return b.node(nodes.KindDataModelValue, b.encode(map[string]string{"path": path}))
}

func (b *builder) encode(v any) string {
	raw, err := json.Marshal(v)
	if err != nil && b.err == nil {
		b.err = err
	}
	return string(raw)
}

func (b *builder) input(n *graph.Node, name string) *graph.Pin {
	if n == nil {
		return nil
	}
	p, ok := n.Input(name)
	if !ok && b.err == nil {
		b.err = fmt.Errorf("%w: %s", graph.ErrPinNotFound, name)
	}
	return p
}

func (b *builder) output(n *graph.Node, name string) *graph.Pin {
	if n == nil {
		return nil
	}
	p, ok := n.Output(name)
	if !ok && b.err == nil {
		b.err = fmt.Errorf("%w: %s", graph.ErrPinNotFound, name)
	}
	return p
}

// first is the first output of n
func (b *builder) first(n *graph.Node) *graph.Pin {
	if n == nil || len(n.Outputs()) == 0 {
		return nil
	}
	return n.Outputs()[0]
}

func (b *builder) connect(src, dst *graph.Pin) {
	if b.err != nil {
		return
	}
	if src == nil || dst == nil {
		b.err = graph.ErrNilPin
		return
	}
	if _, err := b.s.Connect(src, dst); err != nil {
		b.err = err
	}
}

func (b *builder) done() (*graph.Script, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.s, nil
}
