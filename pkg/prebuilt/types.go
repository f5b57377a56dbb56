package prebuilt

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

var (
	ErrUnknownPrebuilt = errors.New("unknown prebuilt")
	ErrMissingPath     = errors.New("prebuilt needs a data model path")
)

// Config parameterises a prebuilt. Builders read the fields they need.
type Config struct {
	Name       string
	Path       string
	Paths      []string
	Limit      float64
	ResultType types.ValueType
}

// Builder constructs a script from a Config. Builders only create nodes from
// the kind registry they are given.
type Builder interface {
	Name() string
	Build(kinds *registry.Registry, cfg Config) (*graph.Script, error)
}

// BuildFunc is a convenience adapter to implement Builder via functions.
type BuildFunc struct {
	NameStr string
	Fn      func(kinds *registry.Registry, cfg Config) (*graph.Script, error)
}

func (b BuildFunc) Name() string { return b.NameStr }
func (b BuildFunc) Build(kinds *registry.Registry, cfg Config) (*graph.Script, error) {
	return b.Fn(kinds, cfg)
}

// NewBuildFunc creates a Builder from a function.
func NewBuildFunc(name string, fn func(kinds *registry.Registry, cfg Config) (*graph.Script, error)) BuildFunc {
	return BuildFunc{NameStr: name, Fn: fn}
}

// Registry holds named prebuilts.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds or replaces a prebuilt builder.
func (r *Registry) Register(b Builder) {
	r.builders[b.Name()] = b
}

// MustRegister panics on duplicate names; useful during init() setup.
func (r *Registry) MustRegister(b Builder) {
	if _, exists := r.builders[b.Name()]; exists {
		panic(fmt.Sprintf("prebuilt already registered: %s", b.Name()))
	}
	r.builders[b.Name()] = b
}

// Get retrieves a named prebuilt.
func (r *Registry) Get(name string) (Builder, bool) {
	b, ok := r.builders[name]
	return b, ok
}

// Names lists the registered prebuilts in order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build runs the named prebuilt
func (r *Registry) Build(name string, kinds *registry.Registry, cfg Config) (*graph.Script, error) {
	b, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrebuilt, name)
	}
	return b.Build(kinds, cfg)
}

// DefaultRegistry holds the prebuilts of this package.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.MustRegister(NewBuildFunc("value", Value))
	DefaultRegistry.MustRegister(NewBuildFunc("flag", Flag))
	DefaultRegistry.MustRegister(NewBuildFunc("threshold", Threshold))
	DefaultRegistry.MustRegister(NewBuildFunc("any", AnyOf))
}
