package lightgraph

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	graphrepo "github.com/lightgraph/lightgraph/internal/adapters/repository/graph"
	"github.com/lightgraph/lightgraph/internal/adapters/repository/memory"
	"github.com/lightgraph/lightgraph/internal/app/dto"
	"github.com/lightgraph/lightgraph/internal/app/mapping"
	"github.com/lightgraph/lightgraph/internal/app/services"
	"github.com/lightgraph/lightgraph/internal/app/usecases"
	"github.com/lightgraph/lightgraph/internal/core/graph"
	"github.com/lightgraph/lightgraph/internal/core/registry"
	"github.com/lightgraph/lightgraph/internal/core/store"
	"github.com/lightgraph/lightgraph/internal/nodes"
	"github.com/lightgraph/lightgraph/pkg/entities"
	"github.com/lightgraph/lightgraph/pkg/prebuilt"
	"github.com/lightgraph/lightgraph/pkg/serialization"
)

// Re-export core types for convenience
type (
	Script           = graph.Script
	Layer            = usecases.Layer
	Profile          = usecases.Profile
	Frame            = usecases.Frame
	DataContext      = services.DataContext
	ScriptStore      = store.ScriptStore
	EvaluateResponse = dto.EvaluateResponse
)

// Option configures a Runtime
type Option func(*options)

type options struct {
	store       store.ScriptStore
	serializer  *serialization.Serializer
	logger      *slog.Logger
	frameBuffer int
	workers     int
	data        map[string]any
}

// WithStore replaces the default in-memory script store
func WithStore(st ScriptStore) Option { return func(o *options) { o.store = st } }

// WithSerializer sets the codec used by Export and Import
func WithSerializer(s *serialization.Serializer) Option {
	return func(o *options) { o.serializer = s }
}

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithHost sizes the frame queue and the layer update workers
func WithHost(frameBuffer, workers int) Option {
	return func(o *options) { o.frameBuffer, o.workers = frameBuffer, workers }
}

// WithData seeds the shared data model
func WithData(initial map[string]any) Option { return func(o *options) { o.data = initial } }

// Runtime is a simple façade over the node kinds, the script store, the data
// model and the host. The default runtime keeps everything in memory and is
// suitable for local usage and tests.
type Runtime struct {
	kinds     *registry.Registry
	mapper    *mapping.ScriptMapper
	scripts   *services.ScriptService
	evaluator *usecases.ScriptEvaluator
	loader    *usecases.ProfileLoader
	host      *usecases.Host
	data      *services.DataContext
}

// NewRuntime constructs a runtime with the builtin node kinds
func NewRuntime(opts ...Option) (*Runtime, error) {
	o := options{frameBuffer: 64}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.DefaultScriptStore()
	}
	if o.serializer == nil {
		o.serializer = serialization.DefaultSerializer()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	kinds := registry.New()
	if err := nodes.RegisterBuiltins(kinds); err != nil {
		return nil, err
	}
	mapper := mapping.NewScriptMapper(kinds, o.logger)
	scripts := services.NewScriptService(o.store, mapper, o.serializer, o.logger)
	runner := usecases.NewScriptRunner(o.logger)
	return &Runtime{
		kinds:     kinds,
		mapper:    mapper,
		scripts:   scripts,
		evaluator: usecases.NewScriptEvaluator(scripts, graphrepo.NewInMemoryScriptRepository(), runner, o.logger),
		loader:    usecases.NewProfileLoader(mapper, runner, o.logger),
		host:      usecases.NewHost(usecases.HostConfig{FrameBuffer: o.frameBuffer, Workers: o.workers}, o.logger),
		data:      services.NewDataContext(o.data),
	}, nil
}

// Data is the data model every loaded profile reads from
func (rt *Runtime) Data() *DataContext { return rt.data }

// Prebuilt builds one of the ready-made scripts against the runtime's kinds
func (rt *Runtime) Prebuilt(name string, cfg prebuilt.Config) (*Script, error) {
	s, err := prebuilt.DefaultRegistry.Build(name, rt.kinds, cfg)
	if err != nil {
		return nil, err
	}
	s.SetContext(rt.data)
	return s, nil
}

// ScriptEntity converts a script into the record profiles embed
func (rt *Runtime) ScriptEntity(s *Script) (entities.NodeScriptEntity, error) {
	return rt.mapper.ToEntity(s)
}

// SaveScript persists a script and returns its id
func (rt *Runtime) SaveScript(ctx context.Context, s *Script, tags ...string) (uuid.UUID, error) {
	rec, err := rt.scripts.Save(ctx, s, store.Metadata{Source: "runtime", Tags: tags})
	if err != nil {
		return uuid.Nil, err
	}
	return rec.ID, nil
}

// Evaluate runs a stored script against data, or against the runtime's data
// model when data is nil
func (rt *Runtime) Evaluate(ctx context.Context, id uuid.UUID, data map[string]any) (*EvaluateResponse, error) {
	if data == nil {
		data = rt.data.Snapshot()
	}
	return rt.evaluator.Evaluate(ctx, &dto.EvaluateRequest{ScriptID: id.String(), Context: data})
}

// Export encodes a script with the runtime's serializer
func (rt *Runtime) Export(s *Script) ([]byte, error) { return rt.scripts.Export(s) }

// Import decodes a script bound to the runtime's data model
func (rt *Runtime) Import(data []byte) (*Script, []error, error) {
	return rt.scripts.Import(data, rt.data)
}

// LoadProfile maps e and adds its layers to the host. Warnings name the
// parts of the profile that were dropped.
func (rt *Runtime) LoadProfile(e *entities.ProfileEntity) (*Profile, []error, error) {
	p, warnings, err := rt.loader.Load(e, rt.data)
	if err != nil {
		return nil, warnings, err
	}
	if err := rt.host.AddProfile(p); err != nil {
		return nil, warnings, err
	}
	return p, warnings, nil
}

// SnapshotProfile converts a loaded profile back into its record
func (rt *Runtime) SnapshotProfile(p *Profile) (entities.ProfileEntity, error) {
	return usecases.ProfileToEntity(p, rt.mapper)
}

// Tick advances every layer by delta and returns the oldest queued frame,
// which is the one just published unless Run left frames behind.
// It reports false when the tick was skipped or the runtime is closed.
func (rt *Runtime) Tick(ctx context.Context, delta time.Duration) (Frame, bool) {
	if !rt.host.Tick(delta) {
		return Frame{}, false
	}
	f, err := rt.host.Frames().Receive(ctx)
	if err != nil {
		return Frame{}, false
	}
	return f, true
}

// Run ticks the host at interval until ctx is done. Frames are left on the
// queue returned by Frames.
func (rt *Runtime) Run(ctx context.Context, interval time.Duration) error {
	return rt.host.Run(ctx, interval)
}

// Frames receives the frames published by Run
func (rt *Runtime) Frames(ctx context.Context) (Frame, error) {
	return rt.host.Frames().Receive(ctx)
}

func (rt *Runtime) Close() error {
	return rt.host.Close()
}
