package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lightgraph/lightgraph/internal/core/channel"
	"github.com/lightgraph/lightgraph/internal/core/scheduler"
	"github.com/lightgraph/lightgraph/internal/infrastructure/metrics"
)

// Frame is the output of one host tick: every active layer in order
type Frame struct {
	Tick   uint64        `json:"tick"`
	Delta  time.Duration `json:"delta"`
	Layers []LayerFrame  `json:"layers"`
}

// HostConfig holds configuration for Host
type HostConfig struct {
	FrameBuffer int // Frames kept for slow consumers; older frames are dropped
	Workers     int // Layers updated in parallel; 0 or 1 updates them in order
}

// Host owns the layers of the loaded profiles and ticks them. Frames are
// published on a bounded queue for the renderer.
// PRINCIPLES:
// - Non-reentrant: a tick arriving while one runs is skipped and counted
// - SRP: scheduling only; layers do the work
// - Thread-safe: layers may be added while ticking
type Host struct {
	mu     sync.RWMutex
	layers []*Layer
	closed bool

	ticking atomic.Bool
	ticks   atomic.Uint64
	pool    *scheduler.Pool
	frames  *channel.Buffered[Frame]
	logger  *slog.Logger
}

func NewHost(config HostConfig, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Host{
		frames: channel.NewBuffered[Frame](channel.Config{MaxSize: config.FrameBuffer}),
		logger: logger.With("component", "host"),
	}
	if config.Workers > 1 {
		h.pool = scheduler.New(config.Workers, 0)
		h.pool.Start()
	}
	metrics.SetTickWorkers(max(config.Workers, 1))
	return h
}

func (h *Host) AddLayer(l *Layer) error {
	if l == nil {
		return ErrNilLayer
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHostClosed
	}
	for _, existing := range h.layers {
		if existing.ID == l.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateLayer, l.ID)
		}
	}
	h.layers = append(h.layers, l)
	return nil
}

// AddProfile adds every layer of p
func (h *Host) AddProfile(p *Profile) error {
	for _, l := range p.Layers {
		if err := h.AddLayer(l); err != nil {
			return err
		}
	}
	return nil
}

func (h *Host) RemoveLayer(id uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.layers {
		if l.ID == id {
			h.layers = append(h.layers[:i], h.layers[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Host) Layers() []*Layer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Layer(nil), h.layers...)
}

// Frames is the queue ticks publish to
func (h *Host) Frames() *channel.Buffered[Frame] {
	return h.frames
}

// Tick updates every layer by delta and publishes the resulting frame.
// It reports false when the tick was skipped.
func (h *Host) Tick(delta time.Duration) bool {
	if !h.ticking.CompareAndSwap(false, true) {
		metrics.IncSkippedTicks()
		h.logger.Debug("tick skipped, previous tick still running")
		return false
	}
	defer h.ticking.Store(false)

	metrics.IncTicks()
	frame := Frame{Tick: h.ticks.Add(1), Delta: delta}
	layers := h.Layers()
	h.update(layers, delta)
	for _, l := range layers {
		if l.Active() {
			frame.Layers = append(frame.Layers, l.Snapshot())
		}
	}
	metrics.SetActiveLayers(len(frame.Layers))

	dropped, err := h.frames.Offer(frame)
	if err != nil {
		h.logger.Debug("frame not published", "tick", frame.Tick, "error", err)
	} else if dropped {
		h.logger.Debug("frame queue full, oldest frame dropped", "tick", frame.Tick)
	}
	return true
}

// update advances layers, on the pool when there is one. Layers share no
// state so the order they finish in does not matter.
func (h *Host) update(layers []*Layer, delta time.Duration) {
	if h.pool != nil && len(layers) > 1 {
		tasks := make([]scheduler.Task, len(layers))
		for i, l := range layers {
			tasks[i] = func() { l.Update(delta) }
		}
		if err := h.pool.Run(tasks); err != nil {
			h.logger.Warn("layer update interrupted", "error", err)
		}
		metrics.AddTimelineUpdates(int64(len(layers)))
		return
	}
	for _, l := range layers {
		l.Update(delta)
	}
	metrics.AddTimelineUpdates(int64(len(layers)))
}

// Run ticks at interval until ctx is done. Deltas are measured, not assumed.
func (h *Host) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid tick interval %s", interval)
	}
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return ErrHostClosed
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.logger.Info("host started", "interval", interval, "layers", len(h.Layers()))
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("host stopped", "ticks", h.ticks.Load())
			return ctx.Err()
		case now := <-ticker.C:
			h.Tick(now.Sub(last))
			last = now
		}
	}
}

// Close stops publishing frames; queued frames can still be received
func (h *Host) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	if h.pool != nil {
		h.pool.Stop()
	}
	return h.frames.Close()
}
