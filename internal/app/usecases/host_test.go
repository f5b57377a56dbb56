package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightgraph/lightgraph/internal/core/channel"
	"github.com/lightgraph/lightgraph/internal/core/timeline"
)

func TestHostTickPublishesFrames(t *testing.T) {
	h := NewHost(HostConfig{FrameBuffer: 8}, nil)
	l, _ := rampLayer(t, timeline.PlayRepeat)
	require.NoError(t, h.AddLayer(l))

	assert.True(t, h.Tick(500*ms))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	f, err := h.Frames().Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.Tick)
	assert.Equal(t, 500*ms, f.Delta)
	require.Len(t, f.Layers, 1)
	assert.Equal(t, l.ID, f.Layers[0].LayerID)
	assert.InDelta(t, 2.5, f.Layers[0].Values["Brightness"], 1e-9)
}

func TestHostTickSkipsWhenBusy(t *testing.T) {
	h := NewHost(HostConfig{}, nil)
	l, _ := rampLayer(t, timeline.PlayRepeat)
	require.NoError(t, h.AddLayer(l))

	h.ticking.Store(true)
	assert.False(t, h.Tick(100*ms))
	assert.Equal(t, time.Duration(0), l.Timeline.Position())
	assert.Equal(t, 0, h.Frames().Len())

	h.ticking.Store(false)
	assert.True(t, h.Tick(100*ms))
	assert.Equal(t, 100*ms, l.Timeline.Position())
}

func TestHostInactiveLayersLeaveFrame(t *testing.T) {
	h := NewHost(HostConfig{}, nil)
	l, _ := rampLayer(t, timeline.PlayOnce)
	require.NoError(t, h.AddLayer(l))

	h.Tick(3 * time.Second)
	f, err := h.Frames().Receive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, f.Layers)
}

func TestHostDropsOldestFrames(t *testing.T) {
	h := NewHost(HostConfig{FrameBuffer: 2}, nil)
	for i := 0; i < 5; i++ {
		h.Tick(10 * ms)
	}
	stats := h.Frames().Stats()
	assert.Equal(t, 2, stats.Length)
	assert.Equal(t, int64(3), stats.Dropped)

	f, err := h.Frames().Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), f.Tick)
}

func TestHostLayers(t *testing.T) {
	h := NewHost(HostConfig{}, nil)
	l := NewLayer("a", nil)

	assert.ErrorIs(t, h.AddLayer(nil), ErrNilLayer)
	require.NoError(t, h.AddLayer(l))
	assert.ErrorIs(t, h.AddLayer(l), ErrDuplicateLayer)
	assert.Len(t, h.Layers(), 1)

	assert.True(t, h.RemoveLayer(l.ID))
	assert.False(t, h.RemoveLayer(l.ID))
	assert.Empty(t, h.Layers())
}

func TestHostRun(t *testing.T) {
	h := NewHost(HostConfig{FrameBuffer: 1024}, nil)
	l, _ := rampLayer(t, timeline.PlayRepeat)
	require.NoError(t, h.AddLayer(l))

	ctx, cancel := context.WithTimeout(context.Background(), 60*ms)
	defer cancel()
	err := h.Run(ctx, 5*ms)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, h.Frames().Len(), 0)
	assert.Greater(t, l.Timeline.Position(), time.Duration(0))

	assert.Error(t, h.Run(context.Background(), 0))
}

func TestHostClose(t *testing.T) {
	h := NewHost(HostConfig{}, nil)
	h.Tick(10 * ms)
	require.NoError(t, h.Close())

	// closed queues still drain
	_, err := h.Frames().Receive(context.Background())
	require.NoError(t, err)
	_, err = h.Frames().Receive(context.Background())
	assert.ErrorIs(t, err, channel.ErrChannelClosed)

	assert.ErrorIs(t, h.AddLayer(NewLayer("late", nil)), ErrHostClosed)
	assert.ErrorIs(t, h.Run(context.Background(), 5*ms), ErrHostClosed)
}

func TestHostParallelUpdate(t *testing.T) {
	h := NewHost(HostConfig{FrameBuffer: 4, Workers: 4}, nil)
	defer h.Close()

	var ids []uuid.UUID
	for i := 0; i < 6; i++ {
		l, _ := rampLayer(t, timeline.PlayRepeat)
		require.NoError(t, h.AddLayer(l))
		ids = append(ids, l.ID)
	}

	require.True(t, h.Tick(500*ms))
	f, err := h.Frames().Receive(context.Background())
	require.NoError(t, err)
	require.Len(t, f.Layers, 6)
	for i, lf := range f.Layers {
		assert.Equal(t, ids[i], lf.LayerID)
		assert.InDelta(t, 2.5, lf.Values["Brightness"], 1e-9)
	}
}
