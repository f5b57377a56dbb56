package channel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedBasics(t *testing.T) {
	ctx := context.Background()
	ch := NewBuffered[int](Config{MaxSize: 2, Timeout: 50 * time.Millisecond})
	defer ch.Close()

	require.NoError(t, ch.Send(ctx, 1))
	require.NoError(t, ch.TrySend(2))
	assert.ErrorIs(t, ch.TrySend(3), ErrChannelFull)
	assert.ErrorIs(t, ch.Send(ctx, 3), ErrTimeout)
	assert.Equal(t, 2, ch.Len())
	assert.Equal(t, 2, ch.Cap())

	v, err := ch.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	v, err = ch.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = ch.Receive(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestBufferedOfferDropsOldest(t *testing.T) {
	ctx := context.Background()
	ch := NewBuffered[string](Config{MaxSize: 2})
	defer ch.Close()

	for _, s := range []string{"a", "b", "c"} {
		_, err := ch.Offer(s)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), ch.Stats().Dropped)

	first, err := ch.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", first)
}

func TestBufferedClose(t *testing.T) {
	ctx := context.Background()
	ch := NewBuffered[int](Config{MaxSize: 4})
	require.NoError(t, ch.Send(ctx, 7))
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Close())

	assert.ErrorIs(t, ch.Send(ctx, 8), ErrChannelClosed)
	assert.ErrorIs(t, ch.TrySend(8), ErrChannelClosed)
	_, err := ch.Offer(8)
	assert.ErrorIs(t, err, ErrChannelClosed)

	// queued values drain before the close is reported
	v, err := ch.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	_, err = ch.Receive(ctx)
	assert.ErrorIs(t, err, ErrChannelClosed)
	assert.True(t, ch.Stats().Closed)
}

func TestBufferedCancel(t *testing.T) {
	ch := NewBuffered[int](Config{MaxSize: 1, Timeout: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := ch.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBufferedConcurrency(t *testing.T) {
	ctx := context.Background()
	ch := NewBuffered[int](Config{MaxSize: 8, Timeout: time.Second})
	defer ch.Close()

	const producers, perProducer = 4, 100
	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				assert.NoError(t, ch.Send(ctx, p*perProducer+i))
			}
		}(p)
	}

	seen := make(map[int]bool)
	for i := 0; i < producers*perProducer; i++ {
		v, err := ch.Receive(ctx)
		require.NoError(t, err)
		seen[v] = true
	}
	wg.Wait()
	assert.Len(t, seen, producers*perProducer)
}

func BenchmarkBuffered_SendReceive(b *testing.B) {
	ch := NewBuffered[int](Config{MaxSize: 1024, Timeout: time.Second})
	defer ch.Close()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ch.Send(ctx, i)
		_, _ = ch.Receive(ctx)
	}
}
