package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsBatch(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		tasks   int
	}{
		{"single worker", 1, 10},
		{"more tasks than queue", 3, 500},
		{"empty batch", 2, 0},
		{"cpu default", 0, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.workers, 4)
			p.Start()
			defer p.Stop()

			var n atomic.Int64
			tasks := make([]Task, tt.tasks)
			for i := range tasks {
				tasks[i] = func() { n.Add(1) }
			}
			require.NoError(t, p.Run(tasks))
			assert.Equal(t, int64(tt.tasks), n.Load())
			assert.Equal(t, 0, p.Stats().Queued)
		})
	}
}

func TestPoolReuse(t *testing.T) {
	p := New(2, 0)
	p.Start()
	defer p.Stop()

	var n atomic.Int64
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Run([]Task{func() { n.Add(1) }, func() { n.Add(2) }}))
	}
	assert.Equal(t, int64(15), n.Load())
}

func TestPoolStop(t *testing.T) {
	p := New(2, 0)
	p.Start()
	p.Stop()
	p.Stop()

	assert.ErrorIs(t, p.Run([]Task{func() {}}), ErrStopped)
	assert.Equal(t, 2, p.Stats().Workers)
	assert.Len(t, p.Stats().QueueLengths, 2)
}

func TestPoolStopDuringRun(t *testing.T) {
	for i := 0; i < 200; i++ {
		p := New(2, 1)
		p.Start()

		tasks := make([]Task, 16)
		for j := range tasks {
			tasks[j] = func() {}
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			err := p.Run(tasks)
			if err != nil {
				assert.ErrorIs(t, err, ErrStopped)
			}
		}()
		go func() {
			defer wg.Done()
			p.Stop()
		}()

		finished := make(chan struct{})
		go func() {
			wg.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatalf("run did not return after stop (iteration %d)", i)
		}
	}
}
