// Package channel provides the bounded queue that carries computed frames
// from the host tick to whoever renders them.
package channel

import (
	"context"
	"sync"
	"time"
)

// Buffered is a bounded FIFO queue with blocking and non-blocking sends
// PRINCIPLES:
// - KISS: slice plus a broadcast channel for waiters
// - SRP: queueing only; what flows through is the caller's business
// - Thread-safe: every field is guarded by mu
type Buffered[T any] struct {
	buffer  []T
	maxSize int
	closed  bool
	dropped int64
	mu      sync.RWMutex
	notify  chan struct{}
	timeout time.Duration
}

// Config holds configuration for Buffered
type Config struct {
	MaxSize int           // Maximum buffer size
	Timeout time.Duration // Default timeout for blocking operations
}

func NewBuffered[T any](config Config) *Buffered[T] {
	if config.MaxSize <= 0 {
		config.MaxSize = 64
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Buffered[T]{
		buffer:  make([]T, 0, config.MaxSize),
		maxSize: config.MaxSize,
		timeout: config.Timeout,
		notify:  make(chan struct{}),
	}
}

// Send waits for space until ctx is done or the timeout elapses
func (c *Buffered[T]) Send(ctx context.Context, v T) error {
	deadline := time.Now().Add(c.timeout)
	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrChannelClosed
		}
		if len(c.buffer) < c.maxSize {
			c.buffer = append(c.buffer, v)
			c.signal()
			c.mu.Unlock()
			return nil
		}
		ch := c.notify
		c.mu.Unlock()

		if err := c.wait(ctx, ch, deadline); err != nil {
			return err
		}
	}
}

// TrySend never blocks; a full queue returns ErrChannelFull
func (c *Buffered[T]) TrySend(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	if len(c.buffer) >= c.maxSize {
		return ErrChannelFull
	}
	c.buffer = append(c.buffer, v)
	c.signal()
	return nil
}

// Offer never blocks; a full queue drops its oldest value to make room.
// It reports whether a value was dropped.
func (c *Buffered[T]) Offer(v T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrChannelClosed
	}
	dropped := false
	if len(c.buffer) >= c.maxSize {
		var zero T
		c.buffer[0] = zero
		c.buffer = c.buffer[1:]
		c.dropped++
		dropped = true
	}
	c.buffer = append(c.buffer, v)
	c.signal()
	return dropped, nil
}

// Receive pops the oldest value, waiting until ctx is done or the timeout elapses.
// Values queued before Close are still delivered.
func (c *Buffered[T]) Receive(ctx context.Context) (T, error) {
	var zero T
	deadline := time.Now().Add(c.timeout)
	for {
		c.mu.Lock()
		if len(c.buffer) > 0 {
			v := c.buffer[0]
			c.buffer[0] = zero
			c.buffer = c.buffer[1:]
			c.signal()
			c.mu.Unlock()
			return v, nil
		}
		if c.closed {
			c.mu.Unlock()
			return zero, ErrChannelClosed
		}
		ch := c.notify
		c.mu.Unlock()

		if err := c.wait(ctx, ch, deadline); err != nil {
			return zero, err
		}
	}
}

func (c *Buffered[T]) wait(ctx context.Context, ch <-chan struct{}, deadline time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return ErrTimeout
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTimeout
	}
}

func (c *Buffered[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.signal()
	return nil
}

func (c *Buffered[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffer)
}

func (c *Buffered[T]) Cap() int {
	return c.maxSize
}

// Stats returns channel statistics
func (c *Buffered[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Length:   len(c.buffer),
		Capacity: c.maxSize,
		Dropped:  c.dropped,
		Closed:   c.closed,
	}
}

// signal wakes all current waiters. Must be called with c.mu held.
func (c *Buffered[T]) signal() {
	old := c.notify
	c.notify = make(chan struct{})
	close(old)
}

// Stats provides channel statistics
type Stats struct {
	Length   int   `json:"length"`
	Capacity int   `json:"capacity"`
	Dropped  int64 `json:"dropped"`
	Closed   bool  `json:"closed"`
}
