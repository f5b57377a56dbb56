// Package scheduler runs batches of independent tasks on a fixed set of
// workers. Each worker owns a queue; tasks are dealt round-robin and idle
// workers steal from their neighbours.
package scheduler

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

var ErrStopped = errors.New("scheduler stopped")

// Task is one unit of work in a batch
type Task func()

// Pool is a work stealing worker pool.
// PRINCIPLES:
// - Batches: Run returns once every task of the batch has finished
// - Load balancing: an idle worker takes queued tasks from the others
// - Owned lifecycle: Start once, Stop once
type Pool struct {
	// mu orders enqueues before Stop: Run holds it shared while queueing
	mu      sync.RWMutex
	queues  []chan job
	workers int
	counter atomic.Uint64
	stopped atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type job struct {
	task Task
	done *sync.WaitGroup
}

// New creates a pool with the given number of workers. Zero or less means one
// per CPU.
func New(workers, queueCapacity int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueCapacity <= 0 {
		queueCapacity = 64
	}
	queues := make([]chan job, workers)
	for i := range queues {
		queues[i] = make(chan job, queueCapacity)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queues:  queues,
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *Pool) Workers() int { return p.workers }

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Run schedules tasks and waits for all of them
func (p *Pool) Run(tasks []Task) error {
	var done sync.WaitGroup
	if err := p.enqueue(tasks, &done); err != nil {
		return err
	}
	done.Wait()
	if p.stopped.Load() {
		return ErrStopped
	}
	return nil
}

func (p *Pool) enqueue(tasks []Task, done *sync.WaitGroup) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped.Load() {
		return ErrStopped
	}
	done.Add(len(tasks))
	for _, t := range tasks {
		p.queues[p.counter.Add(1)%uint64(p.workers)] <- job{task: t, done: done}
	}
	return nil
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.queues[id]:
			p.execute(j)
			continue
		default:
		}
		if p.steal(id) {
			continue
		}
		select {
		case <-p.ctx.Done():
			return
		case j := <-p.queues[id]:
			p.execute(j)
		}
	}
}

func (p *Pool) steal(id int) bool {
	for i := 1; i < p.workers; i++ {
		select {
		case j := <-p.queues[(id+i)%p.workers]:
			p.execute(j)
			return true
		default:
		}
	}
	return false
}

// drain releases batch waiters for tasks that will never run
func (p *Pool) drain() {
	for _, q := range p.queues {
		for len(q) > 0 {
			select {
			case j := <-q:
				j.done.Done()
			default:
			}
		}
	}
}

func (p *Pool) execute(j job) {
	defer j.done.Done()
	j.task()
}

// Stop signals the workers and waits for them to exit
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped.Load() {
		p.mu.Unlock()
		return
	}
	p.stopped.Store(true)
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	p.drain()
}

// Stats is a snapshot of queue depths
type Stats struct {
	Workers      int
	QueueLengths []int
	Queued       int
}

func (p *Pool) Stats() Stats {
	s := Stats{Workers: p.workers, QueueLengths: make([]int, len(p.queues))}
	for i, q := range p.queues {
		s.QueueLengths[i] = len(q)
		s.Queued += len(q)
	}
	return s
}
