package worker

import (
	"context"
	"errors"
	"sync"

	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"

	"go.uber.org/zap"
)

var ErrPoolStopped = errors.New("worker pool stopped")

// WorkerPool manages a pool of workers sharing one task queue
type WorkerPool struct {
	workers []*Worker
	tasks   chan Task
	stop    chan struct{}

	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWorkerPool creates a new WorkerPool with the specified number of workers
// and a task queue buffered to queueSize.
func NewWorkerPool(numWorkers, queueSize int) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	pool := &WorkerPool{
		workers: make([]*Worker, numWorkers),
		tasks:   make(chan Task, queueSize),
		stop:    make(chan struct{}),
	}

	pool.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		worker := NewWorker(i, pool.tasks, pool.stop)
		worker.Start(&pool.wg)
		pool.workers[i] = worker
	}

	return pool
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return len(p.workers)
}

// Submit queues task for the next free worker. It blocks while the queue is
// full and returns ctx.Err() if ctx ends first, or ErrPoolStopped after Stop.
func (p *WorkerPool) Submit(ctx context.Context, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops accepting tasks, lets the workers finish everything already
// queued and waits for them to exit. Safe to call more than once.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.stop)
		p.mu.Unlock()

		p.wg.Wait()
		logger.Info(log_messages.WorkerPoolStopped, zap.Int("workers", len(p.workers)))
	})
}
