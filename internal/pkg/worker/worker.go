package worker

import (
	"fmt"
	"sync"

	"loan-approval-metrics/internal/pkg/logger"
)

// Task represents a unit of work to be processed by a worker
type Task func()

// Worker is a goroutine that processes tasks from the pool queue
type Worker struct {
	id        int
	taskQueue <-chan Task
	stop      <-chan struct{}
}

// NewWorker creates a Worker reading from the shared queue until stop is closed
func NewWorker(id int, taskQueue <-chan Task, stop <-chan struct{}) *Worker {
	return &Worker{
		id:        id,
		taskQueue: taskQueue,
		stop:      stop,
	}
}

// Start starts the worker to process tasks. Once stop is closed the worker
// drains whatever is still queued and then marks wg done.
func (w *Worker) Start(wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()
		for {
			select {
			case task := <-w.taskQueue:
				w.run(task)
			case <-w.stop:
				w.drain()
				return
			}
		}
	}()
}

func (w *Worker) drain() {
	for {
		select {
		case task := <-w.taskQueue:
			w.run(task)
		default:
			return
		}
	}
}

func (w *Worker) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Worker task panicked", fmt.Errorf("worker %d: %v", w.id, r))
		}
	}()
	task()
}
