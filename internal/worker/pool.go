// Package worker provides the bounded worker pool that drives concurrent
// enrichment. Tasks are handed off directly to idle workers, so at most
// `workers` tasks are in flight and the hand-off itself is the dispatch
// moment: once a task is accepted it runs to completion.
package worker

import (
	"context"
	"sync"
)

// Task is one unit of work.
type Task func()

// Pool runs tasks on a fixed number of goroutines in submission order.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given number of workers (minimum one).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		// Unbuffered: Submit blocks until a worker accepts, which keeps the
		// in-flight count exactly bounded and makes submission FIFO.
		tasks: make(chan Task),
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
}

// Submit hands the task to an idle worker. It blocks until a worker accepts
// or ctx is done, and reports whether the task was dispatched.
func (p *Pool) Submit(ctx context.Context, t Task) bool {
	select {
	case <-ctx.Done():
		return false
	case p.tasks <- t:
		return true
	}
}

// Wait stops accepting tasks and blocks until all dispatched tasks finish.
func (p *Pool) Wait() {
	close(p.tasks)
	p.wg.Wait()
}
