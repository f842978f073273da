package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p := NewPool(3)
	p.Start()

	var n atomic.Int64
	for i := 0; i < 20; i++ {
		if !p.Submit(context.Background(), func() { n.Add(1) }) {
			t.Fatal("submit rejected without cancellation")
		}
	}
	p.Wait()

	if got := n.Load(); got != 20 {
		t.Errorf("ran %d tasks, want 20", got)
	}
}

func TestPool_BoundedInFlight(t *testing.T) {
	const workers = 4
	p := NewPool(workers)
	p.Start()

	var (
		inFlight atomic.Int64
		peak     atomic.Int64
	)
	for i := 0; i < 32; i++ {
		p.Submit(context.Background(), func() {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
		})
	}
	p.Wait()

	if got := peak.Load(); got > workers {
		t.Errorf("observed %d tasks in flight, bound is %d", got, workers)
	}
}

func TestPool_SubmitHonorsCancellation(t *testing.T) {
	p := NewPool(1)
	p.Start()

	// Occupy the single worker so the next submit would block.
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(1)
	p.Submit(context.Background(), func() {
		started.Done()
		<-release
	})
	started.Wait()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if p.Submit(ctx, func() { t.Error("task ran after cancelled submit") }) {
		t.Error("submit accepted after cancellation")
	}

	close(release)
	p.Wait()
}

func TestPool_MinimumOneWorker(t *testing.T) {
	p := NewPool(0)
	p.Start()

	done := false
	p.Submit(context.Background(), func() { done = true })
	p.Wait()

	if !done {
		t.Error("task did not run")
	}
}
