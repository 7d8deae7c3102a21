/*
=================================================================================
WORKER POOL - BOUNDED-CONCURRENCY PHASE EXECUTION
=================================================================================

WorkerPool runs a bounded number of work items concurrently and blocks
until all of them finish — the "pool.join()" of §4.6.4's worker-pool
scheduler variant, realized with golang.org/x/sync/errgroup rather than a
hand-rolled condition-variable task queue, since the teacher corpus (and
errgroup.Group's own semantics) already gives exactly the "wait for every
currently-enqueued unit of work, bounded in-flight" shape §9's thread-pool
note asks for.

Grounded on other_examples' qubicDB brain_worker.go (one worker goroutine
per shard, tracked by sync.WaitGroup), generalized from one worker per
shard to a semaphore-bounded pool shared across phases: a single WorkerPool
value is constructed once per backend and reused for every population
phase and every projection phase, never recreated per call.
=================================================================================
*/

package backend

import (
	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds how many of the N items passed to Run execute
// concurrently. A pool with WorkerCount <= 1 runs items serially, which is
// what a neurons_per_thread/spikes_per_thread configuration effectively
// degenerates to when every population/projection fits in one chunk.
type WorkerPool struct {
	workers int
}

// NewWorkerPool returns a pool bounding concurrency to workers (at least
// 1).
func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{workers: workers}
}

// Run executes work(i) for every i in [0, n), at most p.workers at a time,
// and blocks until every invocation has returned (the phase barrier of
// §4.6.4 and §9's join() contract). work must not panic: each item runs on
// its own errgroup goroutine, errgroup does not recover panics, so a panic
// inside a worker cannot be recovered by Run's caller and ends the program.
func (p *WorkerPool) Run(n int, work func(i int)) {
	if n == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			work(i)
			return nil
		})
	}
	_ = g.Wait()
}
