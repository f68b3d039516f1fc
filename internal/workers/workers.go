package workers

import (
	"context"
	"sync"
)

// Workers runs a fixed set of workers, each in its own goroutine.
type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// NewWorkers groups workers. Nil entries are skipped.
func NewWorkers(workers ...Worker) *Workers {
	w := &Workers{workers: make([]Worker, 0, len(workers))}
	for _, worker := range workers {
		if worker != nil {
			w.workers = append(w.workers, worker)
		}
	}
	return w
}

// Run starts every worker and returns immediately. Workers stop when ctx
// is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			worker.Run(ctx)
		}()
	}
}

// Wait blocks until every started worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}

// Len returns the number of workers in the group.
func (w *Workers) Len() int {
	return len(w.workers)
}
