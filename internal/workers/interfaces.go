// Package workers runs the background workers of the server next to its
// transports and stops them together on shutdown.
package workers

import "context"

// Worker is a long-running background task.
//
// Run must block until ctx is cancelled and return promptly afterwards.
//
// Example implementation:
//
//	type MyWorker struct{ jobs chan Job }
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    for {
//	        select {
//	        case <-ctx.Done():
//	            return
//	        case job := <-w.jobs:
//	            handle(job)
//	        }
//	    }
//	}
type Worker interface {
	Run(ctx context.Context)
}
