// Package threadpool provides the worker-pool abstraction internal/server
// fans connection-handling jobs across. It is grounded on the original
// source's thread_pool module: a ThreadPool trait with two fixed shapes, a
// naive one-goroutine-per-job pool and a shared-queue pool with a bounded
// worker count, translated into Go's goroutine-and-channel idiom.
package threadpool

import "go.uber.org/zap"

// ThreadPool spawns jobs for concurrent execution. Spawning always
// succeeds; if a job panics, the pool keeps running with the same number of
// workers rather than losing one.
type ThreadPool interface {
	// Spawn submits job for execution. It does not block on the job
	// finishing.
	Spawn(job func())

	// Close stops accepting new jobs and waits for in-flight jobs to
	// finish.
	Close()
}

// New picks SharedQueue for n > 0 and Naive otherwise, matching the
// reference CLI's behavior of treating a non-positive thread count as "no
// pooling, just spawn".
func New(n int, log *zap.SugaredLogger) ThreadPool {
	if n <= 0 {
		return NewNaive(log)
	}
	return NewSharedQueue(n, log)
}
