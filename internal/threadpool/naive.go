package threadpool

import (
	"sync"

	"go.uber.org/zap"
)

// NaiveThreadPool spawns a new goroutine for every job, with no shared
// worker count to bound concurrency. It mirrors the reference
// implementation's NaiveThreadPool, used as a baseline to compare against
// SharedQueueThreadPool's behavior under load.
type NaiveThreadPool struct {
	log *zap.SugaredLogger
	wg  sync.WaitGroup
}

// NewNaive creates a NaiveThreadPool. It never errors since it owns no
// fixed resources to allocate up front.
func NewNaive(log *zap.SugaredLogger) *NaiveThreadPool {
	return &NaiveThreadPool{log: log}
}

// Spawn starts job in its own goroutine, recovering a panic so it cannot
// crash the process.
func (p *NaiveThreadPool) Spawn(job func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer recoverJob(p.log)
		job()
	}()
}

// Close waits for every goroutine started by Spawn to finish.
func (p *NaiveThreadPool) Close() {
	p.wg.Wait()
}

func recoverJob(log *zap.SugaredLogger) {
	if r := recover(); r != nil {
		log.Errorw("thread pool job panicked", "recovered", r)
	}
}
