package threadpool

import (
	"sync"

	"go.uber.org/zap"
)

// SharedQueueThreadPool runs jobs across a fixed number of worker
// goroutines pulling from one shared, buffered channel — the Go analogue
// of the reference implementation's mpsc channel behind an Arc<Mutex<..>>,
// except Go's channel is natively safe for concurrent receivers so no
// extra mutex is needed.
type SharedQueueThreadPool struct {
	log     *zap.SugaredLogger
	jobs    chan func()
	wg      sync.WaitGroup
	closeWg sync.Once
}

// NewSharedQueue starts n worker goroutines reading from a shared job
// queue. n must be positive; callers wanting a dynamic goroutine-per-job
// pool should use NewNaive instead.
func NewSharedQueue(n int, log *zap.SugaredLogger) *SharedQueueThreadPool {
	p := &SharedQueueThreadPool{
		log:  log,
		jobs: make(chan func(), n*2),
	}
	p.wg.Add(n)
	for id := 0; id < n; id++ {
		go p.worker(id)
	}
	return p
}

func (p *SharedQueueThreadPool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.runJob(id, job)
	}
}

// runJob executes job with a recover guard, the Go equivalent of the
// reference's panic::catch_unwind: a panicking job logs and the worker
// keeps pulling from the queue instead of dying.
func (p *SharedQueueThreadPool) runJob(id int, job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("worker job panicked", "worker", id, "recovered", r)
		}
	}()
	job()
}

// Spawn enqueues job for a worker to pick up. It blocks if the queue is
// full, providing natural backpressure.
func (p *SharedQueueThreadPool) Spawn(job func()) {
	p.jobs <- job
}

// Close closes the job queue and waits for every worker to drain it and
// exit, the Go equivalent of sending one Terminate sentinel per worker and
// joining each thread.
func (p *SharedQueueThreadPool) Close() {
	p.closeWg.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}
