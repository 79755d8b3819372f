package threadpool

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// Scenario 6: the same pool keeps running after panicking jobs, and jobs
// submitted afterward to that same pool still all complete.
func TestSharedQueueSurvivesPanickingJobs(t *testing.T) {
	pool := NewSharedQueue(4, zap.NewNop().Sugar())
	defer pool.Close()

	var firstBatch sync.WaitGroup
	var completed atomic.Int32
	firstBatch.Add(100)
	for i := 0; i < 100; i++ {
		i := i
		pool.Spawn(func() {
			defer firstBatch.Done()
			if i%2 == 0 {
				panic("boom")
			}
			completed.Add(1)
		})
	}
	firstBatch.Wait()
	assert.Equal(t, int32(50), completed.Load())

	var secondBatch sync.WaitGroup
	var secondCompleted atomic.Int32
	secondBatch.Add(100)
	for i := 0; i < 100; i++ {
		pool.Spawn(func() {
			defer secondBatch.Done()
			secondCompleted.Add(1)
		})
	}
	secondBatch.Wait()
	assert.Equal(t, int32(100), secondCompleted.Load())
}

func TestNaivePoolRunsEachJobInItsOwnGoroutine(t *testing.T) {
	pool := NewNaive(zap.NewNop().Sugar())
	var completed atomic.Int32
	for i := 0; i < 50; i++ {
		pool.Spawn(func() { completed.Add(1) })
	}
	pool.Close()
	assert.Equal(t, int32(50), completed.Load())
}

func TestNaivePoolSurvivesPanickingJob(t *testing.T) {
	pool := NewNaive(zap.NewNop().Sugar())
	var completed atomic.Int32

	pool.Spawn(func() { panic("boom") })
	pool.Spawn(func() { completed.Add(1) })
	pool.Close()

	assert.Equal(t, int32(1), completed.Load())
}
