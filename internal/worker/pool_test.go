package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testJob struct {
	executed *int32
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	return nil
}

func TestPool(t *testing.T) {
	var executed int32
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()

	job := &testJob{executed: &executed}
	for i := 0; i < TestJobCount; i++ {
		assert.True(t, pool.Enqueue(job))
	}

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == TestJobCount
	}, TestWaitDuration, 5*time.Millisecond)

	pool.Stop()
}

func TestPool_StopDrainsQueue(t *testing.T) {
	var executed int32
	pool := NewPool(1, TestQueueSize)

	job := &testJob{executed: &executed}
	for i := 0; i < TestJobCount; i++ {
		assert.True(t, pool.Enqueue(job))
	}

	// Workers start after the queue is filled, then stop drains it
	pool.Start()
	pool.Stop()

	assert.Equal(t, int32(TestJobCount), atomic.LoadInt32(&executed))
}

func TestPool_EnqueueNeverBlocks(t *testing.T) {
	pool := NewPool(1, 1)
	var executed int32

	assert.True(t, pool.Enqueue(&testJob{executed: &executed}))
	assert.False(t, pool.Enqueue(&testJob{executed: &executed}), "full queue drops the job")

	pool.Start()
	pool.Stop()
	assert.False(t, pool.Enqueue(&testJob{executed: &executed}), "stopped pool rejects jobs")
	pool.Stop()
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	var executed int32
	pool := NewPool(1, TestQueueSize)
	pool.Start()

	pool.Enqueue(JobFunc(func(ctx context.Context) error { return errors.New("boom") }))
	pool.Enqueue(JobFunc(func(ctx context.Context) error { panic("kaboom") }))
	pool.Enqueue(&testJob{executed: &executed})

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&executed) == 1
	}, TestWaitDuration, 5*time.Millisecond)
	pool.Stop()
}

func TestPool_JobsGetDeadline(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()
	defer pool.Stop()

	got := make(chan bool, 1)
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		got <- ok
		return nil
	}))

	select {
	case ok := <-got:
		assert.True(t, ok)
	case <-time.After(TestWaitDuration):
		t.Fatal("job never ran")
	}
}
