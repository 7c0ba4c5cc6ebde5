package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := make([]string, 0)
	done := make(chan struct{}, 3)

	q := NewQueue("test", func(_ context.Context, job Job) error {
		mu.Lock()
		seen = append(seen, job.ID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("job not processed")
		}
	}

	mu.Lock()
	assert.ElementsMatch(t, []string{"a", "b", "c"}, seen)
	mu.Unlock()
	assert.Eventually(t, func() bool { return q.Stats().Processed == 3 }, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var attempts atomic.Int32
	gaveUp := make(chan Job, 1)

	q := NewQueue("retry", func(context.Context, Job) error {
		attempts.Add(1)
		return errors.New("boom")
	}, QueueConfig{
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
		OnGiveUp:   func(j Job, _ error) { gaveUp <- j },
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "x"}))

	select {
	case j := <-gaveUp:
		assert.Equal(t, 3, j.Attempt)
	case <-time.After(time.Second):
		t.Fatal("job was not abandoned")
	}
	assert.Equal(t, int32(3), attempts.Load())
	stats := q.Stats()
	assert.Equal(t, uint64(2), stats.Retried)
	assert.Equal(t, uint64(1), stats.Abandoned)
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "a"}))
	assert.Error(t, q.TryEnqueue(Job{ID: "a"}))
	q.Stop()
}

func TestQueueTryEnqueueFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue("full", func(ctx context.Context, _ Job) error {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(release)

	require.NoError(t, q.TryEnqueue(Job{ID: "running"}))
	<-started
	require.NoError(t, q.TryEnqueue(Job{ID: "buffered"}))
	assert.ErrorIs(t, q.TryEnqueue(Job{ID: "overflow"}), ErrQueueFull)
	assert.Equal(t, 1, q.Stats().Pending)
}

func TestQueueStopDrainsBufferedJobs(t *testing.T) {
	var processed atomic.Int32
	var cancelledSeen atomic.Int32
	q := NewQueue("drain", func(ctx context.Context, _ Job) error {
		if ctx.Err() != nil {
			cancelledSeen.Add(1)
		}
		time.Sleep(time.Millisecond)
		processed.Add(1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 32})
	q.Start(context.Background())

	for i := 0; i < 20; i++ {
		require.NoError(t, q.TryEnqueue(Job{ID: "job"}))
	}
	q.Stop()

	assert.Equal(t, int32(20), processed.Load())
	assert.Zero(t, cancelledSeen.Load())
	stats := q.Stats()
	assert.Equal(t, uint64(20), stats.Processed)
	assert.Zero(t, stats.Pending)
	assert.Zero(t, stats.Abandoned)

	assert.ErrorIs(t, q.Enqueue(Job{ID: "late"}), ErrStopped)
	assert.ErrorIs(t, q.TryEnqueue(Job{ID: "late"}), ErrStopped)
	q.Stop()
}

func TestQueueStopReportsJobsPastDrainDeadline(t *testing.T) {
	var mu sync.Mutex
	var lost []string
	q := NewQueue("deadline", func(ctx context.Context, _ Job) error {
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{
		Workers:      1,
		BufferSize:   8,
		DrainTimeout: 20 * time.Millisecond,
		OnGiveUp: func(j Job, _ error) {
			mu.Lock()
			lost = append(lost, j.ID)
			mu.Unlock()
		},
	})
	q.Start(context.Background())

	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		require.NoError(t, q.Enqueue(Job{ID: id}))
	}
	q.Stop()

	mu.Lock()
	assert.ElementsMatch(t, ids, lost)
	mu.Unlock()
	stats := q.Stats()
	assert.Equal(t, uint64(5), stats.Abandoned)
	assert.Zero(t, stats.Processed)
	assert.Zero(t, stats.Pending)
}

func TestQueueStopReportsPendingRetry(t *testing.T) {
	gaveUp := make(chan error, 1)
	q := NewQueue("pending-retry", func(context.Context, Job) error {
		return errors.New("boom")
	}, QueueConfig{
		MaxRetries: 3,
		RetryDelay: time.Hour,
		OnGiveUp:   func(_ Job, err error) { gaveUp <- err },
	})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "r"}))
	require.Eventually(t, func() bool { return q.Stats().Retried == 1 }, time.Second, 5*time.Millisecond)
	q.Stop()

	select {
	case err := <-gaveUp:
		assert.ErrorIs(t, err, ErrStopped)
	default:
		t.Fatal("pending retry was not reported")
	}
	assert.Equal(t, uint64(1), q.Stats().Abandoned)
}
