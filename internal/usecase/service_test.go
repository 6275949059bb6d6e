package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskflow/internal/domain"
	"github.com/rezkam/taskflow/internal/usecase"
)

func clockAt(t time.Time) usecase.Clock {
	return func() time.Time { return t }
}

// TestScheduleAndFetch covers spec scenario S1.
func TestScheduleAndFetch(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := usecase.NewService(newFakeStore(), clockAt(now))
	ctx := context.Background()

	job, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{
		Name:    "send-email",
		Payload: map[string]any{"to": "a@b"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, job.State)
	assert.Equal(t, int16(0), job.Priority)
	assert.Equal(t, "default", job.Queue)
	assert.Equal(t, 0, job.Attempts)

	fetched, err := svc.GetJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job, fetched)
}

// TestSingleWorkerHappyPath covers spec scenario S2.
func TestSingleWorkerHappyPath(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := usecase.NewService(store, clockAt(now))
	ctx := context.Background()

	job, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{Name: "noop"})
	require.NoError(t, err)

	acquired, found, err := svc.AcquireNextJob(ctx, "default", "w1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.StateRunning, acquired.State)
	assert.Equal(t, 1, acquired.Attempts)
	require.NotNil(t, acquired.LockedBy)
	assert.Equal(t, "w1", *acquired.LockedBy)

	completed, err := svc.CompleteJob(ctx, job.ID, now, now, "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateSucceeded, completed.State)
	assert.Nil(t, completed.LockedBy)

	list := listAttempts(t, store, job.ID)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].AttemptNumber)
	assert.True(t, list[0].Success)
}

func listAttempts(t *testing.T, store *fakeStore, jobID uuid.UUID) []domain.JobAttempt {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	var out []domain.JobAttempt
	for _, a := range store.attempts {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out
}

// TestRetryThenSucceed covers spec scenario S3.
func TestRetryThenSucceed(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	clock := now
	svc := usecase.NewService(store, func() time.Time { return clock })
	ctx := context.Background()

	job, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{
		Name:        "flaky",
		MaxAttempts: 3,
		RetryPolicy: &domain.RetryPolicy{Strategy: domain.StrategyExponential, BaseDelaySeconds: 10},
	})
	require.NoError(t, err)

	acquired, found, err := svc.AcquireNextJob(ctx, "default", "w1")
	require.NoError(t, err)
	require.True(t, found)
	failed, err := svc.FailJob(ctx, acquired.ID, clock, clock, "w1", "boom", "boom")
	require.NoError(t, err)
	assert.Equal(t, domain.StateScheduled, failed.State)
	assert.Equal(t, 1, failed.Attempts)
	require.NotNil(t, failed.NextRunAt)
	assert.Equal(t, clock.Add(10*time.Second), *failed.NextRunAt)

	clock = clock.Add(10 * time.Second)
	acquired2, found, err := svc.AcquireNextJob(ctx, "default", "w1")
	require.NoError(t, err)
	require.True(t, found)
	failed2, err := svc.FailJob(ctx, acquired2.ID, clock, clock, "w1", "boom", "boom")
	require.NoError(t, err)
	assert.Equal(t, 2, failed2.Attempts)
	require.NotNil(t, failed2.NextRunAt)
	assert.Equal(t, clock.Add(20*time.Second), *failed2.NextRunAt)

	clock = clock.Add(20 * time.Second)
	acquired3, found, err := svc.AcquireNextJob(ctx, "default", "w1")
	require.NoError(t, err)
	require.True(t, found)
	done, err := svc.CompleteJob(ctx, acquired3.ID, clock, clock, "w1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateSucceeded, done.State)
	assert.Equal(t, 3, done.Attempts)

	list := listAttempts(t, store, job.ID)
	require.Len(t, list, 3)
	assert.False(t, list[0].Success)
	assert.False(t, list[1].Success)
	assert.True(t, list[2].Success)
}

// TestExhaustionGoesDead covers spec scenario S4.
func TestExhaustionGoesDead(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	clock := now
	svc := usecase.NewService(store, func() time.Time { return clock })
	ctx := context.Background()

	job, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{
		Name:        "always-fails",
		MaxAttempts: 3,
		RetryPolicy: &domain.RetryPolicy{Strategy: domain.StrategyFixed, BaseDelaySeconds: 5},
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		acquired, found, err := svc.AcquireNextJob(ctx, "default", "w1")
		require.NoError(t, err)
		require.True(t, found)
		_, err = svc.FailJob(ctx, acquired.ID, clock, clock, "w1", "boom", "boom")
		require.NoError(t, err)
		clock = clock.Add(5 * time.Second)
	}

	dead, err := svc.GetJobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateDead, dead.State)
	assert.Nil(t, dead.NextRunAt)
	assert.True(t, dead.State.Terminal())

	_, found, err := svc.AcquireNextJob(ctx, "default", "w2")
	require.NoError(t, err)
	assert.False(t, found)
}

// TestPriorityOrdering covers spec scenario S5.
func TestPriorityOrdering(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := usecase.NewService(store, clockAt(base))
	ctx := context.Background()

	low, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{Name: "low", Priority: 0})
	require.NoError(t, err)
	first, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{Name: "first-high", Priority: 5})
	require.NoError(t, err)
	second, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{Name: "second-high", Priority: 5})
	require.NoError(t, err)

	// force a strictly increasing created_at for the two priority-5 jobs
	store.jobs[second.ID] = withCreatedAt(store.jobs[second.ID], store.jobs[first.ID].CreatedAt.Add(time.Second))

	got1, _, err := svc.AcquireNextJob(ctx, "default", "w1")
	require.NoError(t, err)
	got2, _, err := svc.AcquireNextJob(ctx, "default", "w1")
	require.NoError(t, err)
	got3, _, err := svc.AcquireNextJob(ctx, "default", "w1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, got1.ID)
	assert.Equal(t, second.ID, got2.ID)
	assert.Equal(t, low.ID, got3.ID)
}

func withCreatedAt(job domain.Job, t time.Time) domain.Job {
	job.CreatedAt = t
	return job
}

// TestNoDuplicateClaim covers spec scenario S6 at the usecase layer: two
// concurrent AcquireNextJob calls against one runnable job must never
// both succeed. The fake store serializes Atomic with a mutex, which is
// exactly the guarantee a real SKIP LOCKED transaction gives for free.
func TestNoDuplicateClaim(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newFakeStore()
	svc := usecase.NewService(store, clockAt(now))
	ctx := context.Background()

	_, err := svc.ScheduleJob(ctx, usecase.ScheduleJobCommand{Name: "only-one"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := range 2 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, found, err := svc.AcquireNextJob(ctx, "default", "w")
			require.NoError(t, err)
			results[i] = found
		}(i)
	}
	wg.Wait()

	claimedCount := 0
	for _, found := range results {
		if found {
			claimedCount++
		}
	}
	assert.Equal(t, 1, claimedCount)
}
