package postgres_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskflow/internal/domain"
	"github.com/rezkam/taskflow/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/taskflow/internal/repository"
)

// setupStore opens (and migrates) a Store against TASKFLOW_TEST_DATABASE_URL,
// skipping the test when the variable is unset.
func setupStore(t *testing.T) (*postgres.Store, context.Context) {
	t.Helper()

	dsn := os.Getenv("TASKFLOW_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TASKFLOW_TEST_DATABASE_URL not set, skipping Postgres integration test")
	}

	ctx := context.Background()
	store, err := postgres.NewPostgresStore(ctx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		db, err := sql.Open("pgx", dsn)
		if err == nil {
			_, _ = db.Exec("TRUNCATE TABLE job_attempts, jobs CASCADE")
			_ = db.Close()
		}
		_ = store.Close()
	})

	return store, ctx
}

func mustScheduleJob(t *testing.T, ctx context.Context, jobs repository.JobRepository, now time.Time, queue string, priority int16) domain.Job {
	t.Helper()
	job, err := domain.New(domain.NewJobParams{
		Name:     "send-email",
		Queue:    queue,
		Priority: priority,
		Payload:  map[string]any{"to": "a@example.com"},
	}, now)
	require.NoError(t, err)

	inserted, err := jobs.Insert(ctx, job)
	require.NoError(t, err)
	return inserted
}

func TestJobRepository_InsertAndGetByID(t *testing.T) {
	store, ctx := setupStore(t)
	now := time.Now().UTC()

	var fetched domain.Job
	err := store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		inserted := mustScheduleJob(t, ctx, jobs, now, "default", 0)

		got, err := jobs.GetByID(ctx, inserted.ID)
		if err != nil {
			return err
		}
		fetched = got
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, fetched.State)
	assert.Equal(t, "send-email", fetched.Name)
	assert.Equal(t, "a@example.com", fetched.Payload["to"])
}

func TestJobRepository_GetByIDNotFound(t *testing.T) {
	store, ctx := setupStore(t)

	err := store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		_, err := jobs.GetByID(ctx, (domain.Job{}).ID)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobRepository_AcquireNextDueJobOrdersByPriorityThenCreation(t *testing.T) {
	store, ctx := setupStore(t)
	now := time.Now().UTC()

	err := store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		mustScheduleJob(t, ctx, jobs, now, "default", 0)
		mustScheduleJob(t, ctx, jobs, now.Add(time.Millisecond), "default", 10)
		return nil
	})
	require.NoError(t, err)

	err = store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		claimed, found, err := jobs.AcquireNextDueJob(ctx, "default", now.Add(time.Second), "worker-1")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int16(10), claimed.Priority)
		assert.Equal(t, domain.StateRunning, claimed.State)
		assert.Equal(t, 1, claimed.Attempts)
		return nil
	})
	require.NoError(t, err)
}

func TestJobRepository_AcquireNextDueJobIsExclusiveAcrossConcurrentCallers(t *testing.T) {
	store, ctx := setupStore(t)
	now := time.Now().UTC()

	err := store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		mustScheduleJob(t, ctx, jobs, now, "default", 0)
		return nil
	})
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claims  int
		workers = []string{"worker-1", "worker-2", "worker-3"}
	)
	for _, workerID := range workers {
		wg.Add(1)
		go func(workerID string) {
			defer wg.Done()
			_ = store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
				_, found, err := jobs.AcquireNextDueJob(ctx, "default", now.Add(time.Second), workerID)
				if err != nil {
					return err
				}
				if found {
					mu.Lock()
					claims++
					mu.Unlock()
				}
				return nil
			})
		}(workerID)
	}
	wg.Wait()

	assert.Equal(t, 1, claims)
}

func TestJobRepository_AcquireNextDueJobSkipsFutureScheduled(t *testing.T) {
	store, ctx := setupStore(t)
	now := time.Now().UTC()
	future := now.Add(time.Hour)

	err := store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		job, err := domain.New(domain.NewJobParams{Name: "later", ScheduledAt: &future}, now)
		if err != nil {
			return err
		}
		_, err = jobs.Insert(ctx, job)
		return err
	})
	require.NoError(t, err)

	err = store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		_, found, err := jobs.AcquireNextDueJob(ctx, "default", now, "worker-1")
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})
	require.NoError(t, err)
}

func TestJobAttemptRepository_InsertAndListForJob(t *testing.T) {
	store, ctx := setupStore(t)
	now := time.Now().UTC()

	var jobID = func() (id domain.Job) {
		err := store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
			id = mustScheduleJob(t, ctx, jobs, now, "default", 0)
			return nil
		})
		require.NoError(t, err)
		return
	}()

	err := store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		attempt := domain.NewSuccessAttempt(jobID.ID, 1, now, now.Add(time.Second), "worker-1")
		_, err := attempts.Insert(ctx, attempt)
		return err
	})
	require.NoError(t, err)

	err = store.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		list, err := attempts.ListForJob(ctx, jobID.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].Success)
		return nil
	})
	require.NoError(t, err)
}
