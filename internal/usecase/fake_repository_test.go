package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskflow/internal/domain"
	"github.com/rezkam/taskflow/internal/repository"
)

// fakeStore is an in-memory repository.JobRepository +
// repository.JobAttemptRepository + repository.UnitOfWork used by
// usecase tests in place of a real database.
type fakeStore struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]domain.Job
	attempts []domain.JobAttempt
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: make(map[uuid.UUID]domain.Job)}
}

func (f *fakeStore) Atomic(ctx context.Context, fn func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx, (*lockedJobs)(f), (*lockedAttempts)(f))
}

// lockedJobs and lockedAttempts give Atomic's callback repository views
// bound to the caller's already-held lock, the same way a transaction-
// scoped store rebinds its queries inside a real Atomic implementation.
type lockedJobs fakeStore
type lockedAttempts fakeStore

func (l *lockedJobs) Insert(ctx context.Context, job domain.Job) (domain.Job, error) {
	if _, exists := l.jobs[job.ID]; exists {
		return domain.Job{}, domain.JobAlreadyExists("job already exists")
	}
	l.jobs[job.ID] = job
	return job, nil
}

func (l *lockedJobs) GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	job, ok := l.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return job, nil
}

func (l *lockedJobs) Update(ctx context.Context, job domain.Job) (domain.Job, error) {
	if _, ok := l.jobs[job.ID]; !ok {
		return domain.Job{}, domain.Repository("job gone", nil)
	}
	l.jobs[job.ID] = job
	return job, nil
}

func (l *lockedJobs) AcquireNextDueJob(ctx context.Context, queue string, now time.Time, workerID string) (domain.Job, bool, error) {
	var candidates []domain.Job
	for _, job := range l.jobs {
		if job.Queue != queue || job.Archived || !job.State.Runnable() {
			continue
		}
		if job.NextRunAt != nil && job.NextRunAt.After(now) {
			continue
		}
		candidates = append(candidates, job)
	}
	if len(candidates) == 0 {
		return domain.Job{}, false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	claimed := candidates[0].MarkRunning(workerID, now)
	l.jobs[claimed.ID] = claimed
	return claimed, true, nil
}

func (l *lockedAttempts) Insert(ctx context.Context, attempt domain.JobAttempt) (domain.JobAttempt, error) {
	(*fakeStore)(l).attempts = append((*fakeStore)(l).attempts, attempt)
	return attempt, nil
}

func (l *lockedAttempts) ListForJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobAttempt, error) {
	var out []domain.JobAttempt
	for _, a := range (*fakeStore)(l).attempts {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttemptNumber < out[j].AttemptNumber })
	return out, nil
}
