// Package repository declares the persistence ports the use-case layer
// depends on. These interfaces are owned by their consumer (the
// usecase package), not by the storage package that provides them —
// the same Dependency Inversion the worker package's Repository
// interface followed in its prior incarnation.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskflow/internal/domain"
)

// JobRepository is the abstract contract for job persistence. A single
// call to AcquireNextDueJob is the atomic core of the whole system: see
// its doc comment for the exact contract every implementation must
// honor.
type JobRepository interface {
	// Insert persists a new job row. Returns domain.JobAlreadyExists on
	// primary-key collision, domain.Repository on any other storage
	// fault.
	Insert(ctx context.Context, job domain.Job) (domain.Job, error)

	// GetByID returns the current value of the job, or
	// domain.ErrJobNotFound if no such row exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error)

	// Update writes every mutable column of job. Fails with
	// domain.Repository if the row no longer exists.
	Update(ctx context.Context, job domain.Job) (domain.Job, error)

	// AcquireNextDueJob selects, locks, and claims at most one runnable
	// job from queue. Within a single transaction it must:
	//
	//  1. Select rows where queue matches, archived = false,
	//     state ∈ {PENDING, SCHEDULED}, and next_run_at is NULL or ≤ now.
	//  2. Order by priority DESC, created_at ASC.
	//  3. Lock the selected row, skipping rows already locked by a
	//     concurrent transaction (SELECT ... FOR UPDATE SKIP LOCKED or
	//     equivalent) — two concurrent callers must never receive the
	//     same job.
	//  4. Mutate the row exactly as domain.Job.MarkRunning would:
	//     locked_by := workerID, locked_at := now, state := RUNNING,
	//     last_run_at := now, attempts := attempts + 1.
	//  5. Return the updated value; the commit belongs to the caller's
	//     unit of work.
	//
	// Returns (domain.Job{}, false, nil) when no row matches step 1.
	AcquireNextDueJob(ctx context.Context, queue string, now time.Time, workerID string) (domain.Job, bool, error)
}
