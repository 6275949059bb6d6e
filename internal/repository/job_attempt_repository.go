package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rezkam/taskflow/internal/domain"
)

// JobAttemptRepository is the abstract contract for the append-only
// attempt audit trail.
type JobAttemptRepository interface {
	// Insert persists attempt. The unique (job_id, attempt_number) pair
	// is assumed enforced by the underlying store.
	Insert(ctx context.Context, attempt domain.JobAttempt) (domain.JobAttempt, error)

	// ListForJob returns every attempt for jobID ordered by
	// attempt_number ascending. Returns an empty slice, never nil, when
	// none exist.
	ListForJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobAttempt, error)
}
