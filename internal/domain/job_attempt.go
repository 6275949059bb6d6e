package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobAttempt is an append-only record of one execution of a Job.
// Attempts are never mutated once inserted; the set of attempts for a
// job is its execution history.
type JobAttempt struct {
	ID            uuid.UUID
	JobID         uuid.UUID
	AttemptNumber int
	StartedAt     time.Time
	FinishedAt    time.Time
	Success       bool
	ErrorType     *string
	ErrorMessage  *string
	WorkerID      string
}

// NewSuccessAttempt builds the attempt row recorded when a job completes.
func NewSuccessAttempt(jobID uuid.UUID, attemptNumber int, startedAt, finishedAt time.Time, workerID string) JobAttempt {
	return JobAttempt{
		ID:            uuid.Must(uuid.NewV7()),
		JobID:         jobID,
		AttemptNumber: attemptNumber,
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
		Success:       true,
		WorkerID:      workerID,
	}
}

// NewFailureAttempt builds the attempt row recorded when a job fails,
// whether or not the failure exhausts the retry budget.
func NewFailureAttempt(jobID uuid.UUID, attemptNumber int, startedAt, finishedAt time.Time, workerID, errType, errMessage string) JobAttempt {
	return JobAttempt{
		ID:            uuid.Must(uuid.NewV7()),
		JobID:         jobID,
		AttemptNumber: attemptNumber,
		StartedAt:     startedAt,
		FinishedAt:    finishedAt,
		Success:       false,
		ErrorType:     &errType,
		ErrorMessage:  &errMessage,
		WorkerID:      workerID,
	}
}
