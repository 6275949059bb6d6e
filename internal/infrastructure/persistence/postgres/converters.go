package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskflow/internal/domain"
)

// jobRow mirrors the columns of the jobs table one-to-one; scanning
// into it keeps Query/QueryRow call sites free of long, error-prone
// positional variable lists.
type jobRow struct {
	ID                    uuid.UUID
	Queue                 string
	Name                  string
	TenantID              *string
	Payload               map[string]any
	State                 string
	Priority              int16
	CreatedAt             time.Time
	UpdatedAt             time.Time
	ScheduledAt           *time.Time
	NextRunAt             *time.Time
	LastRunAt             *time.Time
	Attempts              int
	MaxAttempts           int
	Archived              bool
	LockedBy              *string
	LockedAt              *time.Time
	RetryStrategy         string
	RetryBaseDelaySeconds int
}

func (r jobRow) toDomain() domain.Job {
	payload := r.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return domain.Job{
		ID:          r.ID,
		Queue:       r.Queue,
		Name:        r.Name,
		TenantID:    r.TenantID,
		Payload:     payload,
		State:       domain.State(r.State),
		Priority:    r.Priority,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ScheduledAt: r.ScheduledAt,
		NextRunAt:   r.NextRunAt,
		LastRunAt:   r.LastRunAt,
		Attempts:    r.Attempts,
		MaxAttempts: r.MaxAttempts,
		Archived:    r.Archived,
		LockedBy:    r.LockedBy,
		LockedAt:    r.LockedAt,
		RetryPolicy: domain.RetryPolicy{
			Strategy:         domain.Strategy(r.RetryStrategy),
			BaseDelaySeconds: r.RetryBaseDelaySeconds,
		},
	}
}

func jobRowFromDomain(j domain.Job) jobRow {
	return jobRow{
		ID:                    j.ID,
		Queue:                 j.Queue,
		Name:                  j.Name,
		TenantID:              j.TenantID,
		Payload:               j.Payload,
		State:                 string(j.State),
		Priority:              j.Priority,
		CreatedAt:             j.CreatedAt,
		UpdatedAt:             j.UpdatedAt,
		ScheduledAt:           j.ScheduledAt,
		NextRunAt:             j.NextRunAt,
		LastRunAt:             j.LastRunAt,
		Attempts:              j.Attempts,
		MaxAttempts:           j.MaxAttempts,
		Archived:              j.Archived,
		LockedBy:              j.LockedBy,
		LockedAt:              j.LockedAt,
		RetryStrategy:         string(j.RetryPolicy.Strategy),
		RetryBaseDelaySeconds: j.RetryPolicy.BaseDelaySeconds,
	}
}

// jobAttemptRow mirrors the columns of the job_attempts table.
type jobAttemptRow struct {
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

func (r jobAttemptRow) toDomain() domain.JobAttempt {
	return domain.JobAttempt{
		ID:            r.ID,
		JobID:         r.JobID,
		AttemptNumber: r.AttemptNumber,
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Success:       r.Success,
		ErrorType:     r.ErrorType,
		ErrorMessage:  r.ErrorMessage,
		WorkerID:      r.WorkerID,
	}
}

func jobAttemptRowFromDomain(a domain.JobAttempt) jobAttemptRow {
	return jobAttemptRow{
		ID:            a.ID,
		JobID:         a.JobID,
		AttemptNumber: a.AttemptNumber,
		StartedAt:     a.StartedAt,
		FinishedAt:    a.FinishedAt,
		Success:       a.Success,
		ErrorType:     a.ErrorType,
		ErrorMessage:  a.ErrorMessage,
		WorkerID:      a.WorkerID,
	}
}
