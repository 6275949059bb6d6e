// Package usecase orchestrates a single unit of work per call and
// applies the right domain.Job transition: one repository-shaped
// dependency, one method per operation, domain errors returned
// unwrapped so the HTTP boundary can map them.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskflow/internal/domain"
	"github.com/rezkam/taskflow/internal/repository"
)

// Clock abstracts time.Now so tests can advance the clock deterministically,
// the way spec scenario S3 requires ("advance the clock 10s; acquire, fail again").
type Clock func() time.Time

// Service implements ScheduleJob, GetJobByID, AcquireNextJob,
// CompleteJob and FailJob against a single UnitOfWork.
type Service struct {
	uow   repository.UnitOfWork
	clock Clock
}

// NewService builds a Service. A nil clock defaults to time.Now.
func NewService(uow repository.UnitOfWork, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{uow: uow, clock: clock}
}

// ScheduleJobCommand mirrors the submission API's wire schema.
type ScheduleJobCommand struct {
	ID          *uuid.UUID
	Name        string
	Payload     map[string]any
	Queue       string
	TenantID    *string
	Priority    int16
	ScheduledAt *time.Time
	MaxAttempts int
	RetryPolicy *domain.RetryPolicy
}

// ScheduleJob validates cmd, builds a fresh Job and inserts it.
func (s *Service) ScheduleJob(ctx context.Context, cmd ScheduleJobCommand) (domain.Job, error) {
	job, err := domain.New(domain.NewJobParams{
		ID:          cmd.ID,
		Name:        cmd.Name,
		Payload:     cmd.Payload,
		Queue:       cmd.Queue,
		TenantID:    cmd.TenantID,
		Priority:    cmd.Priority,
		ScheduledAt: cmd.ScheduledAt,
		MaxAttempts: cmd.MaxAttempts,
		RetryPolicy: cmd.RetryPolicy,
	}, s.clock())
	if err != nil {
		return domain.Job{}, err
	}

	var inserted domain.Job
	err = s.uow.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, _ repository.JobAttemptRepository) error {
		var err error
		inserted, err = jobs.Insert(ctx, job)
		return err
	})
	if err != nil {
		return domain.Job{}, err
	}
	return inserted, nil
}

// GetJobByID fetches a job by id, translating absence to domain.NotFound.
func (s *Service) GetJobByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	var job domain.Job
	err := s.uow.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, _ repository.JobAttemptRepository) error {
		var err error
		job, err = jobs.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Job{}, translateNotFound(err)
	}
	return job, nil
}

// AcquireNextJob calls AcquireNextDueJob for queue with now = the
// service clock. Returns (Job{}, false, nil) when nothing is due.
func (s *Service) AcquireNextJob(ctx context.Context, queue, workerID string) (domain.Job, bool, error) {
	var (
		job   domain.Job
		found bool
	)
	err := s.uow.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, _ repository.JobAttemptRepository) error {
		var err error
		job, found, err = jobs.AcquireNextDueJob(ctx, queue, s.clock(), workerID)
		return err
	})
	if err != nil {
		return domain.Job{}, false, err
	}
	return job, found, nil
}

// CompleteJob loads the job, transitions it to SUCCEEDED, persists it,
// and records a success attempt row. attempt_number is read from
// job.Attempts, which AcquireNextJob already incremented — completion
// never increments it again.
func (s *Service) CompleteJob(ctx context.Context, jobID uuid.UUID, startedAt, finishedAt time.Time, workerID string) (domain.Job, error) {
	var result domain.Job
	err := s.uow.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		job, err := jobs.GetByID(ctx, jobID)
		if err != nil {
			return translateNotFound(err)
		}

		attemptNumber := job.Attempts
		job = job.MarkSucceeded(finishedAt)

		result, err = jobs.Update(ctx, job)
		if err != nil {
			return err
		}

		attempt := domain.NewSuccessAttempt(jobID, attemptNumber, startedAt, finishedAt, workerID)
		_, err = attempts.Insert(ctx, attempt)
		return err
	})
	if err != nil {
		return domain.Job{}, err
	}
	return result, nil
}

// FailJob loads the job, applies the failure (the retry policy decides
// SCHEDULED vs DEAD), persists it, and records a failure attempt row.
func (s *Service) FailJob(ctx context.Context, jobID uuid.UUID, startedAt, finishedAt time.Time, workerID, errType, errMessage string) (domain.Job, error) {
	var result domain.Job
	err := s.uow.Atomic(ctx, func(ctx context.Context, jobs repository.JobRepository, attempts repository.JobAttemptRepository) error {
		job, err := jobs.GetByID(ctx, jobID)
		if err != nil {
			return translateNotFound(err)
		}

		attemptNumber := job.Attempts
		job = job.ApplyFailure(finishedAt)

		result, err = jobs.Update(ctx, job)
		if err != nil {
			return err
		}

		attempt := domain.NewFailureAttempt(jobID, attemptNumber, startedAt, finishedAt, workerID, errType, errMessage)
		_, err = attempts.Insert(ctx, attempt)
		return err
	})
	if err != nil {
		return domain.Job{}, err
	}
	return result, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, domain.ErrJobNotFound) {
		return domain.NotFound("job not found")
	}
	return err
}
