package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxQueueLen      = 64
	maxNameLen       = 255
	maxTenantIDLen   = 64
	defaultQueue     = "default"
	defaultMaxTries  = 3
	minMaxAttempts   = 1
	maxMaxAttempts   = 100
	minPriority      = -32768
	maxPriority      = 32767
	defaultRetryBase = 30
)

// Job is the scheduling unit. It is an immutable value: every state
// transition below returns a new Job rather than mutating the receiver.
// Mutation happens only when a repository persists the returned value;
// callers must never share a mutable Job reference across goroutines.
type Job struct {
	ID          uuid.UUID
	Queue       string
	Name        string
	TenantID    *string
	Payload     map[string]any
	State       State
	Priority    int16
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ScheduledAt *time.Time
	NextRunAt   *time.Time
	LastRunAt   *time.Time
	Attempts    int
	MaxAttempts int
	Archived    bool
	LockedBy    *string
	LockedAt    *time.Time
	RetryPolicy RetryPolicy
}

// NewJobParams are the caller-supplied inputs to New. Zero values take
// defaults in New: a nil ID gets a fresh UUIDv7, an empty Queue becomes
// "default", a nil Payload becomes an empty map, MaxAttempts 0 becomes 3,
// and a nil RetryPolicy becomes EXPONENTIAL with a 30-second base delay.
type NewJobParams struct {
	ID          *uuid.UUID
	Name        string
	Payload     map[string]any
	Queue       string
	TenantID    *string
	Priority    int16
	ScheduledAt *time.Time
	MaxAttempts int
	RetryPolicy *RetryPolicy
}

// New validates cmd against the ScheduleJobCommand rules and builds a
// fresh PENDING (or SCHEDULED, if ScheduledAt is set) Job. It never
// touches a repository: the caller is responsible for persisting the
// result.
func New(cmd NewJobParams, now time.Time) (Job, error) {
	var fields []ValidationField

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		fields = append(fields, ValidationField{Field: "name", Issue: "required"})
	} else if len(name) > maxNameLen {
		fields = append(fields, ValidationField{Field: "name", Issue: "must be 255 characters or fewer"})
	}

	queue := cmd.Queue
	if queue == "" {
		queue = defaultQueue
	}
	if len(queue) > maxQueueLen {
		fields = append(fields, ValidationField{Field: "queue", Issue: "must be 64 characters or fewer"})
	}

	if cmd.TenantID != nil && len(*cmd.TenantID) > maxTenantIDLen {
		fields = append(fields, ValidationField{Field: "tenant_id", Issue: "must be 64 characters or fewer"})
	}

	if int(cmd.Priority) < minPriority || int(cmd.Priority) > maxPriority {
		fields = append(fields, ValidationField{Field: "priority", Issue: "must fit in a signed 16-bit integer"})
	}

	maxAttempts := cmd.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultMaxTries
	}
	if maxAttempts < minMaxAttempts || maxAttempts > maxMaxAttempts {
		fields = append(fields, ValidationField{Field: "max_attempts", Issue: "must be between 1 and 100"})
	}

	if len(fields) > 0 {
		return Job{}, Validation("job command failed validation", fields...)
	}

	id := uuid.Must(uuid.NewV7())
	if cmd.ID != nil {
		id = *cmd.ID
	}

	payload := cmd.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	policy := RetryPolicy{Strategy: StrategyExponential, BaseDelaySeconds: defaultRetryBase}
	if cmd.RetryPolicy != nil {
		policy = *cmd.RetryPolicy
	}

	state := StatePending
	if cmd.ScheduledAt != nil {
		state = StateScheduled
	}

	return Job{
		ID:          id,
		Queue:       queue,
		Name:        name,
		TenantID:    cmd.TenantID,
		Payload:     payload,
		State:       state,
		Priority:    cmd.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		ScheduledAt: cmd.ScheduledAt,
		NextRunAt:   cmd.ScheduledAt,
		Attempts:    0,
		MaxAttempts: maxAttempts,
		Archived:    false,
		RetryPolicy: policy,
	}, nil
}

// MarkScheduled returns a copy of j scheduled to next run at when.
func (j Job) MarkScheduled(when, now time.Time) Job {
	j.State = StateScheduled
	j.NextRunAt = &when
	j.UpdatedAt = now
	return j
}

// MarkRunning returns a copy of j claimed by workerID at now. This is
// the pure counterpart of the mutation AcquireNextDueJob performs in
// the same transaction as the claiming SELECT; repository
// implementations call it (or replicate its field assignments directly
// in SQL) so the invariant "RUNNING iff locked_by/locked_at set" holds
// in exactly one place.
func (j Job) MarkRunning(workerID string, now time.Time) Job {
	j.State = StateRunning
	j.LockedBy = &workerID
	j.LockedAt = &now
	j.LastRunAt = &now
	j.Attempts++
	j.UpdatedAt = now
	return j
}

// MarkSucceeded returns a copy of j transitioned to the terminal
// SUCCEEDED state.
func (j Job) MarkSucceeded(now time.Time) Job {
	j.State = StateSucceeded
	j.LockedBy = nil
	j.LockedAt = nil
	j.NextRunAt = nil
	j.LastRunAt = &now
	j.UpdatedAt = now
	return j
}

// ApplyFailure asks j's retry policy, with the current attempts count,
// whether another attempt is owed. It returns SCHEDULED with a computed
// next_run_at, or the terminal DEAD state when the retry budget is
// exhausted. It does not change attempts: acquisition (MarkRunning /
// AcquireNextDueJob) already counted this attempt, and neither
// CompleteJob nor FailJob increments it again.
func (j Job) ApplyFailure(now time.Time) Job {
	j.LastRunAt = &now
	j.LockedBy = nil
	j.LockedAt = nil
	j.UpdatedAt = now

	next, ok := j.RetryPolicy.ComputeNextRunAt(j.Attempts, j.MaxAttempts, now)
	if !ok {
		j.State = StateDead
		j.NextRunAt = nil
		return j
	}

	return j.MarkScheduled(next, now)
}

// Archive returns a copy of j flagged archived; archived jobs are
// invisible to acquisition regardless of state, terminal or not.
func (j Job) Archive(now time.Time) Job {
	j.Archived = true
	j.UpdatedAt = now
	return j
}
