package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskflow/internal/domain"
)

// scheduleJobRequest mirrors the ScheduleJobCommand wire schema.
type scheduleJobRequest struct {
	ID          *uuid.UUID     `json:"id,omitempty"`
	Name        string         `json:"name"`
	Payload     map[string]any `json:"payload,omitempty"`
	Queue       string         `json:"queue,omitempty"`
	TenantID    *string        `json:"tenant_id,omitempty"`
	Priority    int16          `json:"priority,omitempty"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
	MaxAttempts int            `json:"max_attempts,omitempty"`
	RetryPolicy *retryPolicyDTO `json:"retry_policy,omitempty"`
}

type retryPolicyDTO struct {
	Strategy         string `json:"strategy"`
	BaseDelaySeconds int    `json:"base_delay_seconds"`
}

func (d *retryPolicyDTO) toDomain() *domain.RetryPolicy {
	if d == nil {
		return nil
	}
	return &domain.RetryPolicy{
		Strategy:         domain.Strategy(d.Strategy),
		BaseDelaySeconds: d.BaseDelaySeconds,
	}
}

// jobResponse is the Job resource returned by both endpoints.
type jobResponse struct {
	ID          uuid.UUID       `json:"id"`
	Queue       string          `json:"queue"`
	Name        string          `json:"name"`
	TenantID    *string         `json:"tenant_id,omitempty"`
	Payload     map[string]any  `json:"payload"`
	State       string          `json:"state"`
	Priority    int16           `json:"priority"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ScheduledAt *time.Time      `json:"scheduled_at,omitempty"`
	NextRunAt   *time.Time      `json:"next_run_at,omitempty"`
	LastRunAt   *time.Time      `json:"last_run_at,omitempty"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	Archived    bool            `json:"archived"`
	RetryPolicy retryPolicyDTO  `json:"retry_policy"`
}

func mapJobToDTO(job domain.Job) jobResponse {
	return jobResponse{
		ID:          job.ID,
		Queue:       job.Queue,
		Name:        job.Name,
		TenantID:    job.TenantID,
		Payload:     job.Payload,
		State:       string(job.State),
		Priority:    job.Priority,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
		ScheduledAt: job.ScheduledAt,
		NextRunAt:   job.NextRunAt,
		LastRunAt:   job.LastRunAt,
		Attempts:    job.Attempts,
		MaxAttempts: job.MaxAttempts,
		Archived:    job.Archived,
		RetryPolicy: retryPolicyDTO{
			Strategy:         string(job.RetryPolicy.Strategy),
			BaseDelaySeconds: job.RetryPolicy.BaseDelaySeconds,
		},
	}
}
