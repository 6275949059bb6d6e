// Package handler adapts HTTP requests to usecase.Service calls for the
// submission API: decode JSON into a command, call the service, map the
// result to a DTO. This repo has no OpenAPI code-generation toolchain
// available, so the request shape is decoded directly from
// scheduleJobRequest rather than from generated types. See DESIGN.md.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rezkam/taskflow/internal/domain"
	"github.com/rezkam/taskflow/internal/http/response"
	"github.com/rezkam/taskflow/internal/usecase"
)

// JobHandler implements the job submission and lookup endpoints.
type JobHandler struct {
	svc *usecase.Service
}

// NewJobHandler builds a JobHandler over svc.
func NewJobHandler(svc *usecase.Service) *JobHandler {
	return &JobHandler{svc: svc}
}

// CreateJob implements POST /jobs.
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req scheduleJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	cmd := usecase.ScheduleJobCommand{
		ID:          req.ID,
		Name:        req.Name,
		Payload:     req.Payload,
		Queue:       req.Queue,
		TenantID:    req.TenantID,
		Priority:    req.Priority,
		ScheduledAt: req.ScheduledAt,
		MaxAttempts: req.MaxAttempts,
		RetryPolicy: req.RetryPolicy.toDomain(),
	}

	job, err := h.svc.ScheduleJob(r.Context(), cmd)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to schedule job via HTTP", "name", req.Name, "error", err)
		response.FromDomainError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "job scheduled via HTTP", "job_id", job.ID, "queue", job.Queue)
	response.Created(w, mapJobToDTO(job))
}

// GetJob implements GET /jobs/{id}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		response.FromDomainError(w, r, domain.Validation("job id must be a valid UUID",
			domain.ValidationField{Field: "id", Issue: "must be a valid UUID"}))
		return
	}

	job, err := h.svc.GetJobByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, domain.ErrJobNotFound) {
			slog.ErrorContext(r.Context(), "failed to get job via HTTP", "job_id", id, "error", err)
		}
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapJobToDTO(job))
}
