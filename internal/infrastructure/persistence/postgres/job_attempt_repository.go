package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/rezkam/taskflow/internal/domain"
	"github.com/rezkam/taskflow/internal/repository"
)

// jobAttemptRepository is the Postgres implementation of
// repository.JobAttemptRepository.
type jobAttemptRepository struct {
	store *Store
}

var _ repository.JobAttemptRepository = (*jobAttemptRepository)(nil)

const jobAttemptColumns = `id, job_id, attempt_number, started_at, finished_at,
	success, error_type, error_message, worker_id`

func (ar *jobAttemptRepository) Insert(ctx context.Context, attempt domain.JobAttempt) (domain.JobAttempt, error) {
	row := jobAttemptRowFromDomain(attempt)

	const query = `
		INSERT INTO job_attempts (` + jobAttemptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + jobAttemptColumns

	var result jobAttemptRow
	err := ar.store.querier().QueryRow(ctx, query,
		row.ID, row.JobID, row.AttemptNumber, row.StartedAt, row.FinishedAt,
		row.Success, row.ErrorType, row.ErrorMessage, row.WorkerID,
	).Scan(
		&result.ID, &result.JobID, &result.AttemptNumber, &result.StartedAt, &result.FinishedAt,
		&result.Success, &result.ErrorType, &result.ErrorMessage, &result.WorkerID,
	)
	if err != nil {
		return domain.JobAttempt{}, domain.Repository("failed to insert job attempt", err)
	}
	return result.toDomain(), nil
}

func (ar *jobAttemptRepository) ListForJob(ctx context.Context, jobID uuid.UUID) ([]domain.JobAttempt, error) {
	const query = `
		SELECT ` + jobAttemptColumns + `
		FROM job_attempts
		WHERE job_id = $1
		ORDER BY attempt_number ASC`

	rows, err := ar.store.querier().Query(ctx, query, jobID)
	if err != nil {
		return nil, domain.Repository("failed to list job attempts", err)
	}
	defer rows.Close()

	out := []domain.JobAttempt{}
	for rows.Next() {
		var r jobAttemptRow
		if err := rows.Scan(
			&r.ID, &r.JobID, &r.AttemptNumber, &r.StartedAt, &r.FinishedAt,
			&r.Success, &r.ErrorType, &r.ErrorMessage, &r.WorkerID,
		); err != nil {
			return nil, domain.Repository("failed to scan job attempt row", err)
		}
		out = append(out, r.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Repository("failed to iterate job attempt rows", err)
	}
	return out, nil
}
