package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rezkam/taskflow/internal/domain"
	"github.com/rezkam/taskflow/internal/repository"
)

const uniqueViolationCode = "23505"

// jobRepository is the Postgres implementation of repository.JobRepository.
// It is always constructed scoped to a single Store (root or tx-bound);
// see Store.querier.
type jobRepository struct {
	store *Store
}

var _ repository.JobRepository = (*jobRepository)(nil)

const jobColumns = `id, queue, name, tenant_id, payload, state, priority,
	created_at, updated_at, scheduled_at, next_run_at, last_run_at,
	attempts, max_attempts, archived, locked_by, locked_at,
	retry_strategy, retry_base_delay_seconds`

func scanJobRow(row pgx.Row) (jobRow, error) {
	var r jobRow
	err := row.Scan(
		&r.ID, &r.Queue, &r.Name, &r.TenantID, &r.Payload, &r.State, &r.Priority,
		&r.CreatedAt, &r.UpdatedAt, &r.ScheduledAt, &r.NextRunAt, &r.LastRunAt,
		&r.Attempts, &r.MaxAttempts, &r.Archived, &r.LockedBy, &r.LockedAt,
		&r.RetryStrategy, &r.RetryBaseDelaySeconds,
	)
	return r, err
}

func (jr *jobRepository) Insert(ctx context.Context, job domain.Job) (domain.Job, error) {
	row := jobRowFromDomain(job)

	const query = `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + jobColumns

	result, err := scanJobRow(jr.store.querier().QueryRow(ctx, query,
		row.ID, row.Queue, row.Name, row.TenantID, row.Payload, row.State, row.Priority,
		row.CreatedAt, row.UpdatedAt, row.ScheduledAt, row.NextRunAt, row.LastRunAt,
		row.Attempts, row.MaxAttempts, row.Archived, row.LockedBy, row.LockedAt,
		row.RetryStrategy, row.RetryBaseDelaySeconds,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.Job{}, domain.JobAlreadyExists(fmt.Sprintf("job %s already exists", job.ID))
		}
		return domain.Job{}, domain.Repository("failed to insert job", err)
	}
	return result.toDomain(), nil
}

func (jr *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	result, err := scanJobRow(jr.store.querier().QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, domain.ErrJobNotFound
		}
		return domain.Job{}, domain.Repository("failed to get job", err)
	}
	return result.toDomain(), nil
}

func (jr *jobRepository) Update(ctx context.Context, job domain.Job) (domain.Job, error) {
	row := jobRowFromDomain(job)

	const query = `
		UPDATE jobs SET
			queue = $2, name = $3, tenant_id = $4, payload = $5, state = $6,
			priority = $7, created_at = $8, updated_at = $9, scheduled_at = $10,
			next_run_at = $11, last_run_at = $12, attempts = $13, max_attempts = $14,
			archived = $15, locked_by = $16, locked_at = $17,
			retry_strategy = $18, retry_base_delay_seconds = $19
		WHERE id = $1
		RETURNING ` + jobColumns

	result, err := scanJobRow(jr.store.querier().QueryRow(ctx, query,
		row.ID, row.Queue, row.Name, row.TenantID, row.Payload, row.State, row.Priority,
		row.CreatedAt, row.UpdatedAt, row.ScheduledAt, row.NextRunAt, row.LastRunAt,
		row.Attempts, row.MaxAttempts, row.Archived, row.LockedBy, row.LockedAt,
		row.RetryStrategy, row.RetryBaseDelaySeconds,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, domain.Repository("job no longer exists", domain.ErrJobNotFound)
		}
		return domain.Job{}, domain.Repository("failed to update job", err)
	}
	return result.toDomain(), nil
}

// AcquireNextDueJob implements the contract documented on
// repository.JobRepository: select, lock (skipping rows a concurrent
// transaction already holds), and claim a single runnable job in one
// round trip, returning the post-claim row.
func (jr *jobRepository) AcquireNextDueJob(ctx context.Context, queue string, now time.Time, workerID string) (domain.Job, bool, error) {
	const query = `
		UPDATE jobs SET
			state = 'RUNNING',
			locked_by = $1,
			locked_at = $2,
			last_run_at = $2,
			attempts = attempts + 1,
			updated_at = $2
		WHERE id = (
			SELECT id FROM jobs
			WHERE queue = $3
				AND archived = false
				AND state IN ('PENDING', 'SCHEDULED')
				AND (next_run_at IS NULL OR next_run_at <= $2)
			ORDER BY priority DESC, created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + jobColumns

	result, err := scanJobRow(jr.store.querier().QueryRow(ctx, query, workerID, now, queue))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, false, nil
		}
		return domain.Job{}, false, domain.Repository("failed to acquire next due job", err)
	}
	return result.toDomain(), true, nil
}
