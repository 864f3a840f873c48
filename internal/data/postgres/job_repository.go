package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/transaction-intake-service/internal/domain/job"
	"github.com/transaction-intake-service/internal/platform/persistence"
)

// JobRepository implements the job.Repository interface for PostgreSQL
type JobRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewJobRepository creates a new PostgreSQL job repository
func NewJobRepository(logger *slog.Logger, db *persistence.PostgresDB) job.Repository {
	return &JobRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Enqueue inserts a new job row. The job ID is the idempotency key, so a
// second enqueue for the same key hits the primary key and is reported as
// created=false without modifying the stored job.
func (r *JobRepository) Enqueue(ctx context.Context, j *job.Job) (bool, error) {
	query := `
		INSERT INTO transaction_jobs (id, payload, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.querier.Exec(ctx, query,
		j.ID,
		j.Payload,
		j.Status,
		j.Attempts,
		j.CreatedAt,
		j.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to enqueue job", "job_id", j.ID, "error", err)
		return false, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetByID retrieves a job by its ID
func (r *JobRepository) GetByID(ctx context.Context, id string) (*job.Job, error) {
	query := `
		SELECT id, payload, status, attempts, last_error, transaction_id, created_at, updated_at
		FROM transaction_jobs
		WHERE id = $1
	`

	var j job.Job
	var lastError *string
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&j.ID,
		&j.Payload,
		&j.Status,
		&j.Attempts,
		&lastError,
		&j.TransactionID,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, job.ErrJobNotFound{ID: id}
		}
		r.logger.Error("Failed to get job", "job_id", id, "error", err)
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if lastError != nil {
		j.LastError = *lastError
	}
	return &j, nil
}

// MarkActive records that a worker picked the job up for the given attempt
func (r *JobRepository) MarkActive(ctx context.Context, id string, attempts int) error {
	query := `
		UPDATE transaction_jobs
		SET status = $1, attempts = $2, updated_at = $3
		WHERE id = $4
	`

	return r.exec(ctx, id, query, job.StatusActive, attempts, time.Now(), id)
}

// MarkCompleted records successful processing and the resulting
// transaction id for traceability
func (r *JobRepository) MarkCompleted(ctx context.Context, id string, transactionID uuid.UUID) error {
	query := `
		UPDATE transaction_jobs
		SET status = $1, transaction_id = $2, last_error = NULL, updated_at = $3
		WHERE id = $4
	`

	return r.exec(ctx, id, query, job.StatusCompleted, transactionID, time.Now(), id)
}

// MarkFailed records a permanent failure after retries are exhausted
func (r *JobRepository) MarkFailed(ctx context.Context, id string, attempts int, reason string) error {
	query := `
		UPDATE transaction_jobs
		SET status = $1, attempts = $2, last_error = $3, updated_at = $4
		WHERE id = $5
	`

	return r.exec(ctx, id, query, job.StatusFailed, attempts, reason, time.Now(), id)
}

// GetStale returns queued jobs untouched for at least minAge, oldest first
func (r *JobRepository) GetStale(ctx context.Context, minAge time.Duration, limit int) ([]*job.Job, error) {
	query := `
		SELECT id, payload, status, attempts, last_error, transaction_id, created_at, updated_at
		FROM transaction_jobs
		WHERE status = $1 AND updated_at < $2
		ORDER BY created_at ASC
		LIMIT $3
	`

	rows, err := r.querier.Query(ctx, query, job.StatusQueued, time.Now().Add(-minAge), limit)
	if err != nil {
		r.logger.Error("Failed to get stale jobs", "error", err)
		return nil, fmt.Errorf("failed to get stale jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*job.Job
	for rows.Next() {
		var j job.Job
		var lastError *string
		err := rows.Scan(
			&j.ID,
			&j.Payload,
			&j.Status,
			&j.Attempts,
			&lastError,
			&j.TransactionID,
			&j.CreatedAt,
			&j.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan job", "error", err)
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		if lastError != nil {
			j.LastError = *lastError
		}
		jobs = append(jobs, &j)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over stale jobs", "error", err)
		return nil, fmt.Errorf("error iterating over stale jobs: %w", err)
	}

	return jobs, nil
}

// Stats returns job counts grouped by processing state
func (r *JobRepository) Stats(ctx context.Context) (*job.Stats, error) {
	query := `
		SELECT status, COUNT(*)
		FROM transaction_jobs
		GROUP BY status
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to get job stats", "error", err)
		return nil, fmt.Errorf("failed to get job stats: %w", err)
	}
	defer rows.Close()

	var stats job.Stats
	for rows.Next() {
		var status job.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			r.logger.Error("Failed to scan job stats", "error", err)
			return nil, fmt.Errorf("failed to scan job stats: %w", err)
		}

		switch status {
		case job.StatusQueued:
			stats.Waiting = count
		case job.StatusActive:
			stats.Active = count
		case job.StatusCompleted:
			stats.Completed = count
		case job.StatusFailed:
			stats.Failed = count
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over job stats", "error", err)
		return nil, fmt.Errorf("error iterating over job stats: %w", err)
	}

	return &stats, nil
}

func (r *JobRepository) exec(ctx context.Context, id string, query string, args ...interface{}) error {
	result, err := r.querier.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update job", "job_id", id, "error", err)
		return fmt.Errorf("failed to update job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return job.ErrJobNotFound{ID: id}
	}

	return nil
}
