package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/transaction-intake-service/internal/domain/job"
	"github.com/transaction-intake-service/internal/domain/shared"
	"github.com/transaction-intake-service/internal/domain/transaction"
	"github.com/transaction-intake-service/internal/platform/messaging/producers"
)

// EnqueueServiceImpl implements the EnqueueService interface
type EnqueueServiceImpl struct {
	jobRepo  job.Repository
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewEnqueueService creates a new enqueue service
func NewEnqueueService(logger *slog.Logger, jobRepo job.Repository, producer producers.MessagePublisher) EnqueueService {
	return &EnqueueServiceImpl{
		jobRepo:  jobRepo,
		producer: producer,
		logger:   logger,
	}
}

// Enqueue submits a creation request for asynchronous processing. The job
// row keyed by the idempotency key is the de-duplication gate: when it
// already exists, the stored job ID is returned and nothing new is
// published. Publish failures propagate; the caller sees the enqueue fail.
func (s *EnqueueServiceImpl) Enqueue(ctx context.Context, input CreateTransactionInput) (string, error) {
	logger := s.logger
	if input.CorrelationID != "" {
		logger = s.logger.With("correlation_id", input.CorrelationID)
	}

	currency := input.Currency
	if currency == "" {
		currency = transaction.DefaultCurrency
	}

	req := &shared.CreateRequest{
		IdempotencyKey: input.IdempotencyKey,
		Amount:         input.Amount,
		Currency:       currency,
		Description:    input.Description,
		CorrelationID:  input.CorrelationID,
		EnqueuedAt:     time.Now(),
	}

	j, err := job.NewJob(req)
	if err != nil {
		logger.Error("Failed to build job payload",
			"operation", "enqueue",
			"idempotency_key", input.IdempotencyKey,
			"error", err,
		)
		return "", err
	}

	created, err := s.jobRepo.Enqueue(ctx, j)
	if err != nil {
		logger.Error("Failed to record job",
			"operation", "enqueue",
			"idempotency_key", input.IdempotencyKey,
			"error", err,
		)
		return "", err
	}

	if !created {
		logger.Info("Enqueue coalesced with existing job",
			"job_id", j.ID,
			"idempotency_key", input.IdempotencyKey,
		)
		return j.ID, nil
	}

	if err := s.producer.Publish(ctx, j.ID, req); err != nil {
		logger.Error("Failed to publish creation request",
			"operation", "enqueue",
			"job_id", j.ID,
			"idempotency_key", input.IdempotencyKey,
			"error", err,
		)
		// The job row stays queued; the requeue poller will republish it.
		return "", err
	}

	logger.Info("Creation request enqueued",
		"job_id", j.ID,
		"idempotency_key", input.IdempotencyKey,
		"amount", input.Amount.String(),
	)
	return j.ID, nil
}

// Stats reports job counts per processing state
func (s *EnqueueServiceImpl) Stats(ctx context.Context) (*job.Stats, error) {
	stats, err := s.jobRepo.Stats(ctx)
	if err != nil {
		s.logger.Error("Failed to get queue stats", "operation", "stats", "error", err)
		return nil, err
	}
	return stats, nil
}
