package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	appservice "github.com/transaction-intake-service/internal/service"

	"github.com/transaction-intake-service/internal/domain/job"
	"github.com/transaction-intake-service/internal/domain/shared"
	"github.com/transaction-intake-service/internal/domain/transaction"
	"github.com/transaction-intake-service/internal/platform/messaging/producers"
)

// RetryConfig caps processing attempts per request. The delay before
// attempt n+1 is BaseDelay doubled n-1 times.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// ProcessingServiceImpl runs queued creation requests through the same
// idempotent create operation the synchronous path uses, with retry on
// failure. Exhausted requests are recorded as permanently failed and sent
// to the DLQ, never dropped.
type ProcessingServiceImpl struct {
	transactionService appservice.TransactionService
	jobRepo            job.Repository
	dlqProducer        producers.DeadLetterPublisher
	retry              RetryConfig
	logger             *slog.Logger
}

func NewProcessingService(
	transactionService appservice.TransactionService,
	jobRepo job.Repository,
	dlqProducer producers.DeadLetterPublisher,
	retry RetryConfig,
	logger *slog.Logger,
) ProcessingService {
	return &ProcessingServiceImpl{
		transactionService: transactionService,
		jobRepo:            jobRepo,
		dlqProducer:        dlqProducer,
		retry:              retry,
		logger:             logger,
	}
}

// ProcessRequest applies a queued creation request. Returning nil commits
// the queue offset; an error is returned only when the terminal outcome
// could not be recorded, so the message is redelivered.
func (s *ProcessingServiceImpl) ProcessRequest(ctx context.Context, request *shared.CreateRequest) error {
	logger := s.logger.With("job_id", request.IdempotencyKey)
	if request.CorrelationID != "" {
		logger = logger.With("correlation_id", request.CorrelationID)
	}

	input := appservice.CreateTransactionInput{
		IdempotencyKey: request.IdempotencyKey,
		Amount:         request.Amount,
		Currency:       request.Currency,
		Description:    request.Description,
		CorrelationID:  request.CorrelationID,
	}

	var lastErr error
	for attempt := 1; attempt <= s.retry.MaxAttempts; attempt++ {
		if err := s.jobRepo.MarkActive(ctx, request.IdempotencyKey, attempt); err != nil {
			// A missing row means the request arrived outside the enqueue
			// path; processing proceeds, only the bookkeeping is lost.
			logger.Warn("Failed to mark job active", "attempt", attempt, "error", err)
		}

		logger.Info("Processing creation request", "attempt", attempt)

		txn, err := s.transactionService.Create(ctx, input)
		if err == nil {
			return s.recordCompleted(ctx, logger, request, txn)
		}

		lastErr = err
		if transaction.IsValidationError(err) {
			// Client-caused failure; retrying cannot help.
			logger.Error("Creation request rejected as invalid",
				"idempotency_key", request.IdempotencyKey,
				"error", err,
			)
			return s.recordFailed(ctx, logger, request, attempt, err)
		}

		logger.Warn("Creation attempt failed",
			"attempt", attempt,
			"max_attempts", s.retry.MaxAttempts,
			"error", err,
		)

		if attempt < s.retry.MaxAttempts {
			delay := s.retry.BaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	logger.Error("Creation request exhausted retries",
		"idempotency_key", request.IdempotencyKey,
		"attempts", s.retry.MaxAttempts,
		"error", lastErr,
	)
	return s.recordFailed(ctx, logger, request, s.retry.MaxAttempts, lastErr)
}

func (s *ProcessingServiceImpl) recordCompleted(ctx context.Context, logger *slog.Logger, request *shared.CreateRequest, txn *transaction.Transaction) error {
	if err := s.jobRepo.MarkCompleted(ctx, request.IdempotencyKey, txn.ID); err != nil {
		logger.Error("Failed to record job completion", "error", err)
		return err
	}

	logger.Info("Creation request processed",
		"transaction_id", txn.ID.String(),
		"idempotency_key", request.IdempotencyKey,
	)
	return nil
}

func (s *ProcessingServiceImpl) recordFailed(ctx context.Context, logger *slog.Logger, request *shared.CreateRequest, attempts int, cause error) error {
	if err := s.jobRepo.MarkFailed(ctx, request.IdempotencyKey, attempts, cause.Error()); err != nil {
		logger.Error("Failed to record job failure", "error", err)
		return err
	}

	if s.dlqProducer != nil {
		payload, err := json.Marshal(request)
		if err != nil {
			logger.Error("Failed to marshal request for DLQ", "error", err)
			return nil
		}
		if err := s.dlqProducer.PublishToDLQ(ctx, request.IdempotencyKey, payload, cause.Error()); err != nil {
			// The failure is already recorded on the job row; DLQ publish
			// is best effort.
			logger.Error("Failed to publish failed request to DLQ", "error", err)
		}
	}

	return nil
}
