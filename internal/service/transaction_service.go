package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/transaction-intake-service/internal/domain/transaction"
)

// DefaultPageSize is used when the listing limit is missing or invalid.
const DefaultPageSize = 10

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	repo   transaction.Repository
	logger *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, repo transaction.Repository) TransactionService {
	return &TransactionServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// Create applies a creation request exactly once per idempotency key.
// There is no in-process lock: two concurrent calls for the same key both
// pass the existence check, one insert wins the unique constraint, and the
// loser re-queries and returns the winner's row. This stays correct across
// multiple instances because the constraint lives in the store of record.
func (s *TransactionServiceImpl) Create(ctx context.Context, input CreateTransactionInput) (*transaction.Transaction, error) {
	logger := s.logger
	if input.CorrelationID != "" {
		logger = s.logger.With("correlation_id", input.CorrelationID)
	}

	if strings.TrimSpace(input.IdempotencyKey) == "" {
		logger.Error("Rejected create with blank idempotency key", "operation", "create")
		return nil, transaction.ErrEmptyIdempotencyKey
	}
	if !input.Amount.IsPositive() {
		logger.Error("Rejected create with non-positive amount",
			"operation", "create",
			"idempotency_key", input.IdempotencyKey,
			"amount", input.Amount.String(),
		)
		return nil, transaction.ErrInvalidAmount
	}

	existing, err := s.repo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
	if err != nil {
		logger.Error("Failed to check for existing transaction",
			"operation", "create",
			"idempotency_key", input.IdempotencyKey,
			"error", err,
		)
		return nil, err
	}
	if existing != nil {
		// Repeated submission is the expected steady state of a retry-safe
		// API, not an error.
		logger.Warn("Duplicate transaction detected, returning stored transaction",
			"idempotency_key", input.IdempotencyKey,
			"transaction_id", existing.ID.String(),
		)
		return existing, nil
	}

	txn := transaction.New(input.IdempotencyKey, input.Amount, input.Currency, input.Description)
	if !txn.IsValid() {
		logger.Error("Constructed transaction failed validation",
			"operation", "create",
			"idempotency_key", input.IdempotencyKey,
		)
		return nil, transaction.ErrInvalidTransaction
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		if errors.Is(err, transaction.ErrDuplicateKey{}) {
			// A concurrent caller won the race between the existence check
			// and the insert. Defer to the winner.
			logger.Warn("Lost creation race, returning winner's transaction",
				"idempotency_key", input.IdempotencyKey,
			)

			winner, findErr := s.repo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
			if findErr == nil && winner != nil {
				return winner, nil
			}
			if findErr != nil {
				logger.Error("Failed to re-query after losing creation race",
					"operation", "create",
					"idempotency_key", input.IdempotencyKey,
					"error", findErr,
				)
			}
			// The constraint fired but the row is not visible. Surface the
			// original persistence error.
			return nil, err
		}

		logger.Error("Failed to persist transaction",
			"operation", "create",
			"idempotency_key", input.IdempotencyKey,
			"error", err,
		)
		return nil, err
	}

	logger.Info("Transaction created",
		"transaction_id", txn.ID.String(),
		"idempotency_key", txn.IdempotencyKey,
		"amount", txn.Amount.String(),
		"currency", txn.Currency,
	)
	return txn, nil
}

// GetByID retrieves a transaction by its ID. Returns nil if not found
func (s *TransactionServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound{}) {
			s.logger.Info("Transaction not found", "transaction_id", id.String())
			return nil, nil
		}
		s.logger.Error("Failed to get transaction by ID",
			"operation", "get_by_id",
			"transaction_id", id.String(),
			"error", err,
		)
		return nil, err
	}
	return txn, nil
}

// List retrieves a page of transactions ordered by creation time, most
// recent first. The total comes from a second count query; a page past the
// end of the data yields an empty list, not an error.
func (s *TransactionServiceImpl) List(ctx context.Context, page, limit int) ([]*transaction.Transaction, *ListMeta, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	offset := (page - 1) * limit

	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list transactions", "operation", "list", "error", err)
		return nil, nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count transactions", "operation", "list", "error", err)
		return nil, nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	meta := &ListMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
	return items, meta, nil
}
