package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transaction-intake-service/internal/domain/job"
	"github.com/transaction-intake-service/internal/domain/transaction"
)

// CreateTransactionInput carries the caller-supplied fields of a creation
// request. Currency may be empty; the BRL default is applied downstream.
type CreateTransactionInput struct {
	IdempotencyKey string
	Amount         decimal.Decimal
	Currency       string
	Description    string
	CorrelationID  string
}

// ListMeta describes a page of the transaction listing
type ListMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionService defines the synchronous transaction operations.
// Create is shared by the HTTP gateway and the queue processor; both paths
// converge here so reprocessing a job is always safe.
type TransactionService interface {
	// Create applies a creation request exactly once per idempotency key.
	// A repeat submission returns the originally stored transaction.
	Create(ctx context.Context, input CreateTransactionInput) (*transaction.Transaction, error)

	// GetByID retrieves a transaction by its ID. Returns nil if not found
	GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)

	// List retrieves a page of transactions, most recent first, along with
	// count-derived page metadata
	List(ctx context.Context, page, limit int) ([]*transaction.Transaction, *ListMeta, error)
}

// EnqueueService defines the asynchronous submission operations
type EnqueueService interface {
	// Enqueue hands a creation request to the queue. The returned job ID
	// equals the idempotency key; a repeat enqueue returns the same ID
	// without queueing more work.
	Enqueue(ctx context.Context, input CreateTransactionInput) (string, error)

	// Stats reports job counts per processing state
	Stats(ctx context.Context) (*job.Stats, error)
}
