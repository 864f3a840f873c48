package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Validation errors surfaced to callers as client-caused failures.
// They are never retried.
var (
	ErrEmptyIdempotencyKey = errors.New("idempotency key is required")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidTransaction  = errors.New("invalid transaction data")
)

// IsValidationError reports whether err belongs to the invalid-input class.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyIdempotencyKey) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidTransaction)
}

// Repository manages transaction persistence. GetByIdempotencyKey returns
// (nil, nil) when no transaction exists for the key; List orders by
// creation time, most recent first.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, limit, offset int) ([]*Transaction, error)
	Count(ctx context.Context) (int64, error)
}

// ErrDuplicateKey indicates the storage layer rejected an insert because a
// transaction with the same idempotency key is already stored. The create
// flow recovers from it by re-querying; it is never surfaced to callers.
type ErrDuplicateKey struct {
	IdempotencyKey string
}

func (e ErrDuplicateKey) Error() string {
	return "transaction already exists for idempotency key: " + e.IdempotencyKey
}

// Is implements the errors.Is interface for ErrDuplicateKey
func (e ErrDuplicateKey) Is(target error) bool {
	t, ok := target.(ErrDuplicateKey)
	if !ok {
		return false
	}
	// An empty target key matches any duplicate-key error
	if t.IdempotencyKey == "" {
		return true
	}
	return e.IdempotencyKey == t.IdempotencyKey
}

// ErrTransactionNotFound indicates a missing transaction
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.ID == uuid.Nil {
		return true
	}
	return e.ID == t.ID
}
