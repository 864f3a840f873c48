// Package postgres provides PostgreSQL implementations of the domain
// repositories. The transactions table carries a unique constraint on the
// idempotency key, which is the ultimate source of truth for the
// at-most-one-transaction-per-key invariant.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/transaction-intake-service/internal/domain/transaction"
	"github.com/transaction-intake-service/internal/platform/persistence"
)

// uniqueViolationCode is the SQLSTATE raised when an insert violates a
// unique constraint.
const uniqueViolationCode = "23505"

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new transaction. When a transaction with the same
// idempotency key is already stored, the unique constraint fires and the
// error is returned as transaction.ErrDuplicateKey so callers can
// distinguish the race from other storage failures by kind.
func (r *TransactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, idempotency_key, amount, currency, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.IdempotencyKey,
		txn.Amount,
		txn.Currency,
		txn.Description,
		txn.Status,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return transaction.ErrDuplicateKey{IdempotencyKey: txn.IdempotencyKey}
		}
		r.logger.Error("Failed to create transaction",
			"idempotency_key", txn.IdempotencyKey,
			"error", err,
		)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByIdempotencyKey retrieves a transaction by its idempotency key.
// Returns (nil, nil) when no transaction exists for the key.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*transaction.Transaction, error) {
	query := `
		SELECT id, idempotency_key, amount, currency, description, status, created_at, updated_at
		FROM transactions
		WHERE idempotency_key = $1
	`

	txn, err := r.scanRow(r.querier.QueryRow(ctx, query, idempotencyKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction by idempotency key",
			"idempotency_key", idempotencyKey,
			"error", err,
		)
		return nil, fmt.Errorf("failed to get transaction by idempotency key: %w", err)
	}

	return txn, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `
		SELECT id, idempotency_key, amount, currency, description, status, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`

	txn, err := r.scanRow(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// List retrieves a page of transactions ordered by creation time,
// most recent first
func (r *TransactionRepository) List(ctx context.Context, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, idempotency_key, amount, currency, description, status, created_at, updated_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.Transaction
	for rows.Next() {
		var txn transaction.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.IdempotencyKey,
			&txn.Amount,
			&txn.Currency,
			&txn.Description,
			&txn.Status,
			&txn.CreatedAt,
			&txn.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &txn)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return transactions, nil
}

// Count returns the total number of stored transactions
func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions`

	var total int64
	if err := r.querier.QueryRow(ctx, query).Scan(&total); err != nil {
		r.logger.Error("Failed to count transactions", "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return total, nil
}

func (r *TransactionRepository) scanRow(row pgx.Row) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.IdempotencyKey,
		&txn.Amount,
		&txn.Currency,
		&txn.Description,
		&txn.Status,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
