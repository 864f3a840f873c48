package transaction

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("PopulatesFieldsAndDefaults", func(t *testing.T) {
		amount := decimal.NewFromFloat(150.75)
		txn := New("order-2024-001", amount, "USD", "Pedido 2024-001")

		require.NotNil(t, txn)
		assert.NotEqual(t, uuid.Nil, txn.ID)
		assert.Equal(t, "order-2024-001", txn.IdempotencyKey)
		assert.True(t, amount.Equal(txn.Amount))
		assert.Equal(t, "USD", txn.Currency)
		assert.Equal(t, "Pedido 2024-001", txn.Description)
		assert.Equal(t, StatusCompleted, txn.Status)
		assert.False(t, txn.CreatedAt.IsZero())
		assert.Equal(t, txn.CreatedAt, txn.UpdatedAt)
	})

	t.Run("DefaultsCurrencyToBRL", func(t *testing.T) {
		txn := New("order-2024-002", decimal.NewFromInt(10), "", "sem moeda")
		assert.Equal(t, DefaultCurrency, txn.Currency)
		assert.Equal(t, "BRL", txn.Currency)
	})

	t.Run("GeneratesUniqueIDs", func(t *testing.T) {
		first := New("key-a", decimal.NewFromInt(1), "BRL", "a")
		second := New("key-a", decimal.NewFromInt(1), "BRL", "a")
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestTransaction_IsValid(t *testing.T) {
	valid := func() *Transaction {
		return New("order-2024-001", decimal.NewFromFloat(150.75), "BRL", "Pedido 2024-001")
	}

	t.Run("ValidTransaction", func(t *testing.T) {
		assert.True(t, valid().IsValid())
	})

	t.Run("BlankIdempotencyKey", func(t *testing.T) {
		txn := valid()
		txn.IdempotencyKey = "   "
		assert.False(t, txn.IsValid())
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		txn := valid()
		txn.Amount = decimal.Zero
		assert.False(t, txn.IsValid())
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		txn := valid()
		txn.Amount = decimal.NewFromInt(-5)
		assert.False(t, txn.IsValid())
	})

	t.Run("EmptyCurrency", func(t *testing.T) {
		txn := valid()
		txn.Currency = ""
		assert.False(t, txn.IsValid())
	})

	t.Run("EmptyDescription", func(t *testing.T) {
		txn := valid()
		txn.Description = ""
		assert.False(t, txn.IsValid())
	})
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrEmptyIdempotencyKey))
	assert.True(t, IsValidationError(ErrInvalidAmount))
	assert.True(t, IsValidationError(ErrInvalidTransaction))
	assert.False(t, IsValidationError(errors.New("connection refused")))
	assert.False(t, IsValidationError(ErrDuplicateKey{IdempotencyKey: "k"}))
	assert.False(t, IsValidationError(nil))
}

func TestErrDuplicateKey_Is(t *testing.T) {
	err := ErrDuplicateKey{IdempotencyKey: "order-2024-001"}

	assert.ErrorIs(t, err, ErrDuplicateKey{})
	assert.ErrorIs(t, err, ErrDuplicateKey{IdempotencyKey: "order-2024-001"})
	assert.NotErrorIs(t, err, ErrDuplicateKey{IdempotencyKey: "other"})
	assert.NotErrorIs(t, err, errors.New("transaction already exists"))
	assert.Contains(t, err.Error(), "order-2024-001")
}

func TestErrTransactionNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrTransactionNotFound{ID: id}

	assert.ErrorIs(t, err, ErrTransactionNotFound{})
	assert.ErrorIs(t, err, ErrTransactionNotFound{ID: id})
	assert.NotErrorIs(t, err, ErrTransactionNotFound{ID: uuid.New()})
	assert.Contains(t, err.Error(), id.String())
}
