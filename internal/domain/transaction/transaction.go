package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied when a creation request omits the currency.
const DefaultCurrency = "BRL"

// Status defines transaction lifecycle states
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Transaction represents a single financial transaction. At most one
// transaction may exist per idempotency key; the storage layer enforces
// this with a unique constraint.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	IdempotencyKey string          `json:"idempotency_key"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// New creates a transaction with a fresh ID and current timestamps.
// An empty currency falls back to DefaultCurrency. The create flow only
// ever produces completed transactions; pending and failed are valid
// states but nothing here transitions into them.
func New(idempotencyKey string, amount decimal.Decimal, currency, description string) *Transaction {
	if currency == "" {
		currency = DefaultCurrency
	}

	now := time.Now()
	return &Transaction{
		ID:             uuid.New(),
		IdempotencyKey: idempotencyKey,
		Amount:         amount,
		Currency:       currency,
		Description:    description,
		Status:         StatusCompleted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsValid reports whether the transaction satisfies the entity invariants.
// It is a defense-in-depth check distinct from boundary validation and is
// consulted before any persistence attempt.
func (t *Transaction) IsValid() bool {
	return strings.TrimSpace(t.IdempotencyKey) != "" &&
		t.Amount.IsPositive() &&
		t.Currency != "" &&
		t.Description != ""
}
