package shared

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequest defines a queued transaction creation request. The
// idempotency key doubles as the job identity, so repeat submissions
// coalesce at the queue layer before a worker ever sees them.
type CreateRequest struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	CorrelationID  string          `json:"correlation_id,omitempty"`
	EnqueuedAt     time.Time       `json:"enqueued_at"`
}
