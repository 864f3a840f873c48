package job

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/transaction-intake-service/internal/domain/shared"
)

// Status defines job processing states
type Status string

const (
	StatusQueued    Status = "queued"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job tracks a queued creation request from enqueue to terminal state.
// The job ID equals the idempotency key of the request it carries, which
// is what makes a second enqueue with the same key a no-op.
type Job struct {
	ID            string          `json:"id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	LastError     string          `json:"last_error,omitempty"`
	TransactionID *uuid.UUID      `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewJob builds a queued job for the given creation request
func NewJob(req *shared.CreateRequest) (*Job, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Job{
		ID:        req.IdempotencyKey,
		Payload:   payload,
		Status:    StatusQueued,
		Attempts:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetCreateRequest extracts the creation request from the payload
func (j *Job) GetCreateRequest() (*shared.CreateRequest, error) {
	var req shared.CreateRequest
	if err := json.Unmarshal(j.Payload, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
