package handler

// CreateTransactionRequest represents a request to create a new transaction.
// Currency is optional; an empty value falls back to the BRL default. The
// closed currency set is enforced here at the boundary, not by the entity.
type CreateTransactionRequest struct {
	IdempotencyKey string  `json:"idempotency_key" binding:"required"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Currency       string  `json:"currency" binding:"omitempty,oneof=BRL USD EUR"`
	Description    string  `json:"description" binding:"required,max=200"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID             string  `json:"id"`
	IdempotencyKey string  `json:"idempotency_key"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// EnqueueResponse acknowledges an accepted asynchronous creation request
type EnqueueResponse struct {
	JobID          string `json:"job_id"`
	IdempotencyKey string `json:"idempotency_key"`
	Status         string `json:"status"`
}

// QueueStatsResponse reports job counts per processing state
type QueueStatsResponse struct {
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page  int `form:"page,default=1" binding:"min=1"`
	Limit int `form:"limit,default=10" binding:"min=1,max=100"`
}
