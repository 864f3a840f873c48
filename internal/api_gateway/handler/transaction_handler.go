package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/transaction-intake-service/internal/api_gateway/middleware"
	"github.com/transaction-intake-service/internal/domain/transaction"
	"github.com/transaction-intake-service/internal/service"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	enqueueService     service.EnqueueService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService, enqueueService service.EnqueueService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		enqueueService:     enqueueService,
		logger:             logger,
	}
}

// Create applies a creation request synchronously. A repeat submission
// with a known idempotency key is a success and returns the stored
// transaction, so retrying clients always get a 201.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	txn, err := h.transactionService.Create(c.Request.Context(), toCreateInput(c, &req))
	if err != nil {
		if transaction.IsValidationError(err) {
			h.logger.Error("Transaction rejected as invalid", "idempotency_key", req.IdempotencyKey, "error", err)
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to create transaction", "idempotency_key", req.IdempotencyKey, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// CreateAsync accepts a creation request for background processing and
// acknowledges immediately; completion is observed via the listing
func (h *TransactionHandler) CreateAsync(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	jobID, err := h.enqueueService.Enqueue(c.Request.Context(), toCreateInput(c, &req))
	if err != nil {
		h.logger.Error("Failed to enqueue transaction", "idempotency_key", req.IdempotencyKey, "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, EnqueueResponse{
		JobID:          jobID,
		IdempotencyKey: req.IdempotencyKey,
		Status:         "queued",
	})
}

// List retrieves a page of transactions, most recent first
func (h *TransactionHandler) List(c *gin.Context) {
	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	items, meta, err := h.transactionService.List(c.Request.Context(), pagination.Page, pagination.Limit)
	if err != nil {
		h.logger.Error("Failed to list transactions", "error", err)
		RespondInternalError(c)
		return
	}

	transactions := make([]TransactionResponse, 0, len(items))
	for _, txn := range items {
		transactions = append(transactions, mapTransactionToResponse(txn))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, meta)
}

// GetByID retrieves transaction details by its ID, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.transactionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if txn == nil {
		RespondNotFound(c, "Transaction not found")
		return
	}

	RespondOK(c, mapTransactionToResponse(txn))
}

func toCreateInput(c *gin.Context, req *CreateTransactionRequest) service.CreateTransactionInput {
	return service.CreateTransactionInput{
		IdempotencyKey: req.IdempotencyKey,
		Amount:         decimal.NewFromFloat(req.Amount),
		Currency:       req.Currency,
		Description:    req.Description,
		CorrelationID:  middleware.GetCorrelationID(c),
	}
}

// mapTransactionToResponse maps a transaction to its response DTO
func mapTransactionToResponse(txn *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             txn.ID.String(),
		IdempotencyKey: txn.IdempotencyKey,
		Amount:         txn.Amount.InexactFloat64(),
		Currency:       txn.Currency,
		Description:    txn.Description,
		Status:         string(txn.Status),
		CreatedAt:      txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      txn.UpdatedAt.Format(time.RFC3339),
	}
}
