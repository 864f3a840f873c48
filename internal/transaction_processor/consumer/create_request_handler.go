package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/transaction-intake-service/internal/domain/shared"
	"github.com/transaction-intake-service/internal/platform/messaging/producers"
	"github.com/transaction-intake-service/internal/transaction_processor/service"
)

// CreateRequestHandler handles incoming creation request messages from Kafka
type CreateRequestHandler struct {
	processingService service.ProcessingService
	dlqProducer       producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewCreateRequestHandler creates a new handler
func NewCreateRequestHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	dlqProducer producers.DeadLetterPublisher,
) *CreateRequestHandler {
	return &CreateRequestHandler{
		processingService: processingService,
		dlqProducer:       dlqProducer,
		logger:            logger,
	}
}

// HandleMessage decodes and processes one queued creation request.
// Undecodable messages go to the DLQ so they stop blocking the partition.
func (h *CreateRequestHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.CreateRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal creation request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.dlqProducer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.dlqProducer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				// Message handled, commit offset
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received creation request for processing",
		"job_id", request.IdempotencyKey,
		"amount", request.Amount.String(),
		"currency", request.Currency,
	)

	if err := h.processingService.ProcessRequest(ctx, &request); err != nil {
		logger.Error("Failed to process creation request",
			"job_id", request.IdempotencyKey,
			"error", err,
		)
		return fmt.Errorf("processing creation request %s failed: %w", request.IdempotencyKey, err)
	}

	return nil // Success, commit offset
}
