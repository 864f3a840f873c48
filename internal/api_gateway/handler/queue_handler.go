package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/transaction-intake-service/internal/service"
)

// QueueHandler exposes queue observability endpoints
type QueueHandler struct {
	enqueueService service.EnqueueService
	logger         *slog.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(logger *slog.Logger, enqueueService service.EnqueueService) *QueueHandler {
	return &QueueHandler{
		enqueueService: enqueueService,
		logger:         logger,
	}
}

// Stats reports job counts per processing state
func (h *QueueHandler) Stats(c *gin.Context) {
	stats, err := h.enqueueService.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get queue stats", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, QueueStatsResponse{
		Waiting:   stats.Waiting,
		Active:    stats.Active,
		Completed: stats.Completed,
		Failed:    stats.Failed,
	})
}
