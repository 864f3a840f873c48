package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/transaction-intake-service/internal/api_gateway/handler"
	"github.com/transaction-intake-service/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	queueHandler *handler.QueueHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// Transaction operations
	transactions := r.Group("/transactions")
	{
		transactions.POST("", transactionHandler.Create)
		transactions.POST("/async", transactionHandler.CreateAsync)
		transactions.GET("", transactionHandler.List)
		transactions.GET("/:id", transactionHandler.GetByID)
	}

	// Queue observability
	r.GET("/queue/stats", queueHandler.Stats)

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
