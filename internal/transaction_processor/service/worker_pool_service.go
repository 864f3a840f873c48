package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/transaction-intake-service/internal/domain/shared"
)

// WorkerPoolProcessingService bounds the number of creation requests being
// processed at once by pushing the base service through an ants pool.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessRequest submits the request to the worker pool and waits for the
// outcome, so the caller keeps the commit-on-success contract while
// concurrency stays capped at the pool size.
func (s *WorkerPoolProcessingService) ProcessRequest(ctx context.Context, request *shared.CreateRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Debug("Submitting creation request to worker pool",
		"job_id", request.IdempotencyKey,
	)

	resultChan := make(chan error, 1)

	// Copy the request to avoid sharing it with the caller's goroutine
	requestCopy := *request

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.ProcessRequest(ctx, &requestCopy)
		close(resultChan)
	})
	if err != nil {
		logger.Error("Failed to submit creation request to worker pool",
			"job_id", request.IdempotencyKey,
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
