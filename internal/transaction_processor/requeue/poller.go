// Package requeue recovers jobs whose enqueue wrote the job row but whose
// Kafka publish never landed, by republishing queued jobs past a minimum
// age. Republishing an already-delivered job is harmless: the create
// operation is idempotent.
package requeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/transaction-intake-service/internal/config"
	"github.com/transaction-intake-service/internal/domain/job"
	"github.com/transaction-intake-service/internal/platform/messaging/producers"
)

// Poller periodically republishes stale queued jobs
type Poller struct {
	jobRepo      job.Repository
	producer     producers.MessagePublisher
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
	minAge       time.Duration
}

func NewPoller(
	cfg *config.RequeueConfig,
	jobRepo job.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		jobRepo:      jobRepo,
		producer:     producer,
		logger:       logger,
		pollInterval: cfg.PollingInterval,
		batchSize:    cfg.BatchSize,
		minAge:       cfg.MinAge,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting requeue poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"min_age", p.minAge.String(),
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Requeue poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := p.republishStaleJobs(ctx); err != nil {
				p.logger.Error("Error during requeue batch", "error", err)
			}
		}
	}
}

func (p *Poller) republishStaleJobs(ctx context.Context) error {
	jobs, err := p.jobRepo.GetStale(ctx, p.minAge, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get stale jobs: %w", err)
	}

	if len(jobs) == 0 {
		p.logger.Debug("No stale queued jobs found.")
		return nil
	}

	p.logger.Info("Republishing stale queued jobs", "count", len(jobs))

	for _, j := range jobs {
		req, err := j.GetCreateRequest()
		if err != nil {
			p.logger.Error("Failed to decode stale job payload, skipping",
				"job_id", j.ID,
				"error", err,
			)
			continue
		}

		logger := p.logger
		if req.CorrelationID != "" {
			logger = p.logger.With("correlation_id", req.CorrelationID)
		}

		if err := p.producer.Publish(ctx, j.ID, req); err != nil {
			logger.Error("Failed to republish stale job",
				"job_id", j.ID,
				"error", err,
			)
			continue
		}

		logger.Info("Republished stale job", "job_id", j.ID, "queued_for", time.Since(j.CreatedAt).String())
	}
	return nil
}
