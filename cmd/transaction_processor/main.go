package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/transaction-intake-service/internal/config"
	"github.com/transaction-intake-service/internal/data/postgres"
	"github.com/transaction-intake-service/internal/logger"
	"github.com/transaction-intake-service/internal/platform/messaging/consumers"
	"github.com/transaction-intake-service/internal/platform/messaging/producers"
	"github.com/transaction-intake-service/internal/platform/persistence"
	appservice "github.com/transaction-intake-service/internal/service"
	"github.com/transaction-intake-service/internal/transaction_processor/consumer"
	"github.com/transaction-intake-service/internal/transaction_processor/requeue"
	"github.com/transaction-intake-service/internal/transaction_processor/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("transaction_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Transaction Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	jobRepo := postgres.NewJobRepository(log, postgresDB)

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka producers. The request producer republishes stale
	// jobs; the DLQ producer receives exhausted and undecodable messages.
	requestProducer, err := producers.NewCreateReqMessageProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize Kafka request producer", "error", err)
		os.Exit(1)
	}

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}
	// dlqProducer might be nil if DLQTopic is not configured. Handler should be nil-safe.

	// The processor funnels queued requests through the same idempotent
	// create operation the gateway uses
	transactionService := appservice.NewTransactionService(log, transactionRepo)

	baseProcessingService := service.NewProcessingService(
		transactionService,
		jobRepo,
		dlqProducer,
		service.RetryConfig{
			MaxAttempts: cfg.JobRetry.MaxAttempts,
			BaseDelay:   cfg.JobRetry.BaseDelay,
		},
		log,
	)

	processingService, err := service.NewWorkerPoolProcessingService(
		baseProcessingService,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
		log,
	)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize creation request handler
	createRequestHandler := consumer.NewCreateRequestHandler(
		log,
		processingService,
		dlqProducer,
	)

	// Initialize requeue poller for jobs whose publish was lost
	poller := requeue.NewPoller(
		&cfg.Requeue,
		jobRepo,
		requestProducer,
		log,
	)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.TransactionTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.TransactionTopic, cfg.Kafka.ConsumerGroup, createRequestHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Start requeue poller in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shutdown the worker pool
	processingService.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Wait for all goroutines to finish
	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Close DLQ Kafka producer
	if dlqProducer != nil { // dlqProducer can be nil if DLQTopic was not configured
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	if err = requestProducer.Close(); err != nil {
		log.Error("Error closing Kafka request producer", "error", err)
	}

	// Close Kafka consumer
	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serviceErr != nil {
		log.Error("Transaction Processor shutdown with errors", "error", serviceErr)
	}
	if err != nil {
		log.Error("Transaction Processor shutdown completed with errors")
	} else {
		log.Info("Transaction Processor shutdown completed successfully")
	}
}
