package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/transaction-intake-service/internal/config"
)

// CreateReqMessageProducer publishes transaction creation requests keyed by
// idempotency key, so all submissions for one key land on one partition.
type CreateReqMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewCreateReqMessageProducer creates the creation-request producer and
// ensures the topic exists. Writes are synchronous: an enqueue must learn
// about a failed publish, not fire and forget.
func NewCreateReqMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*CreateReqMessageProducer, error) {
	if cfg.TransactionTopic == "" {
		return nil, fmt.Errorf("kafka transaction topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for creation request producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.TransactionTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure transaction topic %s exists: %w", cfg.TransactionTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.TransactionTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &CreateReqMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.TransactionTopic,
	}, nil
}

func (p *CreateReqMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal creation request: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish creation request",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish creation request to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published creation request",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *CreateReqMessageProducer) Close() error {
	p.logger.Info("Closing creation request producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
