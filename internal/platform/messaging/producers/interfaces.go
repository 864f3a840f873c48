package producers

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// MessagePublisher publishes creation requests keyed by idempotency key.
// Both the gateway enqueue path and the requeue poller depend on it.
type MessagePublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// DeadLetterPublisher parks messages that exhausted processing or failed to decode
type DeadLetterPublisher interface {
	PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error
	Close() error
}

// KafkaWriter is the slice of kafka.Writer the producers use, extracted for tests
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
