package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order-events/pkg/models"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// BatchHandler processes a batch of consumed messages
type BatchHandler func(ctx context.Context, msgs []*models.Message) error

// ConsumerClient defines the interface for Kafka consumer operations
type ConsumerClient interface {
	Start(ctx context.Context, handler BatchHandler) error
	Close() error
}

// messageReader is the subset of *kafka.Reader the consumer depends on
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer groups fetched messages into batches and hands them to a
// BatchHandler one batch at a time. Offsets are committed after the handler
// returns, whatever its outcome, unless the consumer is shutting down.
type Consumer struct {
	reader    messageReader
	logger    *zap.Logger
	batchSize int
	batchWait time.Duration
}

type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	GroupID       string
	BatchSize     int
	BatchWait     time.Duration
	FetchMinBytes int
	FetchMaxBytes int
	Logger        *zap.Logger
}

func NewConsumer(cfg ConsumerConfig) *Consumer {
	if cfg.FetchMinBytes == 0 {
		cfg.FetchMinBytes = 1
	}
	if cfg.FetchMaxBytes == 0 {
		cfg.FetchMaxBytes = 10e6
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.FetchMinBytes,
		MaxBytes:       cfg.FetchMaxBytes,
		CommitInterval: 0, // Manual commits
		StartOffset:    kafka.LastOffset,
	})

	return newConsumer(reader, cfg)
}

func newConsumer(reader messageReader, cfg ConsumerConfig) *Consumer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.BatchWait <= 0 {
		cfg.BatchWait = time.Second
	}
	return &Consumer{
		reader:    reader,
		logger:    cfg.Logger,
		batchSize: cfg.BatchSize,
		batchWait: cfg.BatchWait,
	}
}

// Start consumes until ctx is cancelled
func (c *Consumer) Start(ctx context.Context, handler BatchHandler) error {
	c.logger.Info("Starting consumer",
		zap.Int("batch_size", c.batchSize),
		zap.Duration("batch_wait", c.batchWait),
	)

	for {
		batch, err := c.fetchBatch(ctx)
		if len(batch) > 0 {
			c.processBatch(ctx, batch, handler)
		}
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Consumer stopping due to context cancellation")
				return nil
			}
			c.logger.Error("Failed to fetch message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

// fetchBatch blocks for the first message, then lingers up to batchWait
// for the rest of the batch.
func (c *Consumer) fetchBatch(ctx context.Context) ([]kafka.Message, error) {
	first, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	batch := make([]kafka.Message, 0, c.batchSize)
	batch = append(batch, first)

	lingerCtx, cancel := context.WithTimeout(ctx, c.batchWait)
	defer cancel()

	for len(batch) < c.batchSize {
		msg, err := c.reader.FetchMessage(lingerCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return batch, nil
			}
			return batch, err
		}
		batch = append(batch, msg)
	}
	return batch, nil
}

func (c *Consumer) processBatch(ctx context.Context, batch []kafka.Message, handler BatchHandler) {
	msgs := make([]*models.Message, 0, len(batch))
	for _, m := range batch {
		msgs = append(msgs, c.toInternalMessage(m))
	}

	if err := handler(ctx, msgs); err != nil {
		c.logger.Error("Batch handler reported failures",
			zap.Int("batch_size", len(batch)),
			zap.Error(err),
		)
	}

	if ctx.Err() != nil {
		c.logger.Warn("Batch interrupted, leaving offsets uncommitted",
			zap.Int("batch_size", len(batch)),
		)
		return
	}

	commitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.reader.CommitMessages(commitCtx, batch...); err != nil {
		c.logger.Error("Failed to commit messages", zap.Error(err))
	}
}

// toInternalMessage converts Kafka message to internal format
func (c *Consumer) toInternalMessage(kafkaMsg kafka.Message) *models.Message {
	headers := make(map[string]string)
	for _, h := range kafkaMsg.Headers {
		headers[h.Key] = string(h.Value)
	}

	id := headers[models.HeaderMessageID]
	if id == "" {
		id = fmt.Sprintf("%s/%d/%d", kafkaMsg.Topic, kafkaMsg.Partition, kafkaMsg.Offset)
	}

	return &models.Message{
		ID:        id,
		Key:       string(kafkaMsg.Key),
		Value:     kafkaMsg.Value,
		Headers:   headers,
		Timestamp: kafkaMsg.Time,
	}
}

// Close gracefully shuts down the consumer
func (c *Consumer) Close() error {
	c.logger.Info("Closing consumer")
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("failed to close consumer: %w", err)
	}
	return nil
}
