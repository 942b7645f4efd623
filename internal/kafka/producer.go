package kafka

import (
	"context"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProducerClient defines the interface for Kafka producer operations
type ProducerClient interface {
	Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
	Close() error
}

// Producer implements ProducerClient with a single synchronous write per call.
// Redelivery is left to the caller's platform, so the writer never retries.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

type ProducerConfig struct {
	Brokers      []string
	Acks         int // -1 for all (default), 1 for leader
	WriteTimeout time.Duration
	Logger       *zap.Logger
}

func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Acks == 0 {
		cfg.Acks = int(kafka.RequireAll)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequiredAcks(cfg.Acks),
		MaxAttempts:            1,
		WriteTimeout:           cfg.WriteTimeout,
		ReadTimeout:            10 * time.Second,
		AllowAutoTopicCreation: false,
		Async:                  false,
	}

	return &Producer{
		writer: writer,
		logger: cfg.Logger,
	}
}

// Publish writes one message to the given topic
func (p *Producer) Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error {
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}

	if headers != nil {
		msg.Headers = make([]kafka.Header, 0, len(headers))
		for k, v := range headers {
			msg.Headers = append(msg.Headers, kafka.Header{
				Key:   k,
				Value: []byte(v),
			})
		}
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message",
			zap.String("topic", topic),
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish message to %s: %w", topic, err)
	}

	p.logger.Debug("Message published successfully",
		zap.String("topic", topic),
		zap.String("key", key),
	)
	return nil
}

// Close flushes and shuts down the writer
func (p *Producer) Close() error {
	p.logger.Info("Closing producer")
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close producer: %w", err)
	}
	return nil
}
