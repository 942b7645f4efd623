// Package eventbus publishes order events to the configured bus and
// normalises every transport onto the delivered event envelope.
package eventbus

import (
	"context"
	"fmt"

	"order-events/internal/config"
	"order-events/internal/kafka"
	"order-events/pkg/models"

	"go.uber.org/zap"
)

// PublishResult carries what the bus reported for an accepted entry
type PublishResult struct {
	EventID string `json:"eventId"`
}

// Publisher is the interface for submitting an entry to the event bus.
// Implementations make exactly one attempt per call.
type Publisher interface {
	Publish(ctx context.Context, entry models.PutEventsEntry) (PublishResult, error)
	Close() error
}

// HealthChecker is implemented by publishers that can probe their backend
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewPublisher builds the publisher selected by cfg.EventBus.Driver
func NewPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Publisher, error) {
	switch cfg.EventBus.Driver {
	case config.DriverEventBridge:
		return NewEventBridgePublisher(ctx, cfg.AWS.Region, cfg.EventBus.Endpoint)
	case config.DriverKafka:
		producer := kafka.NewProducer(kafkaProducerConfig(cfg, logger))
		return NewKafkaPublisher(producer, kafka.NewClient(cfg.Kafka.Brokers), cfg.Kafka.Topic, cfg.AWS.Region), nil
	case config.DriverNATS:
		return NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, cfg.AWS.Region)
	case config.DriverNoop:
		return NewNoopPublisher(), nil
	default:
		return nil, fmt.Errorf("unknown event bus driver %q", cfg.EventBus.Driver)
	}
}

func kafkaProducerConfig(cfg *config.Config, logger *zap.Logger) kafka.ProducerConfig {
	return kafka.ProducerConfig{
		Brokers: cfg.Kafka.Brokers,
		Acks:    cfg.Kafka.Acks,
		Logger:  logger,
	}
}
