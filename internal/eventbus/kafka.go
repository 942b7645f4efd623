package eventbus

import (
	"context"
	"fmt"

	"order-events/internal/kafka"
	"order-events/pkg/models"
)

// KafkaPublisher writes delivered events to a Kafka topic
type KafkaPublisher struct {
	producer kafka.ProducerClient
	client   *kafka.Client
	topic    string
	region   string
}

func NewKafkaPublisher(producer kafka.ProducerClient, client *kafka.Client, topic, region string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		client:   client,
		topic:    topic,
		region:   region,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, entry models.PutEventsEntry) (PublishResult, error) {
	event, data, key, err := encodeDelivered(entry, p.region)
	if err != nil {
		return PublishResult{}, fmt.Errorf("kafka publish: %w", err)
	}

	if err := p.producer.Publish(ctx, p.topic, key, data, deliveryHeaders(event, entry.EventBusName)); err != nil {
		return PublishResult{}, fmt.Errorf("kafka publish: %w", err)
	}
	return PublishResult{EventID: event.ID}, nil
}

func (p *KafkaPublisher) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.HealthCheck(ctx)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
