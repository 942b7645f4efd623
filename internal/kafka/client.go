package kafka

import (
	"context"
	"errors"
	"fmt"

	kafka "github.com/segmentio/kafka-go"
)

// Client checks broker reachability for readiness probes
type Client struct {
	brokers []string
}

func NewClient(brokers []string) *Client {
	return &Client{brokers: brokers}
}

// HealthCheck verifies that at least one broker answers a metadata request
func (c *Client) HealthCheck(ctx context.Context) error {
	if len(c.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}

	var lastErr error
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to broker %s: %w", broker, err)
			continue
		}

		_, err = conn.Brokers()
		conn.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read metadata from %s: %w", broker, err)
			continue
		}
		return nil
	}
	return lastErr
}
