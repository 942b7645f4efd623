package handler

import (
	"context"
	"fmt"

	"order-events/internal/service"
	"order-events/pkg/models"
)

// NewMessageBatchHandler adapts the consumer to broker transports. The
// returned error only summarises failures; per-record details are logged by
// the consumer.
func NewMessageBatchHandler(consumer *service.OrderConsumer) func(ctx context.Context, msgs []*models.Message) error {
	return func(ctx context.Context, msgs []*models.Message) error {
		records := make([]service.Record, 0, len(msgs))
		for _, m := range msgs {
			records = append(records, service.Record{
				MessageID: m.ID,
				Body:      string(m.Value),
			})
		}

		result := consumer.HandleBatch(ctx, records)
		if len(result.Failures) > 0 {
			return fmt.Errorf("%d of %d records failed", len(result.Failures), len(records))
		}
		return nil
	}
}
