package service

import (
	"context"

	"order-events/internal/observability"

	"github.com/sirupsen/logrus"
)

// Record is one queued notification; Body holds the delivered event JSON
type Record struct {
	MessageID string
	Body      string
}

// BatchResult summarises a batch. Failures holds the MessageIDs of records
// that were not processed, in arrival order.
type BatchResult struct {
	Processed int
	Failures  []string
}

// OrderConsumer processes batches of OrderCreated notifications
type OrderConsumer struct {
	processor Processor
	logger    *logrus.Logger
	metrics   observability.MetricsCollector
}

type OrderConsumerConfig struct {
	Processor Processor
	Logger    *logrus.Logger
	Metrics   observability.MetricsCollector
}

func NewOrderConsumer(cfg OrderConsumerConfig) *OrderConsumer {
	if cfg.Logger == nil {
		cfg.Logger = observability.GetLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewInMemoryMetrics()
	}
	return &OrderConsumer{
		processor: cfg.Processor,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// HandleBatch processes records sequentially. A failing record is logged
// and skipped; it never stops the rest of the batch. Once ctx is done the
// remaining records are reported as failures without being processed.
func (c *OrderConsumer) HandleBatch(ctx context.Context, records []Record) BatchResult {
	c.logger.WithField("records", len(records)).Info("Received batch")

	var result BatchResult
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			c.logger.WithError(err).WithField("remaining", len(records)-i).
				Warn("Batch interrupted, leaving remaining records to the queue")
			for _, rest := range records[i:] {
				result.Failures = append(result.Failures, rest.MessageID)
			}
			break
		}

		c.metrics.IncReceived()
		if err := c.handleRecord(ctx, record); err != nil {
			c.metrics.IncFailed()
			c.logger.WithFields(logrus.Fields{
				"message_id": record.MessageID,
				"malformed":  IsMalformed(err),
			}).WithError(err).Error("❌ Error processing record")
			result.Failures = append(result.Failures, record.MessageID)
			continue
		}

		c.metrics.IncProcessed()
		result.Processed++
	}
	return result
}

func (c *OrderConsumer) handleRecord(ctx context.Context, record Record) error {
	order, err := DecodeOrder([]byte(record.Body))
	if err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"message_id": record.MessageID,
		"order_id":   order.OrderID,
	}).Info("📦 Processing order")

	if err := c.processor.Process(ctx, order); err != nil {
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"message_id": record.MessageID,
		"order_id":   order.OrderID,
		"customer":   order.Customer,
	}).Info("✅ Order processed")
	return nil
}
