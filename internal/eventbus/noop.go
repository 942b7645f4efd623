package eventbus

import (
	"context"

	"order-events/internal/observability"
	"order-events/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NoopPublisher logs entries without sending them anywhere. Useful for local
// runs of the producer before a bus exists.
type NoopPublisher struct {
	logger *logrus.Logger
}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{logger: observability.GetLogger()}
}

func (n *NoopPublisher) Publish(_ context.Context, entry models.PutEventsEntry) (PublishResult, error) {
	id := uuid.NewString()
	n.logger.WithFields(logrus.Fields{
		"event_id":    id,
		"source":      entry.Source,
		"detail_type": entry.DetailType,
		"detail":      entry.Detail,
	}).Debug("event::noop_publish")
	return PublishResult{EventID: id}, nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
