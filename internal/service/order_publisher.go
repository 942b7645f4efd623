package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"order-events/internal/eventbus"
	"order-events/internal/observability"
	"order-events/pkg/models"

	"github.com/sirupsen/logrus"
)

// Response bodies returned to producer callers
const (
	PublishedMessage   = "✅ OrderCreated event published!"
	PublishFailedError = "Failed to publish event"
)

// Response is the transport-neutral result of one producer invocation
type Response struct {
	StatusCode int
	Body       string
}

type createdBody struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

type errorBody struct {
	Error string `json:"error"`
}

// OrderPublisher turns an inbound request into one OrderCreated event
type OrderPublisher struct {
	publisher    eventbus.Publisher
	eventBusName string
	logger       *logrus.Logger
	metrics      observability.MetricsCollector
	now          func() time.Time
}

type OrderPublisherConfig struct {
	Publisher    eventbus.Publisher
	EventBusName string
	Logger       *logrus.Logger
	Metrics      observability.MetricsCollector
	Clock        func() time.Time
}

func NewOrderPublisher(cfg OrderPublisherConfig) *OrderPublisher {
	if cfg.Logger == nil {
		cfg.Logger = observability.GetLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewInMemoryMetrics()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &OrderPublisher{
		publisher:    cfg.Publisher,
		eventBusName: cfg.EventBusName,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		now:          cfg.Clock,
	}
}

// CreateOrder handles one request body and always produces a response.
// Failures are logged; callers only ever see a generic error body.
func (p *OrderPublisher) CreateOrder(ctx context.Context, body string) Response {
	order, err := p.publish(ctx, body)
	if err != nil {
		p.metrics.IncPublishFailed()
		p.logger.WithFields(logrus.Fields{
			"malformed":  IsMalformed(err),
			"dependency": IsDependency(err),
		}).WithError(err).Error("❌ Error publishing event")
		return FailedResponse()
	}

	p.metrics.IncPublished()
	return jsonResponse(http.StatusOK, createdBody{
		Message: PublishedMessage,
		OrderID: order.OrderID,
	})
}

func (p *OrderPublisher) publish(ctx context.Context, body string) (models.Order, error) {
	req, err := ParseCreateOrderRequest(body)
	if err != nil {
		return models.Order{}, err
	}

	order := NewOrder(req, p.now())
	entry, err := BuildEntry(order, p.eventBusName)
	if err != nil {
		return models.Order{}, err
	}

	p.logger.WithField("params", entry).Debug("Sending event")

	res, err := p.publisher.Publish(ctx, entry)
	if err != nil {
		return models.Order{}, &DependencyError{Err: err}
	}

	p.logger.WithField("response", res).Debug("Event bus response")
	p.logger.WithFields(logrus.Fields{
		"order_id": order.OrderID,
		"event_id": res.EventID,
	}).Info("OrderCreated event published")
	return order, nil
}

func jsonResponse(status int, v interface{}) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error":"` + PublishFailedError + `"}`,
		}
	}
	return Response{StatusCode: status, Body: string(body)}
}

// FailedResponse is the generic failure returned when a request cannot even
// reach CreateOrder.
func FailedResponse() Response {
	return jsonResponse(http.StatusInternalServerError, errorBody{Error: PublishFailedError})
}
