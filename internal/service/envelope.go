package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"order-events/pkg/models"
)

// NewOrder applies the producer defaults to req. Empty customer and zero
// total count as absent.
func NewOrder(req models.CreateOrderRequest, now time.Time) models.Order {
	order := models.Order{
		OrderID:  fmt.Sprintf("%s%d", models.OrderIDPrefix, now.UnixMilli()),
		Customer: req.Customer,
		Total:    req.Total,
	}
	if order.Customer == "" {
		order.Customer = models.DefaultCustomer
	}
	if order.Total == 0 {
		order.Total = models.DefaultTotal
	}
	return order
}

// ParseCreateOrderRequest decodes an optional request body. Only an absent
// body yields the empty request; anything else must be valid JSON. The JSON
// literal null is rejected, and any other non-object value carries no fields
// and yields the defaults.
func ParseCreateOrderRequest(body string) (models.CreateOrderRequest, error) {
	var req models.CreateOrderRequest
	if body == "" {
		return req, nil
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return models.CreateOrderRequest{}, malformed("decode request body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return models.CreateOrderRequest{}, malformed("request body is null")
	case raw[0] != '{':
		return req, nil
	}

	if err := json.Unmarshal(raw, &req); err != nil {
		return models.CreateOrderRequest{}, malformed("decode request body: %w", err)
	}
	return req, nil
}

// BuildEntry wraps order in the OrderCreated envelope for bus
func BuildEntry(order models.Order, bus string) (models.PutEventsEntry, error) {
	detail, err := json.Marshal(order)
	if err != nil {
		return models.PutEventsEntry{}, fmt.Errorf("encode order detail: %w", err)
	}
	return models.PutEventsEntry{
		Source:       models.EventSource,
		DetailType:   models.DetailTypeCreated,
		EventBusName: bus,
		Detail:       string(detail),
	}, nil
}

// DecodeOrder extracts the order from a delivered event body. The detail
// must be a JSON object; a JSON-encoded string is rejected.
func DecodeOrder(body []byte) (models.Order, error) {
	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return models.Order{}, malformed("decode envelope: %w", err)
	}

	if event.Source != "" && event.Source != models.EventSource {
		return models.Order{}, malformed("unexpected event source %q", event.Source)
	}
	if event.DetailType != "" && event.DetailType != models.DetailTypeCreated {
		return models.Order{}, malformed("unexpected detail type %q", event.DetailType)
	}

	detail := bytes.TrimSpace(event.Detail)
	if len(detail) == 0 || bytes.Equal(detail, []byte("null")) {
		return models.Order{}, malformed("envelope has no detail")
	}

	var order models.Order
	if err := json.Unmarshal(detail, &order); err != nil {
		return models.Order{}, malformed("decode detail: %w", err)
	}
	if order.OrderID == "" {
		return models.Order{}, malformed("detail has no orderId")
	}
	return order, nil
}
