package eventbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"order-events/pkg/models"

	"github.com/google/uuid"
)

// deliveredEvent renders an entry the way the managed bus hands it to its
// targets, so broker transports carry the same envelope as the queue does.
func deliveredEvent(entry models.PutEventsEntry, region string, now time.Time) (models.Event, error) {
	detail := json.RawMessage(entry.Detail)
	if !json.Valid(detail) || len(detail) == 0 || detail[0] != '{' {
		return models.Event{}, errors.New("detail must be a JSON object")
	}

	return models.Event{
		Version:    models.EventSchemaVersion,
		ID:         uuid.NewString(),
		DetailType: entry.DetailType,
		Source:     entry.Source,
		Time:       now.UTC(),
		Region:     region,
		Resources:  []string{},
		Detail:     detail,
	}, nil
}

// encodeDelivered returns the delivered event, its JSON form and a
// partition key taken from the order id when one is present.
func encodeDelivered(entry models.PutEventsEntry, region string) (models.Event, []byte, string, error) {
	event, err := deliveredEvent(entry, region, time.Now())
	if err != nil {
		return models.Event{}, nil, "", err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return models.Event{}, nil, "", fmt.Errorf("marshaling event: %w", err)
	}

	var keyed struct {
		OrderID string `json:"orderId"`
	}
	key := event.ID
	if err := json.Unmarshal(event.Detail, &keyed); err == nil && keyed.OrderID != "" {
		key = keyed.OrderID
	}
	return event, data, key, nil
}

func deliveryHeaders(event models.Event, bus string) map[string]string {
	return map[string]string{
		models.HeaderMessageID:   event.ID,
		models.HeaderDetailType:  event.DetailType,
		models.HeaderSource:      event.Source,
		models.HeaderEventBus:    bus,
		models.HeaderContentType: "application/json",
	}
}
