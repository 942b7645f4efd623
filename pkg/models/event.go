package models

import (
	"encoding/json"
	"time"
)

// Envelope constants for order events
const (
	EventSource        = "app.orders"
	DetailTypeCreated  = "OrderCreated"
	EventSchemaVersion = "0"
)

// Event is the envelope as delivered by the bus to its targets.
// Detail is always a JSON object, never a JSON-encoded string.
type Event struct {
	Version    string          `json:"version"`
	ID         string          `json:"id"`
	DetailType string          `json:"detail-type"`
	Source     string          `json:"source"`
	Account    string          `json:"account,omitempty"`
	Time       time.Time       `json:"time"`
	Region     string          `json:"region,omitempty"`
	Resources  []string        `json:"resources"`
	Detail     json.RawMessage `json:"detail"`
}

// PutEventsEntry is the request shape submitted to the bus
type PutEventsEntry struct {
	Source       string `json:"Source"`
	DetailType   string `json:"DetailType"`
	EventBusName string `json:"EventBusName"`
	Detail       string `json:"Detail"`
}
