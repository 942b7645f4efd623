package models

import "time"

// Message represents a message on a broker transport (Kafka, NATS)
type Message struct {
	ID        string            `json:"id"`
	Key       string            `json:"key"`
	Value     []byte            `json:"value"`
	Headers   map[string]string `json:"headers"`
	Timestamp time.Time         `json:"timestamp"`
}

// MessageHeader constants
const (
	HeaderMessageID   = "message-id"
	HeaderDetailType  = "detail-type"
	HeaderSource      = "source"
	HeaderEventBus    = "event-bus"
	HeaderContentType = "content-type"
)
