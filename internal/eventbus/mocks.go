package eventbus

import (
	"context"
	"sync"

	"order-events/pkg/models"
)

// MockPublisher is a mock implementation of Publisher for testing
type MockPublisher struct {
	mu          sync.RWMutex
	Entries     []models.PutEventsEntry
	PublishFunc func(ctx context.Context, entry models.PutEventsEntry) (PublishResult, error)
	Err         error
	EventID     string
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{EventID: "mock-event-id"}
}

func (m *MockPublisher) Publish(ctx context.Context, entry models.PutEventsEntry) (PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Entries = append(m.Entries, entry)

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, entry)
	}
	if m.Err != nil {
		return PublishResult{}, m.Err
	}
	return PublishResult{EventID: m.EventID}, nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func (m *MockPublisher) GetEntries() []models.PutEventsEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]models.PutEventsEntry, len(m.Entries))
	copy(entries, m.Entries)
	return entries
}
