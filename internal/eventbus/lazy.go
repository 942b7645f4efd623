package eventbus

import (
	"context"
	"fmt"
	"sync"

	"order-events/pkg/models"
)

// LazyPublisher builds its underlying publisher on first use and reuses it
// for the life of the process. A failed build is retried on the next call.
type LazyPublisher struct {
	mu      sync.Mutex
	factory func(ctx context.Context) (Publisher, error)
	pub     Publisher
}

func NewLazyPublisher(factory func(ctx context.Context) (Publisher, error)) *LazyPublisher {
	return &LazyPublisher{factory: factory}
}

func (l *LazyPublisher) get(ctx context.Context) (Publisher, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pub != nil {
		return l.pub, nil
	}
	pub, err := l.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing event bus client: %w", err)
	}
	l.pub = pub
	return pub, nil
}

func (l *LazyPublisher) Publish(ctx context.Context, entry models.PutEventsEntry) (PublishResult, error) {
	pub, err := l.get(ctx)
	if err != nil {
		return PublishResult{}, err
	}
	return pub.Publish(ctx, entry)
}

func (l *LazyPublisher) HealthCheck(ctx context.Context) error {
	pub, err := l.get(ctx)
	if err != nil {
		return err
	}
	if hc, ok := pub.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (l *LazyPublisher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pub == nil {
		return nil
	}
	err := l.pub.Close()
	l.pub = nil
	return err
}
