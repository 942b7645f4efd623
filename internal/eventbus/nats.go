package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"order-events/pkg/models"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes delivered events to a NATS subject
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	region  string
}

func NewNATSPublisher(url, subject, region string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSPublisher{conn: nc, subject: subject, region: region}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, entry models.PutEventsEntry) (PublishResult, error) {
	event, data, _, err := encodeDelivered(entry, p.region)
	if err != nil {
		return PublishResult{}, fmt.Errorf("nats publish: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	for k, v := range deliveryHeaders(event, entry.EventBusName) {
		msg.Header.Set(k, v)
	}

	if err := p.conn.PublishMsg(msg); err != nil {
		return PublishResult{}, fmt.Errorf("nats publish: %w", err)
	}
	// Flush so a dead connection is reported to this caller.
	// FlushWithContext requires a deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return PublishResult{}, fmt.Errorf("nats flush: %w", err)
	}
	return PublishResult{EventID: event.ID}, nil
}

func (p *NATSPublisher) HealthCheck(ctx context.Context) error {
	if !p.conn.IsConnected() {
		return errors.New("nats connection is not established")
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

// NATSSubscriber receives delivered events from a NATS subject
type NATSSubscriber struct {
	conn   *nats.Conn
	logger *zap.Logger
}

// NewNATSSubscriber connects to NATS with automatic reconnection support.
func NewNATSSubscriber(url string, logger *zap.Logger, opts ...nats.Option) (*NATSSubscriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSSubscriber{conn: nc, logger: logger}, nil
}

// Subscribe returns a channel of messages for subject. Call the returned
// cancel function to unsubscribe and close the channel.
func (s *NATSSubscriber) Subscribe(subject string) (<-chan *models.Message, func(), error) {
	ch := make(chan *models.Message, 64)

	var (
		mu     sync.Mutex
		closed bool
		once   sync.Once
	)

	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		// Blocks the NATS dispatcher when the consumer falls behind, which
		// pushes back on the slow-consumer limit instead of dropping events.
		ch <- toInternalMessage(msg)
	})
	if err != nil {
		close(ch)
		return nil, nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	if err := s.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(ch)
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			// Drain so a blocked callback can finish before closing.
			go func() {
				for range ch {
				}
			}()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}

	return ch, cancel, nil
}

// Run feeds every message on subject to handler as a batch of one until
// ctx is cancelled.
func (s *NATSSubscriber) Run(ctx context.Context, subject string, handler func(context.Context, []*models.Message) error) error {
	ch, cancel, err := s.Subscribe(subject)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := handler(ctx, []*models.Message{msg}); err != nil {
				s.logger.Error("Batch handler reported failures",
					zap.String("message_id", msg.ID),
					zap.Error(err),
				)
			}
		}
	}
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}

func toInternalMessage(msg *nats.Msg) *models.Message {
	headers := make(map[string]string, len(msg.Header))
	for k := range msg.Header {
		headers[k] = msg.Header.Get(k)
	}
	return &models.Message{
		ID:        headers[models.HeaderMessageID],
		Key:       msg.Subject,
		Value:     msg.Data,
		Headers:   headers,
		Timestamp: time.Now(),
	}
}
