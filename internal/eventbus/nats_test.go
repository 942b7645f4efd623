package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"order-events/pkg/models"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// startTestNATS starts an embedded NATS server and returns its client URL.
func startTestNATS(t *testing.T) string {
	t.Helper()
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	require.NoError(t, err)
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}
	return srv.ClientURL()
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
	var _ HealthChecker = (*NATSPublisher)(nil)
}

func TestNATS_PublishSubscribeRoundTrip(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewNATSSubscriber(url, nil)
	require.NoError(t, err)
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("orders.created")
	require.NoError(t, err)
	defer cancel()

	pub, err := NewNATSPublisher(url, "orders.created", "us-east-1")
	require.NoError(t, err)
	defer pub.Close()

	require.NoError(t, pub.HealthCheck(context.Background()))

	res, err := pub.Publish(context.Background(), testEntry())
	require.NoError(t, err)

	select {
	case msg := <-ch:
		assert.Equal(t, res.EventID, msg.ID)
		assert.Equal(t, "OrderCreated", msg.Headers[models.HeaderDetailType])

		var event models.Event
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		assert.Equal(t, res.EventID, event.ID)
		assert.JSONEq(t, `{"orderId":"ORD-1","customer":"Alice","total":250}`, string(event.Detail))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestNATSSubscriber_Run(t *testing.T) {
	url := startTestNATS(t)

	sub, err := NewNATSSubscriber(url, nil)
	require.NoError(t, err)
	defer sub.Close()

	pub, err := NewNATSPublisher(url, "orders.created", "")
	require.NoError(t, err)
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan []*models.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, "orders.created", func(ctx context.Context, msgs []*models.Message) error {
			select {
			case received <- msgs:
			default:
			}
			return nil
		})
	}()

	// Run subscribes asynchronously; publish until the first message lands.
	var msgs []*models.Message
	for msgs == nil {
		_, err := pub.Publish(context.Background(), testEntry())
		require.NoError(t, err)
		select {
		case msgs = <-received:
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			t.Fatal("timed out waiting for subscriber")
		}
	}
	cancel()

	assert.Len(t, msgs, 1)
	require.NoError(t, <-done)
}

func TestNATSSubscriber_RunLogsHandlerFailure(t *testing.T) {
	url := startTestNATS(t)

	core, logs := observer.New(zapcore.ErrorLevel)
	sub, err := NewNATSSubscriber(url, zap.New(core))
	require.NoError(t, err)
	defer sub.Close()

	pub, err := NewNATSPublisher(url, "orders.created", "")
	require.NoError(t, err)
	defer pub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, "orders.created", func(ctx context.Context, msgs []*models.Message) error {
			return errors.New("1 of 1 records failed")
		})
	}()

	for logs.Len() == 0 {
		_, err := pub.Publish(context.Background(), testEntry())
		require.NoError(t, err)
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			t.Fatal("timed out waiting for failure log")
		}
	}
	cancel()
	require.NoError(t, <-done)

	entry := logs.All()[0]
	assert.Equal(t, "Batch handler reported failures", entry.Message)
	assert.Equal(t, "1 of 1 records failed", entry.ContextMap()["error"])
	assert.NotEmpty(t, entry.ContextMap()["message_id"])
}
