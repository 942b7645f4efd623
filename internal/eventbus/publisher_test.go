package eventbus

import (
	"context"
	"testing"

	"order-events/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPublisher_Drivers(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg := &config.Config{}
	cfg.AWS.Region = "us-east-1"
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.Topic = "order-events"

	cfg.EventBus.Driver = config.DriverEventBridge
	pub, err := NewPublisher(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &EventBridgePublisher{}, pub)

	cfg.EventBus.Driver = config.DriverKafka
	pub, err = NewPublisher(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, pub)
	assert.NoError(t, pub.Close())

	cfg.EventBus.Driver = config.DriverNoop
	pub, err = NewPublisher(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &NoopPublisher{}, pub)
}

func TestKafkaProducerConfig_FromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"b1:9092", "b2:9092"}
	cfg.Kafka.Acks = 1

	pc := kafkaProducerConfig(cfg, zap.NewNop())

	assert.Equal(t, []string{"b1:9092", "b2:9092"}, pc.Brokers)
	assert.Equal(t, 1, pc.Acks)
	assert.NotNil(t, pc.Logger)
}

func TestNewPublisher_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.EventBus.Driver = "sns"

	_, err := NewPublisher(context.Background(), cfg, zap.NewNop())
	assert.EqualError(t, err, `unknown event bus driver "sns"`)
}

func TestNoopPublisher_Publish(t *testing.T) {
	pub := NewNoopPublisher()

	res, err := pub.Publish(context.Background(), testEntry())
	require.NoError(t, err)
	assert.NotEmpty(t, res.EventID)
	assert.NoError(t, pub.Close())
}

func TestMockPublisher_RecordsEntries(t *testing.T) {
	mock := NewMockPublisher()

	res, err := mock.Publish(context.Background(), testEntry())
	require.NoError(t, err)
	assert.Equal(t, "mock-event-id", res.EventID)
	assert.Len(t, mock.GetEntries(), 1)
}
