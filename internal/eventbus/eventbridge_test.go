package eventbus

import (
	"context"
	"errors"
	"testing"

	"order-events/pkg/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutEvents struct {
	input *eventbridge.PutEventsInput
	out   *eventbridge.PutEventsOutput
	err   error
}

func (f *fakePutEvents) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.input = params
	return f.out, f.err
}

func testEntry() models.PutEventsEntry {
	return models.PutEventsEntry{
		Source:       models.EventSource,
		DetailType:   models.DetailTypeCreated,
		EventBusName: "orders-bus",
		Detail:       `{"orderId":"ORD-1","customer":"Alice","total":250}`,
	}
}

func TestEventBridgePublisher_Publish(t *testing.T) {
	fake := &fakePutEvents{out: &eventbridge.PutEventsOutput{
		Entries: []types.PutEventsResultEntry{{EventId: aws.String("evt-123")}},
	}}
	pub := NewEventBridgePublisherWithClient(fake)

	res, err := pub.Publish(context.Background(), testEntry())
	require.NoError(t, err)
	assert.Equal(t, "evt-123", res.EventID)

	require.NotNil(t, fake.input)
	require.Len(t, fake.input.Entries, 1)
	sent := fake.input.Entries[0]
	assert.Equal(t, "app.orders", aws.ToString(sent.Source))
	assert.Equal(t, "OrderCreated", aws.ToString(sent.DetailType))
	assert.Equal(t, "orders-bus", aws.ToString(sent.EventBusName))
	assert.JSONEq(t, `{"orderId":"ORD-1","customer":"Alice","total":250}`, aws.ToString(sent.Detail))
}

func TestEventBridgePublisher_ClientError(t *testing.T) {
	fake := &fakePutEvents{err: errors.New("connection refused")}
	pub := NewEventBridgePublisherWithClient(fake)

	_, err := pub.Publish(context.Background(), testEntry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eventbridge put events")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestEventBridgePublisher_FailedEntry(t *testing.T) {
	fake := &fakePutEvents{out: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{{
			ErrorCode:    aws.String("InternalFailure"),
			ErrorMessage: aws.String("try again"),
		}},
	}}
	pub := NewEventBridgePublisherWithClient(fake)

	_, err := pub.Publish(context.Background(), testEntry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InternalFailure")
}

func TestEventBridgePublisher_MissingBusName(t *testing.T) {
	fake := &fakePutEvents{}
	pub := NewEventBridgePublisherWithClient(fake)

	entry := testEntry()
	entry.EventBusName = ""

	_, err := pub.Publish(context.Background(), entry)
	assert.ErrorIs(t, err, ErrNoEventBus)
	assert.Nil(t, fake.input)
}

func TestNewEventBridgePublisher_EndpointOverride(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	pub, err := NewEventBridgePublisher(context.Background(), "us-east-1", "http://localhost:4566")
	require.NoError(t, err)

	client, ok := pub.client.(*eventbridge.Client)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:4566", aws.ToString(client.Options().BaseEndpoint))
	assert.Equal(t, "us-east-1", client.Options().Region)
}
