package eventbus

import (
	"context"
	"errors"
	"fmt"

	"order-events/pkg/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
)

// ErrNoEventBus is returned when an entry names no destination bus
var ErrNoEventBus = errors.New("event bus name not configured")

// PutEventsAPI is the subset of the EventBridge client used for publishing
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// EventBridgePublisher submits entries with PutEvents
type EventBridgePublisher struct {
	client PutEventsAPI
}

// NewEventBridgePublisher creates an EventBridge publisher. If endpoint is
// non-empty it overrides the service endpoint (LocalStack and similar).
// An empty region is not rejected here; PutEvents fails instead.
func NewEventBridgePublisher(ctx context.Context, region, endpoint string) (*EventBridgePublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var opts []func(*eventbridge.Options)
	if endpoint != "" {
		opts = append(opts, func(o *eventbridge.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return NewEventBridgePublisherWithClient(eventbridge.NewFromConfig(cfg, opts...)), nil
}

func NewEventBridgePublisherWithClient(client PutEventsAPI) *EventBridgePublisher {
	return &EventBridgePublisher{client: client}
}

func (p *EventBridgePublisher) Publish(ctx context.Context, entry models.PutEventsEntry) (PublishResult, error) {
	if entry.EventBusName == "" {
		return PublishResult{}, ErrNoEventBus
	}

	out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				Source:       aws.String(entry.Source),
				DetailType:   aws.String(entry.DetailType),
				EventBusName: aws.String(entry.EventBusName),
				Detail:       aws.String(entry.Detail),
			},
		},
	})
	if err != nil {
		return PublishResult{}, fmt.Errorf("eventbridge put events: %w", err)
	}

	if out.FailedEntryCount > 0 || len(out.Entries) == 0 {
		return PublishResult{}, failedEntryError(out)
	}

	return PublishResult{EventID: aws.ToString(out.Entries[0].EventId)}, nil
}

func (p *EventBridgePublisher) Close() error {
	return nil
}

func failedEntryError(out *eventbridge.PutEventsOutput) error {
	if len(out.Entries) == 0 {
		return errors.New("eventbridge put events: no result entries")
	}
	e := out.Entries[0]
	return fmt.Errorf("eventbridge put events: entry rejected: %s: %s",
		aws.ToString(e.ErrorCode), aws.ToString(e.ErrorMessage))
}
