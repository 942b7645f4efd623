package handler

import (
	"context"

	"order-events/internal/service"

	"github.com/aws/aws-lambda-go/events"
)

// SQSHandler is the Lambda entry point of the consumer
type SQSHandler func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error)

// NewSQSHandler processes the batch and, when reportFailures is set, returns
// the failed message ids so the queue redelivers only those. It never
// returns an error, which would make the queue redeliver the whole batch.
func NewSQSHandler(consumer *service.OrderConsumer, reportFailures bool) SQSHandler {
	return func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		records := make([]service.Record, 0, len(event.Records))
		for _, r := range event.Records {
			records = append(records, service.Record{
				MessageID: r.MessageId,
				Body:      r.Body,
			})
		}

		result := consumer.HandleBatch(ctx, records)

		var resp events.SQSEventResponse
		if !reportFailures {
			return resp, nil
		}
		for _, id := range result.Failures {
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: id,
			})
		}
		return resp, nil
	}
}
