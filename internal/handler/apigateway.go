// Package handler adapts the order services to their invocation sources:
// API Gateway and SQS events for Lambda, broker messages for local runs.
package handler

import (
	"context"
	"encoding/base64"

	"order-events/internal/observability"
	"order-events/internal/service"

	"github.com/aws/aws-lambda-go/events"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// APIGatewayHandler is the Lambda entry point of the producer
type APIGatewayHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// NewAPIGatewayHandler never returns an error to the runtime; every outcome
// is an HTTP response.
func NewAPIGatewayHandler(publisher *service.OrderPublisher) APIGatewayHandler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		body := req.Body
		if req.IsBase64Encoded && body != "" {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				observability.WithField("request_id", req.RequestContext.RequestID).
					WithError(err).Error("❌ Error decoding base64 request body")
				return proxyResponse(service.FailedResponse()), nil
			}
			body = string(decoded)
		}

		return proxyResponse(publisher.CreateOrder(ctx, body)), nil
	}
}

func proxyResponse(resp service.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    jsonHeaders,
		Body:       resp.Body,
	}
}
