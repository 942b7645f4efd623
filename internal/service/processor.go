package service

import (
	"context"
	"time"

	"order-events/internal/observability"
	"order-events/pkg/models"

	"github.com/sirupsen/logrus"
)

// Processor is the business step run for every consumed order
type Processor interface {
	Process(ctx context.Context, order models.Order) error
}

// ProcessorFunc adapts a function to Processor
type ProcessorFunc func(ctx context.Context, order models.Order) error

func (f ProcessorFunc) Process(ctx context.Context, order models.Order) error {
	return f(ctx, order)
}

// SimulatedProcessor stands in for real work by waiting a fixed delay
type SimulatedProcessor struct {
	delay  time.Duration
	logger *logrus.Logger
}

func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{
		delay:  delay,
		logger: observability.GetLogger(),
	}
}

// Process waits for the configured delay or until ctx is done
func (p *SimulatedProcessor) Process(ctx context.Context, order models.Order) error {
	p.logger.WithFields(logrus.Fields{
		"order_id": order.OrderID,
		"delay":    p.delay.String(),
	}).Debug("Simulating order processing")

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
