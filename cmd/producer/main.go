package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-events/internal/config"
	"order-events/internal/eventbus"
	"order-events/internal/handler"
	"order-events/internal/httpapi"
	"order-events/internal/observability"
	"order-events/internal/service"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

func main() {
	mode := flag.String("mode", "", "lambda or http (defaults to lambda inside the Lambda runtime, http otherwise)")
	flag.Parse()

	cfg := config.Load()
	observability.InitLogger(cfg.Logging.Level)
	logger := observability.GetLogger()

	zlog, err := observability.NewZapLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	// Built on first publish and reused by every later invocation
	bus := eventbus.NewLazyPublisher(func(ctx context.Context) (eventbus.Publisher, error) {
		return eventbus.NewPublisher(ctx, cfg, zlog)
	})

	metrics := observability.NewInMemoryMetrics()
	publisher := service.NewOrderPublisher(service.OrderPublisherConfig{
		Publisher:    bus,
		EventBusName: cfg.EventBus.Name,
		Logger:       logger,
		Metrics:      metrics,
	})

	switch resolveMode(*mode) {
	case "lambda":
		lambda.Start(handler.NewAPIGatewayHandler(publisher))
	case "http":
		if err := serveHTTP(cfg, publisher, bus, logger); err != nil {
			logger.WithError(err).Fatal("HTTP server failed")
		}
		logger.WithFields(metrics.Fields()).Info("Producer stopped")
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func resolveMode(mode string) string {
	if mode != "" {
		return mode
	}
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return "lambda"
	}
	return "http"
}

func serveHTTP(cfg *config.Config, publisher *service.OrderPublisher, bus *eventbus.LazyPublisher, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewServer(publisher, bus, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":   cfg.HTTP.Addr,
			"driver": cfg.EventBus.Driver,
		}).Info("🚀 Starting order producer")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown incomplete")
	}
	return bus.Close()
}
