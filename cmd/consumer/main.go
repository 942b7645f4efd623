package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"order-events/internal/config"
	"order-events/internal/eventbus"
	"order-events/internal/handler"
	"order-events/internal/kafka"
	"order-events/internal/observability"
	"order-events/internal/service"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

func main() {
	mode := flag.String("mode", "", "lambda, kafka or nats (defaults to lambda inside the Lambda runtime, kafka otherwise)")
	flag.Parse()

	cfg := config.Load()
	observability.InitLogger(cfg.Logging.Level)
	logger := observability.GetLogger()

	zlog, err := observability.NewZapLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	metrics := observability.NewInMemoryMetrics()
	consumer := service.NewOrderConsumer(service.OrderConsumerConfig{
		Processor: service.NewSimulatedProcessor(cfg.Consumer.ProcessingDelay),
		Logger:    logger,
		Metrics:   metrics,
	})

	resolved := resolveMode(*mode)
	if resolved == "lambda" {
		lambda.Start(handler.NewSQSHandler(consumer, cfg.Consumer.ReportBatchItemFailures))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(logrus.Fields{
		"mode":  resolved,
		"delay": cfg.Consumer.ProcessingDelay.String(),
	}).Info("🚀 Starting order consumer")

	switch resolved {
	case "kafka":
		err = runKafka(ctx, cfg, consumer, zlog)
	case "nats":
		err = runNATS(ctx, cfg, consumer, zlog)
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.WithError(err).Fatal("Consumer failed")
	}

	logger.WithFields(metrics.Fields()).Info("Consumer stopped")
}

func resolveMode(mode string) string {
	if mode != "" {
		return mode
	}
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		return "lambda"
	}
	return "kafka"
}

func runKafka(ctx context.Context, cfg *config.Config, consumer *service.OrderConsumer, zlog *zap.Logger) error {
	kc := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:   cfg.Kafka.Brokers,
		Topic:     cfg.Kafka.Topic,
		GroupID:   cfg.Kafka.GroupID,
		BatchSize: cfg.Kafka.BatchSize,
		BatchWait: cfg.Kafka.BatchWait,
		Logger:    zlog,
	})
	defer kc.Close()

	return kc.Start(ctx, handler.NewMessageBatchHandler(consumer))
}

func runNATS(ctx context.Context, cfg *config.Config, consumer *service.OrderConsumer, zlog *zap.Logger) error {
	sub, err := eventbus.NewNATSSubscriber(cfg.NATS.URL, zlog)
	if err != nil {
		return err
	}
	defer sub.Close()

	return sub.Run(ctx, cfg.NATS.Subject, handler.NewMessageBatchHandler(consumer))
}
