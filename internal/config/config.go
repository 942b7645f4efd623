package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AWS      AWSConfig
	EventBus EventBusConfig
	Kafka    KafkaConfig
	NATS     NATSConfig
	Logging  LoggingConfig
	Consumer ConsumerConfig
	HTTP     HTTPConfig
}

type AWSConfig struct {
	Region string
}

type EventBusConfig struct {
	Driver   string
	Name     string
	Endpoint string
}

type KafkaConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Acks      int
	BatchSize int
	BatchWait time.Duration
}

type NATSConfig struct {
	URL     string
	Subject string
}

type LoggingConfig struct {
	Level string
}

type ConsumerConfig struct {
	ProcessingDelay         time.Duration
	ReportBatchItemFailures bool
}

type HTTPConfig struct {
	Addr string
}

// Event bus drivers
const (
	DriverEventBridge = "eventbridge"
	DriverKafka       = "kafka"
	DriverNATS        = "nats"
	DriverNoop        = "noop"
)

// Load reads configuration from the environment. A .env file is optional;
// region and bus name are not validated here, a missing value surfaces as a
// publish failure.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}
	return &Config{
		AWS: AWSConfig{
			Region: os.Getenv("AWS_REGION"),
		},
		EventBus: EventBusConfig{
			Driver:   strings.ToLower(getEnv("EVENT_BUS_DRIVER", DriverEventBridge)),
			Name:     os.Getenv("EVENT_BUS_NAME"),
			Endpoint: os.Getenv("EVENTBRIDGE_ENDPOINT"),
		},
		Kafka: KafkaConfig{
			Brokers:   parseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:     getEnv("KAFKA_TOPIC", "order-events"),
			GroupID:   getEnv("KAFKA_GROUP_ID", "order-consumer"),
			Acks:      getEnvInt("KAFKA_ACKS", -1),
			BatchSize: getEnvInt("KAFKA_BATCH_SIZE", 10),
			BatchWait: getEnvDuration("KAFKA_BATCH_WAIT", time.Second),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://127.0.0.1:4222"),
			Subject: getEnv("NATS_SUBJECT", "orders.created"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Consumer: ConsumerConfig{
			ProcessingDelay:         getEnvDuration("PROCESSING_DELAY", time.Second),
			ReportBatchItemFailures: getEnvBool("REPORT_BATCH_ITEM_FAILURES", true),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, broker := range parts {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
