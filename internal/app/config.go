package app

import (
	"fmt"
	"os"
	"time"
)

const (
	// StorageDriverMemory — in-memory хранилище для локальной разработки.
	StorageDriverMemory = "memory"
	// StorageDriverPostgres — PostgreSQL.
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver string
	PostgresDSN   string

	KafkaBrokers string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

// DefaultConfig возвращает настройки для локального запуска без внешних
// зависимостей: in-memory хранилище, без Kafka.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		StorageDriver:      StorageDriverMemory,
		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
	}
}

// LoadConfig читает настройки из окружения поверх дефолтов.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("OUTBOX_POLL_INTERVAL"); v != "" {
		interval, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse OUTBOX_POLL_INTERVAL: %w", err)
		}
		cfg.OutboxPollInterval = interval
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.StorageDriver)
	}
	return nil
}
