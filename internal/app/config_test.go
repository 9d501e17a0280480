package app

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTP addr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected metrics addr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.StorageDriver != StorageDriverMemory {
		t.Errorf("expected memory storage driver, got %s", cfg.StorageDriver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8181")
	t.Setenv("STORAGE_DRIVER", StorageDriverPostgres)
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/fulfillment")
	t.Setenv("KAFKA_BROKERS", "localhost:9092")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8181" {
		t.Errorf("expected HTTP addr :8181, got %s", cfg.HTTPAddr)
	}
	if cfg.StorageDriver != StorageDriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.StorageDriver)
	}
	if cfg.KafkaBrokers != "localhost:9092" {
		t.Errorf("expected kafka brokers, got %s", cfg.KafkaBrokers)
	}
	if cfg.OutboxPollInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms poll interval, got %s", cfg.OutboxPollInterval)
	}
}

func TestLoadConfig_BadPollInterval(t *testing.T) {
	t.Setenv("OUTBOX_POLL_INTERVAL", "often")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error for unparseable poll interval")
	}
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = StorageDriverPostgres

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for postgres driver without DSN")
	}

	cfg.PostgresDSN = "postgres://localhost:5432/fulfillment"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "cassandra"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown storage driver")
	}
}
