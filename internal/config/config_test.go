package config_test

import (
	"testing"

	"todo-service/internal/config"
)

func TestLoad_DatabaseURLFallback(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != config.DefaultDatabaseURL {
		t.Fatalf("expected default DSN, got %q", cfg.DatabaseURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://app@localhost/app")
	t.Setenv("DB_POOL_SIZE", "5")
	t.Setenv("DB_MAX_OVERFLOW", "7")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("HTTPPort %q", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://app@localhost/app" {
		t.Fatalf("DatabaseURL %q", cfg.DatabaseURL)
	}
	if cfg.DBPoolSize != 5 || cfg.DBMaxOverflow != 7 {
		t.Fatalf("pool %d overflow %d", cfg.DBPoolSize, cfg.DBMaxOverflow)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers %v", cfg.KafkaBrokers)
	}
}
