package config

import "github.com/ilyakaznacheev/cleanenv"

// DefaultDatabaseURL is the fallback store when DATABASE_URL is not set.
const DefaultDatabaseURL = "postgres://user:password@db:5432/appdb?sslmode=disable"

// Config holds application configuration from environment.
type Config struct {
	HTTPPort       string   `env:"HTTP_PORT" env-default:"8080"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	DBPoolSize     int      `env:"DB_POOL_SIZE" env-default:"10"`
	DBMaxOverflow  int      `env:"DB_MAX_OVERFLOW" env-default:"20"`
	RequestTimeout int      `env:"REQUEST_TIMEOUT_SEC" env-default:"10"`
	RedisURL       string   `env:"REDIS_URL"`
	RedisPoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"100"`
	CacheTTL       int      `env:"CACHE_TTL_SEC" env-default:"300"`
	KafkaBrokers   []string `env:"KAFKA_BROKERS"`
	KafkaTopic     string   `env:"KAFKA_EVENTS_TOPIC" env-default:"record-events"`
	CORSOrigins    []string `env:"CORS_ORIGINS"`
}

// Load reads configuration from environment variables. REDIS_URL and
// KAFKA_BROKERS are optional; leaving them empty disables the cache and the
// event stream.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}
	return cfg, nil
}
