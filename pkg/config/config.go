package config

import (
	"fmt"
	"log/slog"
	"time"
)

// Config holds everything the gallery service resolves from the environment
// at startup.
type Config struct {
	ServiceName string
	Environment string
	Port        string

	// Mongo
	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration
	MongoQueryTimeout   time.Duration

	// HTTP server
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	MaxRequestSize  int64

	// Logging
	LogLevel  string
	LogFormat string

	// Slot locks
	LockTTL           time.Duration
	LockRetryAttempts int
	LockRetryBackoff  time.Duration

	// Rate limiting
	RateLimitPerMinute int

	// Idempotency
	IdempotencyTTL time.Duration

	// Kafka (optional; publishing is disabled when no brokers are set)
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads the configuration for the named service from environment
// variables, applying defaults for anything unset.
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		ServiceName: serviceName,
		Environment: getEnv("ENVIRONMENT", defaultEnvironment),
		Port:        getEnv("PORT", defaultPort),

		MongoURI:            getEnv("MONGO_URI", defaultMongoURI),
		MongoDatabase:       getEnv("MONGO_DATABASE", defaultMongoDatabase),
		MongoConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", defaultMongoConnectTimeout),
		MongoQueryTimeout:   getEnvDuration("MONGO_QUERY_TIMEOUT", defaultMongoQueryTimeout),

		ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", defaultReadTimeout),
		WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", defaultWriteTimeout),
		IdleTimeout:     getEnvDuration("HTTP_IDLE_TIMEOUT", defaultIdleTimeout),
		ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		RequestTimeout:  getEnvDuration("HTTP_REQUEST_TIMEOUT", defaultRequestTimeout),
		MaxRequestSize:  getEnvInt64("HTTP_MAX_REQUEST_SIZE", defaultMaxRequestSize),

		LogLevel:  getEnv("LOG_LEVEL", defaultLogLevel),
		LogFormat: getEnv("LOG_FORMAT", defaultLogFormat),

		LockTTL:           getEnvDuration("LOCK_TTL", defaultLockTTL),
		LockRetryAttempts: getEnvInt("LOCK_RETRY_ATTEMPTS", defaultLockRetryAttempts),
		LockRetryBackoff:  getEnvDuration("LOCK_RETRY_BACKOFF", defaultLockRetryBackoff),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute),

		IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", defaultIdempotencyTTL),

		KafkaBrokers: getEnvSlice("KAFKA_BROKERS", nil),
		KafkaTopic:   getEnv("KAFKA_TOPIC", defaultKafkaTopic),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks internal consistency of the loaded configuration.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDatabase == "" {
		return fmt.Errorf("MONGO_DATABASE is required")
	}
	if c.MongoQueryTimeout <= 0 {
		return fmt.Errorf("MONGO_QUERY_TIMEOUT must be positive")
	}
	if c.MaxRequestSize <= 0 {
		return fmt.Errorf("HTTP_MAX_REQUEST_SIZE must be positive")
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}
	if c.LockRetryAttempts < 0 {
		return fmt.Errorf("LOCK_RETRY_ATTEMPTS must not be negative")
	}
	if c.LockRetryBackoff <= 0 {
		return fmt.Errorf("LOCK_RETRY_BACKOFF must be positive")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// EventsEnabled reports whether event publishing is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// LogConfiguration logs the effective configuration at startup, omitting
// credentials.
func (c *Config) LogConfiguration(log *slog.Logger) {
	log.Info("configuration loaded",
		slog.String("service", c.ServiceName),
		slog.String("environment", c.Environment),
		slog.String("port", c.Port),
		slog.String("mongo_database", c.MongoDatabase),
		slog.Duration("mongo_query_timeout", c.MongoQueryTimeout),
		slog.Duration("request_timeout", c.RequestTimeout),
		slog.Int64("max_request_size", c.MaxRequestSize),
		slog.Duration("lock_ttl", c.LockTTL),
		slog.Int("lock_retry_attempts", c.LockRetryAttempts),
		slog.Duration("lock_retry_backoff", c.LockRetryBackoff),
		slog.Int("rate_limit_per_minute", c.RateLimitPerMinute),
		slog.Bool("events_enabled", c.EventsEnabled()),
	)
}
