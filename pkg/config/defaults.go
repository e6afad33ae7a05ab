package config

import "time"

const (
	defaultEnvironment = "development"
	defaultPort        = "8080"

	defaultMongoURI            = "mongodb://localhost:27017"
	defaultMongoDatabase       = "galleria"
	defaultMongoConnectTimeout = 10 * time.Second
	defaultMongoQueryTimeout   = 5 * time.Second

	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultMaxRequestSize  = 1 << 20 // 1 MiB

	defaultLogLevel  = "info"
	defaultLogFormat = "json"

	defaultLockTTL           = 30 * time.Second
	defaultLockRetryAttempts = 3
	defaultLockRetryBackoff  = 50 * time.Millisecond

	defaultRateLimitPerMinute = 120

	defaultIdempotencyTTL = 10 * time.Minute

	defaultKafkaTopic = "gallery.exhibitions"
)
