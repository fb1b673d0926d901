package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr  = "127.0.0.1:8080"
	DefaultRateLimit = 20

	DefaultCodeTTL        = 5 * time.Minute
	DefaultResendInterval = time.Minute
	DefaultMaxAttempts    = 3
	DefaultRedisAddr      = "127.0.0.1:6379"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Code stores.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			CORSOrigins: []string{"*"},
			RateLimit:   DefaultRateLimit,
		},
		Verification: VerificationSection{
			CodeTTL:        DefaultCodeTTL,
			ResendInterval: DefaultResendInterval,
			MaxAttempts:    DefaultMaxAttempts,
			Store:          StoreMemory,
			Redis: RedisConfig{
				Addr: DefaultRedisAddr,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Env: EnvDevelopment,
	}
}
