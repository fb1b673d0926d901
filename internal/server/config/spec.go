package config

import "time"

// ServerConfig is the root configuration for ofchat-devserver.
type ServerConfig struct {
	Server       ServerSection       `koanf:"server"`
	Verification VerificationSection `koanf:"verification"`
	Dev          DevSection          `koanf:"dev"`
	Log          LogSection          `koanf:"log"`

	// Env names the deployment: development or production.
	Env string `koanf:"env"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP        HTTPConfig `koanf:"http"`
	CORSOrigins []string   `koanf:"cors_origins"`

	// RateLimit is the number of requests per second allowed from one
	// client address. Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// VerificationSection configures the SMS verification service.
type VerificationSection struct {
	CodeTTL        time.Duration `koanf:"code_ttl"`
	ResendInterval time.Duration `koanf:"resend_interval"`
	MaxAttempts    int           `koanf:"max_attempts"`

	// Store selects the code store: memory or redis.
	Store string      `koanf:"store"`
	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig configures the Redis code store.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// DevSection holds development aids.
type DevSection struct {
	// EchoCode returns issued codes in the send reply. Refused in production.
	EchoCode bool `koanf:"echo_code"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
