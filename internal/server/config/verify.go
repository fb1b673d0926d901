package config

import (
	"errors"
	"fmt"
	"net"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	switch cfg.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("env must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env)
	}
	if cfg.Dev.EchoCode && cfg.Env == EnvProduction {
		return errors.New("dev.echo_code must not be enabled when env is production")
	}

	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	return verifyVerification(&cfg.Verification)
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}
	if cfg.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	return nil
}

func verifyVerification(cfg *VerificationSection) error {
	if cfg.CodeTTL <= 0 {
		return errors.New("verification.code_ttl must be positive")
	}
	if cfg.ResendInterval < 0 {
		return errors.New("verification.resend_interval must not be negative")
	}
	if cfg.MaxAttempts < 1 {
		return errors.New("verification.max_attempts must be at least 1")
	}

	switch cfg.Store {
	case StoreMemory:
	case StoreRedis:
		if cfg.Redis.Addr == "" {
			return errors.New("verification.redis.addr is required for the redis store")
		}
	default:
		return fmt.Errorf("verification.store must be %q or %q, got %q", StoreMemory, StoreRedis, cfg.Store)
	}
	return nil
}
