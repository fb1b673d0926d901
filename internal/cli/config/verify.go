package config

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrDevEchoInProduction is returned when the code echo is enabled in a
// production configuration.
var ErrDevEchoInProduction = errors.New("dev.echo_code must not be enabled when env is production")

// Verify validates the configuration.
func Verify(cfg *CLIConfig) error {
	switch cfg.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("env must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env)
	}
	if cfg.Dev.EchoCode && cfg.Env == EnvProduction {
		return ErrDevEchoInProduction
	}

	if err := verifyURL("api.verification_url", cfg.API.VerificationURL); err != nil {
		return err
	}
	if err := verifyURL("api.account_url", cfg.API.AccountURL); err != nil {
		return err
	}
	if cfg.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}

	if cfg.Session.DataDir == "" {
		return errors.New("session.data_dir is required")
	}

	switch cfg.Output.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("output.format must be table, json or yaml, got %q", cfg.Output.Format)
	}
	return nil
}

func verifyURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}
