package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultVerificationURL = "http://127.0.0.1:8080/sms"
	DefaultAccountURL      = "http://127.0.0.1:8080/auth"
	DefaultTimeout         = 10 * time.Second
	DefaultOutput          = "table"
	DefaultLogLevel        = "warn"
	DefaultEnv             = EnvDevelopment
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultHome returns ~/.ofchat.
func DefaultHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".ofchat")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultHome(), "cli.yaml")
}

// DefaultDataDir returns the default session data directory.
func DefaultDataDir() string {
	return filepath.Join(DefaultHome(), "data")
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		API: APISection{
			VerificationURL: DefaultVerificationURL,
			AccountURL:      DefaultAccountURL,
			Timeout:         DefaultTimeout,
		},
		Session: SessionSection{
			DataDir: DefaultDataDir(),
		},
		Output: OutputSection{
			Format: DefaultOutput,
		},
		Log: LogSection{
			Level: DefaultLogLevel,
		},
		Env: DefaultEnv,
	}
}
