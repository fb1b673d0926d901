package config

import "time"

// CLIConfig is the configuration for ofchat-cli (~/.ofchat/cli.yaml).
type CLIConfig struct {
	API     APISection     `koanf:"api" yaml:"api"`
	Session SessionSection `koanf:"session" yaml:"session"`
	Dev     DevSection     `koanf:"dev" yaml:"dev"`
	Output  OutputSection  `koanf:"output" yaml:"output"`
	Log     LogSection     `koanf:"log" yaml:"log"`

	// Env names the deployment: development or production.
	Env string `koanf:"env" yaml:"env"`
}

// APISection locates the backend services.
type APISection struct {
	VerificationURL string        `koanf:"verification_url" yaml:"verification_url"`
	AccountURL      string        `koanf:"account_url" yaml:"account_url"`
	Timeout         time.Duration `koanf:"timeout" yaml:"timeout"`
}

// SessionSection configures where the logged-in session is kept.
type SessionSection struct {
	DataDir string `koanf:"data_dir" yaml:"data_dir"`
}

// DevSection holds development aids.
type DevSection struct {
	// EchoCode shows the verification code returned by a development
	// backend. Refused in production.
	EchoCode bool `koanf:"echo_code" yaml:"echo_code"`
}

// OutputSection configures command output.
type OutputSection struct {
	Format string `koanf:"format" yaml:"format"` // table, json, yaml
}

// LogSection configures diagnostic logging on stderr.
type LogSection struct {
	Level string `koanf:"level" yaml:"level"`
}
