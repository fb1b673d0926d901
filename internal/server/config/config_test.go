package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Verification.CodeTTL != 5*time.Minute {
		t.Errorf("CodeTTL = %v, want 5m", cfg.Verification.CodeTTL)
	}
	if cfg.Verification.ResendInterval != time.Minute {
		t.Errorf("ResendInterval = %v, want 1m", cfg.Verification.ResendInterval)
	}
	if cfg.Verification.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Verification.MaxAttempts)
	}
	if cfg.Verification.Store != StoreMemory {
		t.Errorf("Store = %q, want %q", cfg.Verification.Store, StoreMemory)
	}
	if cfg.Dev.EchoCode {
		t.Error("EchoCode should be disabled by default")
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
	if err := Verify(cfg); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ServerConfig)
		wantErr bool
	}{
		{"defaults", func(c *ServerConfig) {}, false},
		{"echo in development", func(c *ServerConfig) { c.Dev.EchoCode = true }, false},
		{"echo in production", func(c *ServerConfig) {
			c.Dev.EchoCode = true
			c.Env = EnvProduction
		}, true},
		{"unknown env", func(c *ServerConfig) { c.Env = "qa" }, true},
		{"bad addr", func(c *ServerConfig) { c.Server.HTTP.Addr = "localhost" }, true},
		{"negative rate limit", func(c *ServerConfig) { c.Server.RateLimit = -1 }, true},
		{"rate limit disabled", func(c *ServerConfig) { c.Server.RateLimit = 0 }, false},
		{"zero ttl", func(c *ServerConfig) { c.Verification.CodeTTL = 0 }, true},
		{"zero attempts", func(c *ServerConfig) { c.Verification.MaxAttempts = 0 }, true},
		{"no resend interval", func(c *ServerConfig) { c.Verification.ResendInterval = 0 }, false},
		{"redis store", func(c *ServerConfig) { c.Verification.Store = StoreRedis }, false},
		{"redis without addr", func(c *ServerConfig) {
			c.Verification.Store = StoreRedis
			c.Verification.Redis.Addr = ""
		}, true},
		{"unknown store", func(c *ServerConfig) { c.Verification.Store = "etcd" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Verification.Redis.Password = "redis-secret-123"

	sanitized := Sanitize(cfg)
	sanitized.Server.CORSOrigins[0] = "https://changed.example"

	if cfg.Verification.Redis.Password != "redis-secret-123" {
		t.Error("Sanitize() modified the original password")
	}
	if cfg.Server.CORSOrigins[0] != "*" {
		t.Error("Sanitize() shares CORSOrigins with the original")
	}
	if got := sanitized.Verification.Redis.Password; got != redacted {
		t.Errorf("sanitized password = %q, want %q", got, redacted)
	}

	cfg.Verification.Redis.Password = ""
	if got := Sanitize(cfg).Verification.Redis.Password; got != "" {
		t.Errorf("empty password sanitized to %q, want empty", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devserver.yaml")
	content := `
server:
  http:
    addr: "0.0.0.0:9090"
  rate_limit: 5
verification:
  code_ttl: 2m
  store: redis
  redis:
    addr: "redis:6379"
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("OFCHAT_VERIFICATION_MAX_ATTEMPTS", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "0.0.0.0:9090" {
		t.Errorf("HTTP.Addr = %q", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.RateLimit != 5 {
		t.Errorf("RateLimit = %v, want 5", cfg.Server.RateLimit)
	}
	if cfg.Verification.CodeTTL != 2*time.Minute {
		t.Errorf("CodeTTL = %v, want 2m", cfg.Verification.CodeTTL)
	}
	if cfg.Verification.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5 from env", cfg.Verification.MaxAttempts)
	}
	if cfg.Verification.ResendInterval != DefaultResendInterval {
		t.Errorf("ResendInterval = %v, want default", cfg.Verification.ResendInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_RefusesEchoInProduction(t *testing.T) {
	t.Setenv("OFCHAT_ENV", "production")
	t.Setenv("OFCHAT_DEV_ECHO_CODE", "true")

	if _, err := Load(""); err == nil {
		t.Error("Load() should refuse dev.echo_code in production")
	}
}
