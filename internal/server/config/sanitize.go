package config

// redacted replaces secrets in Sanitize output.
const redacted = "[redacted]"

// Sanitize returns a copy of cfg that is safe to log.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	out := *cfg
	out.Server.CORSOrigins = append([]string(nil), cfg.Server.CORSOrigins...)
	if out.Verification.Redis.Password != "" {
		out.Verification.Redis.Password = redacted
	}
	return &out
}
