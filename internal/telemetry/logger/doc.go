// Package logger builds the log/slog loggers used by the CLI and the dev
// server.
//
// Loggers share one level, so the dev server can change verbosity when its
// config file is edited. Passwords, verification codes and secrets are
// replaced before a record is written and phone numbers are masked. Records
// logged with a context carrying a request ID get a request_id attribute.
package logger
