package logger

import (
	"log/slog"
	"strings"
)

// Sensitive key patterns that should be redacted wherever they appear in a key.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
}

// Keys that hold one-time codes. Matched exactly so that keys such as
// "error_code" stay readable.
var sensitiveCodeKeys = map[string]bool{
	"code":     true,
	"dev_code": true,
	"otp":      true,
}

// Keys whose values are phone numbers and get partially masked.
var phoneKeys = map[string]bool{
	"phone":      true,
	"identifier": true,
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}

		keyLower := strings.ToLower(a.Key)
		if IsSensitiveKey(keyLower) {
			return slog.String(a.Key, redactedValue)
		}
		if phoneKeys[keyLower] && looksLikePhone(strVal) {
			return slog.String(a.Key, MaskPhone(strVal))
		}
	}

	// Handle nested groups recursively
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// MaskPhone keeps the first four and last three characters of a phone
// number. Format: +799*****000
func MaskPhone(phone string) string {
	if len(phone) <= 7 {
		return strings.Repeat("*", len(phone))
	}
	return phone[:4] + strings.Repeat("*", len(phone)-7) + phone[len(phone)-3:]
}

// looksLikePhone reports whether value is digits with an optional leading plus.
func looksLikePhone(value string) bool {
	digits := strings.TrimPrefix(value, "+")
	if len(digits) < 5 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	if sensitiveCodeKeys[keyLower] {
		return true
	}
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
