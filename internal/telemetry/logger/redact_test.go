package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func newJSONLogger(t *testing.T, buf *bytes.Buffer) *slog.Logger {
	t.Helper()
	l, err := New(Config{Level: "info", Format: "json", Output: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	return logEntry
}

func TestRedactSensitive_SensitiveKeyName(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	tests := []struct {
		key      string
		value    string
		expected string
	}{
		{"password", "mysecret123", "***REDACTED***"},
		{"password_confirmation", "mysecret123", "***REDACTED***"},
		{"code", "483920", "***REDACTED***"},
		{"dev_code", "483920", "***REDACTED***"},
		{"otp", "483920", "***REDACTED***"},
		{"client_secret", "s3cr3t", "***REDACTED***"},
		{"Authorization", "Bearer xyz", "***REDACTED***"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			buf.Reset()
			l.Info("test", tt.key, tt.value)

			val, ok := decodeEntry(t, &buf)[tt.key].(string)
			if !ok {
				t.Fatalf("Expected %s field in log", tt.key)
			}
			if val != tt.expected {
				t.Errorf("Key %q should be redacted to %q, got %q", tt.key, tt.expected, val)
			}
		})
	}
}

func TestRedactSensitive_Phone(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("code requested", "phone", "+79990000000", "identifier", "alex")
	entry := decodeEntry(t, &buf)

	if got := entry["phone"]; got != "+799*****000" {
		t.Errorf("phone = %v, want %q", got, "+799*****000")
	}
	if got := entry["identifier"]; got != "alex" {
		t.Errorf("identifier = %v, want username left as is", got)
	}
}

func TestRedactSensitive_NormalValues(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.Info("flow step", "error_code", "OF-SMS-4010", "challenge_id", "ofvc-01hx", "username", "alex")
	entry := decodeEntry(t, &buf)

	if got := entry["error_code"]; got != "OF-SMS-4010" {
		t.Errorf("error_code should not be redacted, got %v", got)
	}
	if got := entry["challenge_id"]; got != "ofvc-01hx" {
		t.Errorf("challenge_id should not be redacted, got %v", got)
	}
	if got := entry["username"]; got != "alex" {
		t.Errorf("username should not be redacted, got %v", got)
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(t, &buf)

	l.WithGroup("draft").Info("register", "password", "pw", "username", "alex")
	entry := decodeEntry(t, &buf)

	group, ok := entry["draft"].(map[string]any)
	if !ok {
		t.Fatalf("expected draft group, got %v", entry)
	}
	if group["password"] != redactedValue {
		t.Errorf("grouped password = %v, want redacted", group["password"])
	}
	if group["username"] != "alex" {
		t.Errorf("grouped username = %v, want alex", group["username"])
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"+79990000000", "+799*****000"},
		{"89990001122", "8999****122"},
		{"1234567", "*******"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MaskPhone(tt.input); got != tt.expected {
			t.Errorf("MaskPhone(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key       string
		sensitive bool
	}{
		{"password", true},
		{"PASSWORD", true},
		{"secret", true},
		{"token", true},
		{"credential", true},
		{"code", true},
		{"dev_code", true},
		{"error_code", false},
		{"status_code", false},
		{"username", false},
		{"phone", false},
		{"request_id", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsSensitiveKey(tt.key); got != tt.sensitive {
				t.Errorf("IsSensitiveKey(%q) = %v, want %v", tt.key, got, tt.sensitive)
			}
		})
	}
}
