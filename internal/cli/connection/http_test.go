package connection

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/telemetry/logger"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name       string
		server     string
		wantPrefix string
	}{
		{"with http prefix", "http://localhost:8080", "http://localhost:8080"},
		{"with https prefix", "https://localhost:8080", "https://localhost:8080"},
		{"without prefix", "localhost:8080", "http://localhost:8080"},
		{"with path", "api.example.com/sms_verify", "http://api.example.com/sms_verify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewHTTPClient(tt.server)
			if client.BaseURL() != tt.wantPrefix {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantPrefix)
			}
		})
	}
}

func TestHTTPClient_PostAction(t *testing.T) {
	type requestBody struct {
		Name string `json:"name"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if got := r.URL.Query().Get("action"); got != "send" {
			t.Errorf("action = %q, want send", got)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("X-Request-ID not set")
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "ofchat-cli/") {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}

		var body requestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body.Name != "test" {
			t.Errorf("body = %+v", body)
		}

		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithLogger(logger.Discard()))
	var out envelope
	if err := client.PostAction(context.Background(), "send", requestBody{Name: "test"}, &out); err != nil {
		t.Fatalf("PostAction() error = %v", err)
	}
	if !out.Success || out.Message != "ok" {
		t.Errorf("out = %+v", out)
	}
}

func TestHTTPClient_ErrorReplies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantCat  domain.Category
		reason   string
	}{
		{
			name:     "known code",
			status:   http.StatusTooManyRequests,
			body:     `{"error":"Please wait before requesting a new code","code":"OF-SMS-4290"}`,
			wantCode: "OF-SMS-4290",
			wantCat:  domain.CategoryVerificationRequest,
			reason:   "Please wait before requesting a new code",
		},
		{
			name:     "known code with other text",
			status:   http.StatusConflict,
			body:     `{"error":"name taken","code":"OF-ACCT-4090"}`,
			wantCode: "OF-ACCT-4090",
			wantCat:  domain.CategoryRegistration,
			reason:   "name taken",
		},
		{
			name:     "error without code",
			status:   http.StatusBadRequest,
			body:     `{"error":"Invalid action"}`,
			wantCode: "OF-HTTP-4000",
			wantCat:  domain.CategoryInternal,
			reason:   "Invalid action",
		},
		{
			name:     "non json failure",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			wantCode: "OF-NETW-5030",
			wantCat:  domain.CategoryNetwork,
			reason:   "request failed with status 502",
		},
		{
			name:     "malformed success",
			status:   http.StatusOK,
			body:     `not json`,
			wantCode: "OF-NETW-5030",
			wantCat:  domain.CategoryNetwork,
			reason:   "malformed response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewHTTPClient(server.URL, WithLogger(logger.Discard()))
			err := client.PostAction(context.Background(), "x", map[string]string{}, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := domain.GetErrorCode(err); got != tt.wantCode {
				t.Errorf("code = %q, want %q", got, tt.wantCode)
			}
			if got := domain.CategoryOf(err); got != tt.wantCat {
				t.Errorf("category = %q, want %q", got, tt.wantCat)
			}
			if got := domain.ReasonOf(err); got != tt.reason {
				t.Errorf("reason = %q, want %q", got, tt.reason)
			}
		})
	}
}

func TestHTTPClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewHTTPClient(url, WithLogger(logger.Discard()), WithTimeout(time.Second))
	err := client.PostAction(context.Background(), "send", map[string]string{}, nil)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("PostAction() error = %v, want ErrNetwork", err)
	}
}

func TestHTTPClient_Ping(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "" {
			t.Errorf("ping sent action %q", r.URL.Query().Get("action"))
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"message":"OfChat SMS Verification API"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithLogger(logger.Discard()))
	msg, err := client.Ping(context.Background(), 3)
	if err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if msg != "OfChat SMS Verification API" {
		t.Errorf("Ping() = %q", msg)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestHTTPClient_PingGivesUp(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid action"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithLogger(logger.Discard()))
	if _, err := client.Ping(context.Background(), 3); err == nil {
		t.Fatal("Ping() succeeded against an error reply")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1 (service rejections are not retried)", got)
	}
}

func TestBreakerTransport_Opens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Database error"}`))
	}))
	defer server.Close()

	cfg := BreakerConfig{Name: "test", MaxFailures: 2, Interval: time.Minute, Timeout: time.Minute}
	client := NewHTTPClient(server.URL, WithLogger(logger.Discard()), WithBreaker(cfg))

	for i := 0; i < 2; i++ {
		err := client.PostAction(context.Background(), "register", map[string]string{}, nil)
		if domain.ReasonOf(err) != "Database error" {
			t.Fatalf("call %d error = %v, want the service reply", i, err)
		}
	}

	err := client.PostAction(context.Background(), "register", map[string]string{}, nil)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("error with open breaker = %v, want ErrNetwork", err)
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error with open breaker = %v, want ErrOpenState cause", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}
