package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.FlowOperations == nil {
		t.Error("FlowOperations is nil")
	}
	if r.CodesIssued == nil {
		t.Error("CodesIssued is nil")
	}
	if r.RequestsTotal == nil {
		t.Error("RequestsTotal is nil")
	}
}

func TestGlobal(t *testing.T) {
	r1 := Global()
	r2 := Global()
	if r1 != r2 {
		t.Error("Global() should return the same instance")
	}
}

func TestHandler(t *testing.T) {
	body := scrape(t, Handler())

	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected go_goroutines metric")
	}
	if !strings.Contains(body, "process_") {
		t.Error("expected process metrics")
	}
}

func TestWithoutRuntimeCollectors(t *testing.T) {
	r := NewRegistry(WithoutRuntimeCollectors())
	r.RecordFlowOperation("login", ResultSuccess)

	body := scrape(t, r.Handler())
	if strings.Contains(body, "go_goroutines") {
		t.Error("runtime collectors should be left out")
	}
	if !strings.Contains(body, `ofchat_authflow_operations_total{operation="login",result="success"} 1`) {
		t.Errorf("expected login operation counter, got:\n%s", body)
	}
}

func TestFlowMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordFlowOperation("confirm_and_register", "verification_mismatch")
	r.RecordFlowOperation("confirm_and_register", "verification_mismatch")
	r.RecordFlowOperation("request_code", ResultSuccess)
	r.ObserveServiceCall("check_code", 0.05)

	body := scrape(t, r.Handler())

	if !strings.Contains(body, `ofchat_authflow_operations_total{operation="confirm_and_register",result="verification_mismatch"} 2`) {
		t.Error("expected 2 mismatches for confirm_and_register")
	}
	if !strings.Contains(body, `ofchat_authflow_operations_total{operation="request_code",result="success"} 1`) {
		t.Error("expected 1 successful request_code")
	}
	if !strings.Contains(body, `ofchat_authflow_service_call_duration_seconds_count{call="check_code"} 1`) {
		t.Error("expected 1 check_code observation")
	}
}

func TestServerMetrics(t *testing.T) {
	r := NewRegistry()

	r.RecordCodeIssued(ResultSuccess)
	r.RecordCodeIssued("rate_limited")
	r.RecordCodeCheck("invalid")
	r.IncAccountsRegistered()
	r.RecordLogin(ResultFailure)
	r.RecordRequest("POST", "send", "200")
	r.ObserveRequestDuration("POST", "send", 0.002)

	body := scrape(t, r.Handler())

	for _, want := range []string{
		`ofchat_verification_codes_issued_total{result="success"} 1`,
		`ofchat_verification_codes_issued_total{result="rate_limited"} 1`,
		`ofchat_verification_checks_total{result="invalid"} 1`,
		`ofchat_accounts_registered_total 1`,
		`ofchat_accounts_logins_total{result="failure"} 1`,
		`ofchat_http_requests_total{action="send",method="POST",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s", want)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry(WithoutRuntimeCollectors())
	r.RecordFlowOperation("logout", ResultSuccess)

	path := filepath.Join(t.TempDir(), "ofchat.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `operation="logout"`) {
		t.Errorf("textfile missing logout counter:\n%s", data)
	}
}

func TestConcurrentMetricUpdates(t *testing.T) {
	r := NewRegistry()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				r.RecordFlowOperation("login", ResultSuccess)
				r.RecordCodeCheck(ResultSuccess)
				r.RecordRequest("POST", "verify", "200")
				r.ObserveRequestDuration("POST", "verify", 0.001)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	body := scrape(t, r.Handler())
	if !strings.Contains(body, `ofchat_authflow_operations_total{operation="login",result="success"} 1000`) {
		t.Error("expected 1000 login operations")
	}
}
