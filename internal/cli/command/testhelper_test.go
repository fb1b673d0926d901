package command

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/ofchat-go/internal/cli/config"
	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/server/directory"
	"github.com/yndnr/ofchat-go/internal/server/httpserver"
	"github.com/yndnr/ofchat-go/internal/server/verifier"
	"github.com/yndnr/ofchat-go/internal/telemetry/logger"
)

// fixedCode is the code every test verification accepts.
const fixedCode = "123456"

// mockVerifier is a mock implementation of handler.Verifier that issues
// fixedCode to every phone.
type mockVerifier struct {
	mu    sync.Mutex
	sends map[string]int
}

func (m *mockVerifier) Send(_ context.Context, phone string) (*verifier.SendResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, domain.ErrPhoneRequired
	}
	m.mu.Lock()
	m.sends[phone]++
	m.mu.Unlock()
	return &verifier.SendResult{VerificationID: "test-id", Phone: phone, DevCode: fixedCode}, nil
}

func (m *mockVerifier) Verify(_ context.Context, phone, code string) error {
	if phone == "" || code == "" {
		return domain.ErrCodeInputRequired
	}
	if code != fixedCode {
		return domain.ErrInvalidCode
	}
	return nil
}

func (m *mockVerifier) sent(phone string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sends[phone]
}

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv is a backend plus a CLI config pointing at it.
type testEnv struct {
	t          *testing.T
	server     *httptest.Server
	verifier   *mockVerifier
	configPath string
	dataDir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	v := &mockVerifier{sends: make(map[string]int)}
	server := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		Verifier: v,
		Accounts: directory.New(directory.WithLogger(logger.Discard())),
		Logger:   logger.Discard(),
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	env := &testEnv{
		t:          t,
		server:     server,
		verifier:   v,
		configPath: filepath.Join(dir, "cli.yaml"),
		dataDir:    filepath.Join(dir, "data"),
	}

	cfg := config.Default()
	cfg.API.VerificationURL = server.URL + "/sms"
	cfg.API.AccountURL = server.URL + "/auth"
	cfg.API.Timeout = 5 * time.Second
	cfg.Session.DataDir = env.dataDir
	cfg.Dev.EchoCode = true
	if err := config.Save(cfg, env.configPath); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return env
}

// result is the outcome of one CLI run.
type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with stdin as input. Global flags may precede the
// command in args.
func (e *testEnv) run(stdin string, args ...string) result {
	e.t.Helper()

	var stdout, stderr syncBuffer
	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr

	argv := append([]string{"ofchat-cli", "--config", e.configPath}, args...)
	err := app.Run(argv)
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}
