package command

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/ofchat-go/internal/core/domain"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "ofchat-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "ofchat-cli")
	}

	commands := make(map[string]bool)
	for _, cmd := range app.Commands {
		commands[cmd.Name] = true
	}
	for _, name := range []string{"register", "login", "logout", "whoami", "status", "config", "version"} {
		if !commands[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"config", "data-dir", "output", "verbose", "metrics-textfile"} {
		if !flags[name] {
			t.Errorf("missing global flag: %s", name)
		}
	}
}

func decodeSession(t *testing.T, out string) domain.UserSession {
	t.Helper()
	var session domain.UserSession
	i := strings.Index(out, "{")
	if i < 0 {
		t.Fatalf("no JSON in output %q", out)
	}
	if err := json.Unmarshal([]byte(out[i:]), &session); err != nil {
		t.Fatalf("decode session from %q: %v", out, err)
	}
	return session
}

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("000000\n"+fixedCode+"\n", "-o", "json", "register",
		"--username", "alice", "--email", "alice@example.com", "--phone", "+15551234567",
		"--password", "s3cret", "--confirm-password", "s3cret")
	if res.err != nil {
		t.Fatalf("register error = %v\nstdout: %s\nstderr: %s", res.err, res.stdout, res.stderr)
	}
	if !strings.Contains(res.stdout, "[dev] code: "+fixedCode) {
		t.Errorf("dev code not echoed:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "Invalid verification code") {
		t.Errorf("wrong code not reported:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "Registered and signed in as alice.") {
		t.Errorf("stdout = %q", res.stdout)
	}
	registered := decodeSession(t, res.stdout)
	if registered.UniqueID == "" || registered.Email != "alice@example.com" {
		t.Errorf("session = %+v", registered)
	}

	res = env.run("", "-o", "json", "whoami")
	if res.err != nil {
		t.Fatalf("whoami error = %v", res.err)
	}
	if got := decodeSession(t, res.stdout); got != registered {
		t.Errorf("whoami = %+v, want %+v", got, registered)
	}

	res = env.run("", "login", "--identifier", "alice", "--password", "s3cret")
	if ExitCode(res.err) != 1 || !strings.Contains(res.stderr, "already signed in as alice") {
		t.Errorf("login while signed in: err = %v, stderr = %q", res.err, res.stderr)
	}

	res = env.run("", "logout")
	if res.err != nil || !strings.Contains(res.stdout, "Signed out.") {
		t.Fatalf("logout: err = %v, stdout = %q", res.err, res.stdout)
	}

	res = env.run("", "whoami")
	if ExitCode(res.err) != 1 {
		t.Errorf("whoami after logout exit code = %d, want 1", ExitCode(res.err))
	}

	res = env.run("", "login", "--identifier", "alice", "--password", "wrong")
	var de *domain.DomainError
	if !errors.As(res.err, &de) || de.Category != domain.CategoryAuthentication {
		t.Errorf("bad password error = %v, want authentication", res.err)
	}
	if !strings.Contains(res.stderr, "Error: authentication: Invalid credentials") {
		t.Errorf("stderr = %q", res.stderr)
	}

	res = env.run("s3cret\n", "-o", "json", "login", "--identifier", "+15551234567")
	if res.err != nil {
		t.Fatalf("login error = %v\nstderr: %s", res.err, res.stderr)
	}
	if got := decodeSession(t, res.stdout); got.UniqueID != registered.UniqueID {
		t.Errorf("login unique_id = %q, want %q", got.UniqueID, registered.UniqueID)
	}
}

func TestRegister_PromptsForMissingFields(t *testing.T) {
	env := newTestEnv(t)

	stdin := strings.Join([]string{"bob", "+15550000001", "pw", "pw", fixedCode}, "\n") + "\n"
	res := env.run(stdin, "register")
	if res.err != nil {
		t.Fatalf("register error = %v\nstdout: %s\nstderr: %s", res.err, res.stdout, res.stderr)
	}
	for _, prompt := range []string{"Username: ", "Phone: ", "Password: ", "Confirm password: ", "code> "} {
		if !strings.Contains(res.stdout, prompt) {
			t.Errorf("prompt %q missing from output", prompt)
		}
	}
	if !strings.Contains(res.stdout, "Registered and signed in as bob.") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestRegister_BackEditsForm(t *testing.T) {
	env := newTestEnv(t)

	stdin := strings.Join([]string{
		"back",
		"",             // keep username
		"",             // keep email
		"+15550000009", // new phone
		"pw", "pw",
		"resend",
		fixedCode,
	}, "\n") + "\n"
	res := env.run(stdin, "-o", "json", "register", "--username", "carol", "--phone", "+15550000002",
		"--password", "pw", "--confirm-password", "pw")
	if res.err != nil {
		t.Fatalf("register error = %v\nstdout: %s\nstderr: %s", res.err, res.stdout, res.stderr)
	}

	session := decodeSession(t, res.stdout)
	if session.Phone != "+15550000009" {
		t.Errorf("phone = %q, want +15550000009", session.Phone)
	}
	if got := env.verifier.sent("+15550000002"); got != 1 {
		t.Errorf("codes sent to first phone = %d, want 1", got)
	}
	if got := env.verifier.sent("+15550000009"); got != 2 {
		t.Errorf("codes sent to second phone = %d, want 2", got)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		args   []string
		reason string
	}{
		{"password mismatch", []string{"--username", "d", "--phone", "+1555", "--password", "a", "--confirm-password", "b"}, "password mismatch"},
		{"bad email", []string{"--username", "d", "--phone", "+1555", "--email", "nope", "--password", "a", "--confirm-password", "a"}, "email is not a valid address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.run("", append([]string{"register"}, tt.args...)...)
			if domain.CategoryOf(res.err) != domain.CategoryValidation {
				t.Errorf("category = %v, want validation (err %v)", domain.CategoryOf(res.err), res.err)
			}
			if !strings.Contains(res.stderr, tt.reason) {
				t.Errorf("stderr = %q, want it to contain %q", res.stderr, tt.reason)
			}
		})
	}
	if got := env.verifier.sent("+1555"); got != 0 {
		t.Errorf("codes sent = %d, want 0", got)
	}
}

func TestRegister_InputClosed(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("", "register", "--username", "eve", "--phone", "+1555",
		"--password", "a", "--confirm-password", "a")
	if res.err == nil {
		t.Fatal("register succeeded without a code")
	}

	res = env.run("", "whoami")
	if ExitCode(res.err) != 1 {
		t.Errorf("whoami exit code = %d, want 1", ExitCode(res.err))
	}
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("", "-o", "json", "status")
	if res.err != nil {
		t.Fatalf("status error = %v\nstderr: %s", res.err, res.stderr)
	}

	var statuses []ServiceStatus
	if err := json.Unmarshal([]byte(res.stdout), &statuses); err != nil {
		t.Fatalf("decode status %q: %v", res.stdout, err)
	}
	want := map[string]string{
		"verification": "OfChat SMS Verification API",
		"account":      "OfChat Auth API",
	}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %+v", statuses)
	}
	for _, s := range statuses {
		if !s.Reachable || s.Detail != want[s.Service] {
			t.Errorf("status %s = %+v, want reachable with %q", s.Service, s, want[s.Service])
		}
	}
}

func TestStatus_Unreachable(t *testing.T) {
	env := newTestEnv(t)
	env.server.Close()

	res := env.run("", "status")
	if ExitCode(res.err) != 1 {
		t.Errorf("exit code = %d, want 1", ExitCode(res.err))
	}
	if !strings.Contains(res.stdout, "network") {
		t.Errorf("stdout = %q, want a network failure", res.stdout)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "cli.yaml")

	run := func(args ...string) result {
		var stdout, stderr syncBuffer
		app := App()
		app.Reader = strings.NewReader("")
		app.Writer = &stdout
		app.ErrWriter = &stderr
		err := app.Run(append([]string{"ofchat-cli", "--config", path}, args...))
		return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
	}

	res := run("config", "init")
	if res.err != nil {
		t.Fatalf("config init error = %v", res.err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	res = run("config", "init")
	if ExitCode(res.err) != 1 {
		t.Errorf("second init exit code = %d, want 1", ExitCode(res.err))
	}
	if res = run("config", "init", "--force"); res.err != nil {
		t.Errorf("init --force error = %v", res.err)
	}

	res = run("--data-dir", filepath.Join(dir, "elsewhere"), "config", "show")
	if res.err != nil {
		t.Fatalf("config show error = %v", res.err)
	}
	for _, want := range []string{"verification_url: http://127.0.0.1:8080/sms", "data_dir: " + filepath.Join(dir, "elsewhere")} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestSetup_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("env: production\ndev:\n  echo_code: true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	app := App()
	app.Writer = &syncBuffer{}
	app.ErrWriter = &syncBuffer{}
	err := app.Run([]string{"ofchat-cli", "--config", path, "whoami"})
	if ExitCode(err) != 2 {
		t.Errorf("exit code = %d, want 2 (err %v)", ExitCode(err), err)
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("", "-o", "json", "version")
	if res.err != nil {
		t.Fatalf("version error = %v", res.err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(res.stdout), &info); err != nil {
		t.Fatalf("decode %q: %v", res.stdout, err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("info = %v", info)
	}
}

func TestMetricsTextfile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "ofchat.prom")

	res := env.run("", "--metrics-textfile", path, "login", "--identifier", "nobody", "--password", "x")
	if res.err == nil {
		t.Fatal("login of unknown user succeeded")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `ofchat_authflow_operations_total{operation="login"`) {
		t.Errorf("textfile missing login counter:\n%s", data)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("x"), 1},
		{"domain", domain.ErrNetwork, 1},
		{"exit", cli.Exit("", 3), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrInvalidCredentials, "authentication: Invalid credentials"},
		{domain.ErrValidation.WithField("phone", domain.ReasonPhoneRequired), "validation: phone is required"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		if got := describe(tt.err); got != tt.want {
			t.Errorf("describe(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
