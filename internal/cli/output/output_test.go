package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type sessionView struct {
	UniqueID string `json:"unique_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	internal string
}

type serviceRow struct {
	Service string        `json:"service"`
	URL     string        `json:"url"`
	Latency time.Duration `json:"latency"`
	Secret  string        `json:"secret" table:"-"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", FormatTable, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("expected JSONFormatter")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("expected YAMLFormatter")
	}
	if _, ok := NewFormatter("unknown").(*TableFormatter); !ok {
		t.Error("expected TableFormatter as default")
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	err := f.Format(&buf, &sessionView{UniqueID: "A1B2C3D4E5", Username: "alice", internal: "x"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"FIELD", "VALUE", "unique_id", "A1B2C3D4E5", "username", "alice"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "email") || !strings.Contains(out, "-") {
		t.Errorf("empty email should render as '-':\n%s", out)
	}
	if strings.Contains(out, "internal") {
		t.Error("unexported fields should be skipped")
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	rows := []serviceRow{
		{Service: "verification", URL: "http://x/sms", Latency: 15 * time.Millisecond, Secret: "s"},
		{Service: "account", URL: "http://x/auth"},
	}
	if err := f.Format(&buf, rows); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "SERVICE") || !strings.Contains(lines[0], "LATENCY") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Contains(lines[0], "SECRET") {
		t.Error(`fields tagged table:"-" should be skipped`)
	}
	if !strings.Contains(lines[1], "15ms") {
		t.Errorf("row = %q, want duration 15ms", lines[1])
	}
}

func TestTableFormatter_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{NoHeaders: true}

	table := &Table{Headers: []string{"A", "B"}}
	table.AddRow("1", "2")
	if err := f.Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "A") {
		t.Errorf("headers should be omitted: %q", buf.String())
	}
}

func TestTableFormatter_FallbackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{}

	if err := f.Format(&buf, "plain"); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `"plain"` {
		t.Errorf("output = %q, want JSON string", got)
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, sessionView{UniqueID: "U1", Username: "bob"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"unique_id": "U1"`) {
		t.Errorf("output = %s", out)
	}
	if strings.Contains(out, "email") {
		t.Error("omitempty email should be absent")
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"username": "carol", "phone": "+15551234567"}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "username: carol") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "+15551234567") {
		t.Errorf("output = %q, want phone", out)
	}
}

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

func TestSpinner_Plain(t *testing.T) {
	tests := []struct {
		name string
		stop func(s *Spinner)
		want string
	}{
		{"stop", func(s *Spinner) { s.Stop() }, "Working\n"},
		{"success", func(s *Spinner) { s.Success("done") }, "Working\n✓ done\n"},
		{"fail", func(s *Spinner) { s.Fail("boom") }, "Working\n✗ boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := NewSpinner(&buf, "Working")
			s.Start()
			tt.stop(s)
			tt.stop(s)

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSpinner_Animated(t *testing.T) {
	var buf syncBuffer
	s := NewSpinner(&buf, "Working")
	s.animate = true
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Success("done")
	s.Stop()

	out := buf.String()
	if !strings.HasPrefix(out, "\r⠋ Working") {
		t.Errorf("output = %q, want first frame", out)
	}
	if !strings.HasSuffix(out, "\r\033[K✓ done\n") {
		t.Errorf("output = %q, want cleared line and success mark", out)
	}
}
