package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}
}

func TestGet_GoVersionFallback(t *testing.T) {
	if GoVersion != "unknown" {
		t.Skip("GoVersion injected via ldflags")
	}
	if got := Get().GoVersion; got != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", got, runtime.Version())
	}
}

func TestGet_InjectedValuesWin(t *testing.T) {
	saved := [4]string{Version, Commit, BuildTime, GoVersion}
	defer func() {
		Version, Commit, BuildTime, GoVersion = saved[0], saved[1], saved[2], saved[3]
	}()

	Version, Commit, BuildTime, GoVersion = "v1.2.3", "abc123", "2026-01-01T00:00:00Z", "go1.24.4"

	want := Info{Version: "v1.2.3", Commit: "abc123", BuildTime: "2026-01-01T00:00:00Z", GoVersion: "go1.24.4"}
	if got := Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
	if got := String(); got != "v1.2.3 (abc123) built at 2026-01-01T00:00:00Z" {
		t.Errorf("String() = %q", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, " built at ") {
		t.Errorf("String() = %q, want it to contain %q", s, " built at ")
	}
	if !strings.HasPrefix(s, Get().Version+" (") {
		t.Errorf("String() = %q, want version prefix %q", s, Get().Version)
	}
}
