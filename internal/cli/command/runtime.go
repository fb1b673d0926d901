package command

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/yndnr/ofchat-go/internal/cli/config"
	"github.com/yndnr/ofchat-go/internal/cli/connection"
	"github.com/yndnr/ofchat-go/internal/cli/output"
	"github.com/yndnr/ofchat-go/internal/cli/repl"
	"github.com/yndnr/ofchat-go/internal/core/service"
	"github.com/yndnr/ofchat-go/internal/storage"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
)

// Runtime holds what a single CLI run needs. Storage and service clients
// are opened on first use, so commands such as version never touch the
// data directory.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Logger     *slog.Logger
	Metrics    *metric.Registry

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	textfile string

	mu       sync.Mutex
	engine   *storage.Badger
	sessions *service.SessionStore
	flow     *service.AuthFlow
	prompt   *repl.REPL
}

// Formatter returns the formatter for the configured output format.
func (rt *Runtime) Formatter() output.Formatter {
	format, err := output.ParseFormat(rt.Config.Output.Format)
	if err != nil {
		format = output.FormatTable
	}
	return output.NewFormatter(format)
}

// Print formats data to Out.
func (rt *Runtime) Print(data any) error {
	return rt.Formatter().Format(rt.Out, data)
}

// Prompt returns the line reader shared by every prompt of this run.
func (rt *Runtime) Prompt() *repl.REPL {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.prompt == nil {
		rt.prompt = repl.New(rt.In, rt.Out, repl.NewCompleter())
	}
	return rt.prompt
}

// Sessions opens the session store in the configured data directory.
func (rt *Runtime) Sessions() (*service.SessionStore, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.sessionsLocked()
}

func (rt *Runtime) sessionsLocked() (*service.SessionStore, error) {
	if rt.sessions != nil {
		return rt.sessions, nil
	}

	dir := rt.Config.Session.DataDir
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	engine, err := storage.OpenBadger(storage.DefaultOptions(dir), rt.Logger)
	if errors.Is(err, storage.ErrLocked) {
		return nil, fmt.Errorf("session store %s is in use by another ofchat-cli", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := engine.RegisterMetrics(rt.Metrics.Registerer()); err != nil {
		engine.Close()
		return nil, fmt.Errorf("register session store metrics: %w", err)
	}

	rt.engine = engine
	rt.sessions = service.NewSessionStore(engine, rt.Logger)
	return rt.sessions, nil
}

// Clients creates the verification and account service clients.
func (rt *Runtime) Clients() (*connection.HTTPClient, *connection.HTTPClient) {
	opts := func(name string) []connection.ClientOption {
		return []connection.ClientOption{
			connection.WithTimeout(rt.Config.API.Timeout),
			connection.WithLogger(rt.Logger),
			connection.WithBreaker(connection.DefaultBreakerConfig(name)),
		}
	}
	return connection.NewHTTPClient(rt.Config.API.VerificationURL, opts("verification")...),
		connection.NewHTTPClient(rt.Config.API.AccountURL, opts("account")...)
}

// AuthFlow creates the auth flow over the service clients and the session
// store.
func (rt *Runtime) AuthFlow() (*service.AuthFlow, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.flow != nil {
		return rt.flow, nil
	}

	sessions, err := rt.sessionsLocked()
	if err != nil {
		return nil, err
	}

	verification, accounts := rt.Clients()
	rt.flow = service.NewAuthFlow(
		connection.NewVerificationClient(verification),
		connection.NewAccountClient(accounts),
		sessions,
		service.WithLogger(rt.Logger),
		service.WithMetrics(rt.Metrics),
		service.WithDevCodeEcho(rt.Config.Dev.EchoCode),
	)
	return rt.flow, nil
}

// Close closes the session store and writes the metrics textfile if one
// was requested.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var errs []error
	if rt.engine != nil {
		rt.engine.UpdateMetrics()
		if err := rt.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session store: %w", err))
		}
		rt.engine = nil
		rt.sessions = nil
		rt.flow = nil
	}
	if rt.textfile != "" {
		if err := rt.Metrics.WriteTextfile(rt.textfile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}
