package connection

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the client circuit breaker.
type BreakerConfig struct {
	// Name identifies the breaker in logs.
	Name string

	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32

	// Interval is the cyclic period in which closed-state counts are cleared.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// DefaultBreakerConfig returns the breaker settings used by the CLI.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxFailures: 5,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	}
}

// errServerStatus marks a 5xx reply as a breaker failure.
var errServerStatus = errors.New("server error status")

// breakerTransport counts transport errors and 5xx replies against a
// circuit breaker. While the breaker is open, requests fail without
// touching the network.
type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

func newBreakerTransport(next http.RoundTripper, cfg BreakerConfig, logger *slog.Logger) *breakerTransport {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	}
	return &breakerTransport{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

// RoundTrip implements http.RoundTripper.
func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.cb.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	resp, _ := result.(*http.Response)
	if errors.Is(err, errServerStatus) {
		return resp, nil
	}
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("%s: %w", t.cb.Name(), err)
	}
	return resp, nil
}

// State returns the breaker state.
func (t *breakerTransport) State() gobreaker.State {
	return t.cb.State()
}
