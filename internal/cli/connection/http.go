package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/infra/buildinfo"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxResponseSize caps how much of a reply is read.
const maxResponseSize = 1 << 20

// HTTPClient speaks the OfChat action protocol: one endpoint per service,
// the operation selected by the "action" query parameter, JSON bodies in
// both directions.
//
// Every error it returns is a *domain.DomainError. Transport failures,
// unreadable replies and an open circuit are domain.ErrNetwork; a JSON
// error reply becomes the matching service error.
type HTTPClient struct {
	baseURL   string
	client    *http.Client
	logger    *slog.Logger
	userAgent string
}

// ClientOption configures an HTTPClient.
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	logger    *slog.Logger
	transport http.RoundTripper
	breaker   *BreakerConfig
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransport replaces the underlying transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithBreaker guards the client with a circuit breaker.
func WithBreaker(cfg BreakerConfig) ClientOption {
	return func(o *clientOptions) {
		o.breaker = &cfg
	}
}

// NewHTTPClient creates a client for the service at endpoint.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	o := clientOptions{
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Ensure baseURL has http:// prefix
	baseURL := endpoint
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	rt := o.transport
	if o.breaker != nil {
		rt = newBreakerTransport(rt, *o.breaker, o.logger)
	}

	return &HTTPClient{
		baseURL:   baseURL,
		logger:    o.logger,
		userAgent: "ofchat-cli/" + buildinfo.Version,
		client: &http.Client{
			Timeout:   o.timeout,
			Transport: rt,
		},
	}
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// envelope holds the fields every reply may carry.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// PostAction posts body to the given action and decodes a successful reply
// into out. out may be nil.
func (c *HTTPClient) PostAction(ctx context.Context, action string, body, out any) error {
	_, err := c.postAction(ctx, action, body, out)
	return err
}

// postAction is PostAction that also reports the reply status, 0 when no
// reply was received.
func (c *HTTPClient) postAction(ctx context.Context, action string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, domain.ErrInternal.WithDetails("encode request").WithCause(err)
	}
	return c.do(ctx, http.MethodPost, action, nil, bytes.NewReader(data), out)
}

// GetAction issues a GET for the given action with extra query parameters.
func (c *HTTPClient) GetAction(ctx context.Context, action string, query url.Values, out any) error {
	_, err := c.do(ctx, http.MethodGet, action, query, nil, out)
	return err
}

// Ping fetches the service banner, retrying transport failures with
// exponential backoff up to attempts times.
func (c *HTTPClient) Ping(ctx context.Context, attempts uint) (string, error) {
	if attempts == 0 {
		attempts = 1
	}

	op := func() (string, error) {
		var env envelope
		_, err := c.do(ctx, http.MethodGet, "", nil, nil, &env)
		if err != nil {
			if domain.CategoryOf(err) != domain.CategoryNetwork {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		return env.Message, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(attempts),
	)
}

func (c *HTTPClient) do(ctx context.Context, method, action string, query url.Values, body io.Reader, out any) (int, error) {
	u := c.baseURL
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	if action != "" {
		q.Set("action", action)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, domain.ErrInternal.WithDetails("create request").WithCause(err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"request_id", requestID,
			"action", action,
			"error", err)
		return 0, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, domain.ErrNetwork.WithDetails("read response").WithCause(err)
	}

	c.logger.Debug("request completed",
		"request_id", requestID,
		"method", method,
		"action", action,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	return resp.StatusCode, parseResponse(resp.StatusCode, raw, out)
}

// parseResponse decodes raw into out, or turns an error reply into a
// domain error.
func parseResponse(status int, raw []byte, out any) error {
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status >= 400 || env.Error != "" {
		if decodeErr != nil || env.Error == "" {
			return domain.ErrNetwork.WithDetails(fmt.Sprintf("request failed with status %d", status))
		}
		return serviceError(status, env.Code, env.Error)
	}

	if decodeErr != nil {
		return domain.ErrNetwork.WithDetails("malformed response").WithCause(decodeErr)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return domain.ErrNetwork.WithDetails("malformed response").WithCause(err)
		}
	}
	return nil
}

// serviceError maps an error reply to the sentinel named by code, keeping
// the service's message as the reason.
func serviceError(status int, code, message string) error {
	if known, ok := domain.ErrorByCode(code); ok {
		if message == known.Message {
			return known
		}
		return known.WithDetails(message)
	}
	return domain.NewDomainError(fmt.Sprintf("OF-HTTP-%d0", status), domain.CategoryInternal, message)
}

func transportError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.ErrNetwork.WithDetails("service temporarily unavailable").WithCause(err)
	}
	return domain.ErrNetwork.WithCause(err)
}
