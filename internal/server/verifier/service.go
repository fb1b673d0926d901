package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
	"github.com/yndnr/ofchat-go/pkg/token"
)

// Default limits.
const (
	DefaultCodeTTL        = 5 * time.Minute
	DefaultResendInterval = time.Minute
	DefaultMaxAttempts    = 3

	// expiredRetention is how long a record is kept past its expiry.
	expiredRetention = 10 * time.Minute
)

// Config configures the Service.
type Config struct {
	CodeTTL        time.Duration
	ResendInterval time.Duration
	MaxAttempts    int

	// EchoCode returns the issued code in SendResult. Development only.
	EchoCode bool
}

// DefaultConfig returns the limits of the original service.
func DefaultConfig() Config {
	return Config{
		CodeTTL:        DefaultCodeTTL,
		ResendInterval: DefaultResendInterval,
		MaxAttempts:    DefaultMaxAttempts,
	}
}

// Sender delivers a text message to a phone.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// LogSender "delivers" messages by logging them. It stands in for an SMS
// gateway in development.
type LogSender struct {
	Logger *slog.Logger
}

// Send implements Sender.
func (s LogSender) Send(_ context.Context, phone, text string) error {
	s.Logger.Info("sms delivered", "phone", phone, "text", text)
	return nil
}

// SendResult is the outcome of a successful send.
type SendResult struct {
	VerificationID string
	Phone          string
	// DevCode is the plain code, set only when EchoCode is on.
	DevCode string
}

// Service issues and checks verification codes.
type Service struct {
	cfg     Config
	store   CodeStore
	limiter *ResendLimiter
	sender  Sender
	logger  *slog.Logger
	metrics *metric.Registry
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records send and check outcomes in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(s *Service) {
		s.metrics = reg
	}
}

// WithSender replaces the log sender.
func WithSender(sender Sender) Option {
	return func(s *Service) {
		s.sender = sender
	}
}

// NewService creates a verification service over store.
func NewService(store CodeStore, cfg Config, opts ...Option) *Service {
	def := DefaultConfig()
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = def.CodeTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}

	s := &Service{
		cfg:     cfg,
		store:   store,
		limiter: NewResendLimiter(cfg.ResendInterval),
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sender == nil {
		s.sender = LogSender{Logger: s.logger}
	}
	return s
}

// Send issues a fresh code to phone, replacing any outstanding one.
func (s *Service) Send(ctx context.Context, phone string) (*SendResult, error) {
	res, err := s.send(ctx, strings.TrimSpace(phone))
	s.recordIssued(err)
	return res, err
}

func (s *Service) send(ctx context.Context, phone string) (*SendResult, error) {
	if phone == "" {
		return nil, domain.ErrPhoneRequired
	}

	now := s.now()
	if !s.limiter.AllowAt(phone, now) {
		return nil, domain.ErrRateLimited
	}

	code, err := token.GenerateCode()
	if err != nil {
		return nil, domain.ErrInternal.WithDetails("generate code").WithCause(err)
	}
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	rec := CodeRecord{
		VerificationID: id,
		CodeHash:       token.Hash(code),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.cfg.CodeTTL),
	}
	if err := s.store.Save(ctx, phone, rec, s.cfg.CodeTTL+expiredRetention); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}

	text := fmt.Sprintf("Your OfChat code: %s", code)
	if err := s.sender.Send(ctx, phone, text); err != nil {
		_ = s.store.Delete(ctx, phone)
		return nil, domain.ErrInternal.WithDetails("deliver code").WithCause(err)
	}

	s.logger.InfoContext(ctx, "verification code issued",
		"phone", phone,
		"verification_id", id,
		"expires_at", rec.ExpiresAt)

	res := &SendResult{VerificationID: id, Phone: phone}
	if s.cfg.EchoCode {
		res.DevCode = code
	}
	return res, nil
}

// Verify checks code against the outstanding code for phone. A match
// consumes the code. Every check of a live code counts as an attempt.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	err := s.verify(ctx, strings.TrimSpace(phone), strings.TrimSpace(code))
	s.recordCheck(err)
	return err
}

func (s *Service) verify(ctx context.Context, phone, code string) error {
	if phone == "" || code == "" {
		return domain.ErrCodeInputRequired
	}

	rec, err := s.store.Get(ctx, phone)
	if errors.Is(err, ErrNoRecord) {
		return domain.ErrCodeNotFound
	}
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}

	if rec.Attempts >= s.cfg.MaxAttempts {
		return domain.ErrTooManyAttempts
	}
	if s.now().After(rec.ExpiresAt) {
		return domain.ErrCodeExpired
	}

	// The stored count is authoritative; rec may be stale under
	// concurrent checks.
	attempt, err := s.store.IncrAttempts(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return domain.ErrCodeNotFound
		}
		return domain.ErrStorage.WithCause(err)
	}
	if attempt > s.cfg.MaxAttempts {
		return domain.ErrTooManyAttempts
	}

	if !token.Verify(code, rec.CodeHash) {
		s.logger.DebugContext(ctx, "verification code mismatch",
			"phone", phone,
			"verification_id", rec.VerificationID,
			"attempt", attempt)
		return domain.ErrInvalidCode
	}

	if err := s.store.Delete(ctx, phone); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	s.logger.InfoContext(ctx, "phone verified", "phone", phone, "verification_id", rec.VerificationID)
	return nil
}

// Janitor periodically drops idle resend limiters and, for a
// MemoryCodeStore, records past retention. It returns when ctx is done.
func (s *Service) Janitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiters := s.limiter.Cleanup(s.now())
			records := 0
			if m, ok := s.store.(*MemoryCodeStore); ok {
				records = m.Sweep()
			}
			if limiters > 0 || records > 0 {
				s.logger.Debug("verifier cleanup", "limiters", limiters, "records", records)
			}
		}
	}
}

func (s *Service) recordIssued(err error) {
	if s.metrics != nil {
		s.metrics.RecordCodeIssued(resultOf(err))
	}
}

func (s *Service) recordCheck(err error) {
	if s.metrics != nil {
		s.metrics.RecordCodeCheck(resultOf(err))
	}
}

// resultOf labels an outcome for metrics.
func resultOf(err error) string {
	switch {
	case err == nil:
		return metric.ResultSuccess
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "locked"
	case errors.Is(err, domain.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrPhoneRequired), errors.Is(err, domain.ErrCodeInputRequired):
		return "bad_request"
	default:
		return metric.ResultFailure
	}
}
