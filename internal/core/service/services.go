package service

import (
	"context"

	"github.com/yndnr/ofchat-go/internal/core/domain"
)

// CodeIssue is the verification service's reply to a code request.
type CodeIssue struct {
	// VerificationID is the service's reference for the issued code, if any.
	VerificationID string

	// DevCode is the issued code, only present when the service runs with
	// its development echo enabled.
	DevCode string
}

// VerificationService issues and checks one-time codes against a phone number.
//
// Implementations return domain.ErrNetwork when the service could not be
// reached, and a service rejection carrying the service's reason otherwise.
type VerificationService interface {
	// RequestCode asks the service to send a code to phone.
	RequestCode(ctx context.Context, phone string) (*CodeIssue, error)

	// CheckCode checks code against the outstanding code for phone. On
	// rejection the returned status says what became of the challenge:
	// still pending, expired, or failed for good.
	CheckCode(ctx context.Context, phone, code string) (domain.ChallengeStatus, error)
}

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	Username string
	Password string
	Email    string
	Phone    string
}

// AccountService creates and authenticates accounts.
//
// Error conventions are the same as for VerificationService.
type AccountService interface {
	// Register creates an account.
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)

	// Login authenticates by identifier, which the service resolves as a
	// username, email or phone.
	Login(ctx context.Context, identifier, password string) (*domain.Account, error)
}

// SessionRepository is where the auth flow writes the established session.
type SessionRepository interface {
	Save(ctx context.Context, session domain.UserSession) error
	Clear(ctx context.Context) error
}
