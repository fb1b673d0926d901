package domain

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// CodeLength is the number of digits in a verification code.
	CodeLength = 6

	// ChallengeIDPrefix is the prefix for client-side challenge references.
	ChallengeIDPrefix = "ofvc-"
)

// ChallengeStatus is the state of a verification challenge.
type ChallengeStatus string

// Challenge states.
const (
	ChallengePending  ChallengeStatus = "pending"
	ChallengeVerified ChallengeStatus = "verified"
	ChallengeExpired  ChallengeStatus = "expired"
	ChallengeFailed   ChallengeStatus = "failed"
)

// VerificationChallenge is one outstanding phone-proof attempt. It lives
// only inside the flow that requested it.
type VerificationChallenge struct {
	// ID references this challenge in logs. Format: ofvc-{ulid_lowercase}.
	ID string

	// Phone is the number the code was sent to.
	Phone string

	// DevCode is the issued code, set only when the development echo is on.
	DevCode string

	Status   ChallengeStatus
	IssuedAt time.Time

	// Attempts counts rejected checks against this challenge.
	Attempts int
}

// NewVerificationChallenge creates a pending challenge for phone.
func NewVerificationChallenge(phone, devCode string) (*VerificationChallenge, error) {
	id, err := GenerateChallengeID()
	if err != nil {
		return nil, err
	}
	return &VerificationChallenge{
		ID:       id,
		Phone:    phone,
		DevCode:  devCode,
		Status:   ChallengePending,
		IssuedAt: time.Now(),
	}, nil
}

// GenerateChallengeID generates a new challenge reference using ULID.
func GenerateChallengeID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", ErrInternal.WithCause(err)
	}
	return ChallengeIDPrefix + strings.ToLower(id.String()), nil
}

// IsVerified reports whether the phone has been proven by this challenge.
func (c *VerificationChallenge) IsVerified() bool {
	return c.Status == ChallengeVerified
}

// ValidateCode checks that code has the fixed verification code format.
func ValidateCode(code string) error {
	if len(code) != CodeLength {
		return ErrValidation.WithField("code", ReasonCodeFormat)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrValidation.WithField("code", ReasonCodeFormat)
		}
	}
	return nil
}
