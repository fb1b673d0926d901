package verifier

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecord is returned by a CodeStore when the phone has no code.
var ErrNoRecord = errors.New("verifier: no code record")

// CodeRecord is the outstanding code for one phone number.
type CodeRecord struct {
	VerificationID string
	CodeHash       string
	IssuedAt       time.Time
	ExpiresAt      time.Time
	Attempts       int
}

// CodeStore persists code records by phone number.
//
// Save replaces any previous record for the phone. retain bounds how long
// the record is kept; it outlives ExpiresAt so an expired code can still be
// reported as expired rather than missing.
type CodeStore interface {
	Save(ctx context.Context, phone string, rec CodeRecord, retain time.Duration) error
	Get(ctx context.Context, phone string) (*CodeRecord, error)
	IncrAttempts(ctx context.Context, phone string) (int, error)
	Delete(ctx context.Context, phone string) error
}
