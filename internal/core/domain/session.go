// Package domain defines the core domain models for OfChat.
//
// Domain models are pure value objects and entities without any
// IO dependencies or framework coupling.
package domain

import (
	"strings"
)

// SessionKey is the well-known storage key of the persisted session record.
const SessionKey = "ofchat_user"

// UserSession identifies the logged-in account to the rest of the application.
//
// A session is either absent or fully populated: UniqueID and Username are
// never blank on a session that has been saved.
type UserSession struct {
	// UniqueID is the stable, server-assigned account identifier.
	UniqueID string `json:"unique_id" yaml:"unique_id"`

	// Username is the account's login name.
	Username string `json:"username" yaml:"username"`

	// Email is optional.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Phone is optional.
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Validate checks that the session is fully populated.
func (s *UserSession) Validate() error {
	var violations []string

	if strings.TrimSpace(s.UniqueID) == "" {
		violations = append(violations, "unique_id is required")
	}
	if strings.TrimSpace(s.Username) == "" {
		violations = append(violations, "username is required")
	}

	if len(violations) > 0 {
		return ErrValidation.WithField("session", strings.Join(violations, "; "))
	}
	return nil
}

// Account is the account record returned by the account service.
type Account struct {
	// ID is the service's internal numeric row id.
	ID int64 `json:"id"`

	UniqueID string `json:"unique_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Session projects the account to the session record kept by the client.
func (a *Account) Session() UserSession {
	return UserSession{
		UniqueID: a.UniqueID,
		Username: a.Username,
		Email:    a.Email,
		Phone:    a.Phone,
	}
}
