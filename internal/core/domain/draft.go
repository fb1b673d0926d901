package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validation reasons shown to the user.
const (
	ReasonPasswordMismatch = "password mismatch"
	ReasonPhoneRequired    = "phone is required"
	ReasonUsernameRequired = "username is required"
	ReasonPasswordRequired = "password is required"
	ReasonEmailMalformed   = "email is not a valid address"
	ReasonIdentifierEmpty  = "identifier is required"
	ReasonCodeFormat       = "code must be 6 digits"
)

// RegistrationDraft holds the registration form while the flow is running.
type RegistrationDraft struct {
	Username             string
	Email                string
	Phone                string
	Password             string
	PasswordConfirmation string
}

// Normalized returns a copy with surrounding whitespace removed from
// every field except the passwords.
func (d RegistrationDraft) Normalized() RegistrationDraft {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = NormalizePhone(d.Phone)
	return d
}

// Validate checks the draft and returns the first violation found.
//
// The password confirmation is checked first and the phone second; no
// verification code may be requested for a draft that fails either.
func (d RegistrationDraft) Validate() error {
	d = d.Normalized()

	switch {
	case d.Password != d.PasswordConfirmation:
		return ErrValidation.WithField("password_confirmation", ReasonPasswordMismatch)
	case d.Phone == "":
		return ErrValidation.WithField("phone", ReasonPhoneRequired)
	case d.Username == "":
		return ErrValidation.WithField("username", ReasonUsernameRequired)
	case d.Password == "":
		return ErrValidation.WithField("password", ReasonPasswordRequired)
	case d.Email != "" && !emailPattern.MatchString(d.Email):
		return ErrValidation.WithField("email", ReasonEmailMalformed)
	}
	return nil
}

// Credentials are the login form values. They are never persisted.
type Credentials struct {
	// Identifier is a username, email or phone; the account service decides which.
	Identifier string
	Password   string
}

// Validate requires both fields.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Identifier) == "" {
		return ErrValidation.WithField("identifier", ReasonIdentifierEmpty)
	}
	if c.Password == "" {
		return ErrValidation.WithField("password", ReasonPasswordRequired)
	}
	return nil
}

// NormalizePhone strips whitespace and common separators from a phone number.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// IsValidEmail reports whether email looks like an address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
