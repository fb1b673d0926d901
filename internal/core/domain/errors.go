// Package domain defines the core domain models for OfChat.
package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Category groups error codes by the recovery the caller has to offer.
// Every error surfaced by the auth flow carries exactly one category.
type Category string

// Error categories.
const (
	CategoryValidation           Category = "validation"
	CategoryNetwork              Category = "network"
	CategoryVerificationRequest  Category = "verification_request"
	CategoryVerificationMismatch Category = "verification_mismatch"
	CategoryRegistration         Category = "registration"
	CategoryAuthentication       Category = "authentication"
	CategoryAborted              Category = "aborted"
	CategoryStorage              Category = "storage"
	CategoryInternal             Category = "internal"
)

// DomainError represents a business domain error with a structured error code.
//
// Codes have the form OF-<AREA>-<NNNN> where the numeric suffix follows the
// HTTP status the error maps to (e.g. OF-VALD-4000).
type DomainError struct {
	Code     string   // Error code (e.g., "OF-VALD-4000")
	Category Category // Recovery category
	Message  string   // Human-readable message
	Field    string   // Offending input field, validation errors only
	Details  string   // Optional additional details (service-provided reason)
	Cause    error    // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	details := e.Details
	if e.Field != "" {
		details = e.Field + ": " + details
	}
	if details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Reason returns the short text meant for display next to the category.
func (e *DomainError) Reason() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code string, category Category, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Category: category,
		Message:  message,
	}
}

func (e *DomainError) clone() *DomainError {
	c := *e
	return &c
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := e.clone()
	c.Details = details
	return c
}

// WithField returns a copy of the error naming the invalid field and the reason.
func (e *DomainError) WithField(field, reason string) *DomainError {
	c := e.clone()
	c.Field = field
	c.Details = reason
	return c
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := e.clone()
	c.Cause = cause
	return c
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// CategoryOf returns the category of err, or CategoryInternal for errors
// that did not originate in this package.
func CategoryOf(err error) Category {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Category
	}
	return CategoryInternal
}

// ReasonOf returns the display reason of err.
func ReasonOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Reason()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// ============================================================================
// Auth Flow Errors
// ============================================================================

var (
	// ErrValidation indicates a local precondition failed; nothing was sent.
	ErrValidation = NewDomainError("OF-VALD-4000", CategoryValidation, "validation failed")

	// ErrNetwork indicates the service could not be reached or its reply was unreadable.
	ErrNetwork = NewDomainError("OF-NETW-5030", CategoryNetwork, "unable to reach the server, check your connection")

	// ErrVerificationRequest indicates the service refused to issue a code.
	ErrVerificationRequest = NewDomainError("OF-VREQ-4000", CategoryVerificationRequest, "verification code request rejected")

	// ErrVerificationMismatch indicates the code was wrong, expired or exhausted.
	ErrVerificationMismatch = NewDomainError("OF-VMIS-4010", CategoryVerificationMismatch, "verification failed")

	// ErrRegistration indicates the account service rejected the new account.
	ErrRegistration = NewDomainError("OF-REGN-4090", CategoryRegistration, "registration rejected")

	// ErrAuthentication indicates the account service rejected the credentials.
	ErrAuthentication = NewDomainError("OF-AUTH-4010", CategoryAuthentication, "authentication failed")

	// ErrFlowAborted indicates the flow was cancelled or reset while a call was in flight.
	ErrFlowAborted = NewDomainError("OF-FLOW-4990", CategoryAborted, "flow was cancelled")
)

// ============================================================================
// Verification Service Errors
// ============================================================================

var (
	// ErrPhoneRequired indicates the send request carried no phone number.
	ErrPhoneRequired = NewDomainError("OF-SMS-4000", CategoryVerificationRequest, "Phone number is required")

	// ErrCodeInputRequired indicates the verify request lacked phone or code.
	ErrCodeInputRequired = NewDomainError("OF-SMS-4001", CategoryVerificationMismatch, "Phone and code are required")

	// ErrRateLimited indicates a code was requested too soon after the previous one.
	ErrRateLimited = NewDomainError("OF-SMS-4290", CategoryVerificationRequest, "Please wait before requesting a new code")

	// ErrCodeNotFound indicates there is no active code for the phone.
	ErrCodeNotFound = NewDomainError("OF-SMS-4040", CategoryVerificationMismatch, "No verification code found")

	// ErrTooManyAttempts indicates the code was locked after too many wrong guesses.
	ErrTooManyAttempts = NewDomainError("OF-SMS-4030", CategoryVerificationMismatch, "Too many attempts. Request a new code")

	// ErrCodeExpired indicates the code outlived its TTL.
	ErrCodeExpired = NewDomainError("OF-SMS-4100", CategoryVerificationMismatch, "Verification code expired")

	// ErrInvalidCode indicates the code does not match.
	ErrInvalidCode = NewDomainError("OF-SMS-4010", CategoryVerificationMismatch, "Invalid verification code")
)

// ============================================================================
// Account Service Errors
// ============================================================================

var (
	// ErrAccountFieldsRequired indicates username or password is missing.
	ErrAccountFieldsRequired = NewDomainError("OF-ACCT-4000", CategoryRegistration, "Username and password are required")

	// ErrContactRequired indicates neither email nor phone was given.
	ErrContactRequired = NewDomainError("OF-ACCT-4001", CategoryRegistration, "Email or phone is required")

	// ErrDuplicateUsername indicates the username is taken.
	ErrDuplicateUsername = NewDomainError("OF-ACCT-4090", CategoryRegistration, "Username already exists")

	// ErrDuplicateEmail indicates the email is bound to another account.
	ErrDuplicateEmail = NewDomainError("OF-ACCT-4091", CategoryRegistration, "Email already registered")

	// ErrDuplicatePhone indicates the phone is bound to another account.
	ErrDuplicatePhone = NewDomainError("OF-ACCT-4092", CategoryRegistration, "Phone already registered")

	// ErrCredentialsRequired indicates identifier or password is missing.
	ErrCredentialsRequired = NewDomainError("OF-ACCT-4002", CategoryAuthentication, "Identifier and password are required")

	// ErrInvalidCredentials indicates no account matches the identifier and password.
	ErrInvalidCredentials = NewDomainError("OF-ACCT-4010", CategoryAuthentication, "Invalid credentials")

	// ErrUserIDRequired indicates the profile request lacked a numeric user_id.
	ErrUserIDRequired = NewDomainError("OF-ACCT-4003", CategoryAuthentication, "User ID is required")

	// ErrUserNotFound indicates the profile lookup found nothing.
	ErrUserNotFound = NewDomainError("OF-ACCT-4040", CategoryAuthentication, "User not found")
)

// ============================================================================
// Users Service Errors
// ============================================================================

var (
	// ErrSearchQueryRequired indicates a search without a query.
	ErrSearchQueryRequired = NewDomainError("OF-USER-4000", CategoryValidation, "Search query is required")

	// ErrContactIDsRequired indicates add_contact lacked one of the two ids.
	ErrContactIDsRequired = NewDomainError("OF-USER-4001", CategoryValidation, "user_id and contact_user_id are required")

	// ErrContactSelf indicates an account tried to add itself as a contact.
	ErrContactSelf = NewDomainError("OF-USER-4002", CategoryValidation, "Cannot add yourself as contact")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected server-side failure.
	ErrInternal = NewDomainError("OF-SYS-5000", CategoryInternal, "internal server error")

	// ErrStorage indicates a storage layer error.
	ErrStorage = NewDomainError("OF-SYS-5001", CategoryStorage, "storage error")

	// ErrUnknownAction indicates the request named an action the endpoint does not serve.
	ErrUnknownAction = NewDomainError("OF-SYS-4000", CategoryInternal, "Invalid action")
)

// knownErrors indexes the sentinels above by code.
var knownErrors = func() map[string]*DomainError {
	m := make(map[string]*DomainError)
	for _, e := range []*DomainError{
		ErrValidation, ErrNetwork, ErrVerificationRequest, ErrVerificationMismatch,
		ErrRegistration, ErrAuthentication, ErrFlowAborted,
		ErrPhoneRequired, ErrCodeInputRequired, ErrRateLimited, ErrCodeNotFound,
		ErrTooManyAttempts, ErrCodeExpired, ErrInvalidCode,
		ErrAccountFieldsRequired, ErrContactRequired, ErrDuplicateUsername,
		ErrDuplicateEmail, ErrDuplicatePhone, ErrCredentialsRequired,
		ErrInvalidCredentials, ErrUserIDRequired, ErrUserNotFound,
		ErrSearchQueryRequired, ErrContactIDsRequired, ErrContactSelf,
		ErrInternal, ErrStorage, ErrUnknownAction,
	} {
		m[e.Code] = e
	}
	return m
}()

// ErrorByCode returns the sentinel registered for code.
func ErrorByCode(code string) (*DomainError, bool) {
	e, ok := knownErrors[code]
	return e, ok
}

// HTTPStatus returns the HTTP status encoded in the error code suffix,
// or 500 when the code does not carry one.
func (e *DomainError) HTTPStatus() int {
	i := strings.LastIndexByte(e.Code, '-')
	if i < 0 || len(e.Code)-i-1 != 4 {
		return 500
	}
	n, err := strconv.Atoi(e.Code[i+1:])
	if err != nil || n < 1000 || n > 5999 {
		return 500
	}
	return n / 10
}
