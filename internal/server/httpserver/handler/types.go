package handler

import (
	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/server/directory"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// BannerResponse describes an endpoint.
type BannerResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints,omitempty"`
}

// StatusResponse acknowledges an action.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendRequest is the body of POST /sms?action=send.
type SendRequest struct {
	Phone string `json:"phone"`
}

// SendResponse is the reply to a send. DevCode is present only when the
// server echoes codes.
type SendResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	VerificationID string `json:"verification_id"`
	DevCode        string `json:"dev_code,omitempty"`
}

// VerifyRequest is the body of POST /sms?action=verify.
type VerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// RegisterRequest is the body of POST /auth?action=register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth?action=login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// UserResponse is the reply to register and login.
type UserResponse struct {
	Success bool            `json:"success"`
	User    *domain.Account `json:"user"`
}

// ProfileResponse is the reply to GET /auth?action=profile.
type ProfileResponse struct {
	User *directory.Profile `json:"user"`
}

// AddContactRequest is the body of POST /users?action=add_contact.
type AddContactRequest struct {
	UserID        int64 `json:"user_id"`
	ContactUserID int64 `json:"contact_user_id"`
}

// SearchResponse is the reply to GET /users?action=search.
type SearchResponse struct {
	Success bool                `json:"success"`
	Users   []directory.Summary `json:"users"`
	Count   int                 `json:"count"`
}

// ContactsResponse is the reply to GET /users?action=contacts.
type ContactsResponse struct {
	Success  bool                `json:"success"`
	Contacts []directory.Contact `json:"contacts"`
	Count    int                 `json:"count"`
}
