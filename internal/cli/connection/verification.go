package connection

import (
	"context"
	"net/http"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/core/service"
)

// Verification actions.
const (
	ActionSend   = "send"
	ActionVerify = "verify"
)

// VerificationClient implements service.VerificationService over HTTP.
type VerificationClient struct {
	http *HTTPClient
}

var _ service.VerificationService = (*VerificationClient)(nil)

// NewVerificationClient creates a client for the verification endpoint.
func NewVerificationClient(c *HTTPClient) *VerificationClient {
	return &VerificationClient{http: c}
}

type sendRequest struct {
	Phone string `json:"phone"`
}

type sendResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	VerificationID string `json:"verification_id"`
	DevCode        string `json:"dev_code,omitempty"`
}

type verifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// RequestCode asks the service to send a code to phone.
func (v *VerificationClient) RequestCode(ctx context.Context, phone string) (*service.CodeIssue, error) {
	var resp sendResponse
	if err := v.http.PostAction(ctx, ActionSend, sendRequest{Phone: phone}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, domain.ErrNetwork.WithDetails("unexpected response to send")
	}
	return &service.CodeIssue{
		VerificationID: resp.VerificationID,
		DevCode:        resp.DevCode,
	}, nil
}

// CheckCode checks code against the outstanding code for phone.
func (v *VerificationClient) CheckCode(ctx context.Context, phone, code string) (domain.ChallengeStatus, error) {
	var resp envelope
	status, err := v.http.postAction(ctx, ActionVerify, verifyRequest{Phone: phone, Code: code}, &resp)
	if err != nil {
		return challengeStatus(status), err
	}
	if !resp.Success {
		return domain.ChallengePending, domain.ErrNetwork.WithDetails("unexpected response to verify")
	}
	return domain.ChallengeVerified, nil
}

// challengeStatus reads what became of the challenge from a rejected
// verify reply.
func challengeStatus(status int) domain.ChallengeStatus {
	switch status {
	case http.StatusGone:
		return domain.ChallengeExpired
	case http.StatusForbidden, http.StatusNotFound:
		return domain.ChallengeFailed
	default:
		return domain.ChallengePending
	}
}
