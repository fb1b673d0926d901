package handler

import (
	"net/http"

	"github.com/yndnr/ofchat-go/internal/core/domain"
)

// SMS actions.
const (
	ActionSend   = "send"
	ActionVerify = "verify"
)

// SMSBanner is returned for requests to /sms without an action.
const SMSBanner = "OfChat SMS Verification API"

// handleSMS serves /sms?action=send|verify.
func (h *Handler) handleSMS(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	switch {
	case action == "":
		h.writeJSON(w, http.StatusOK, BannerResponse{Message: SMSBanner})
	case r.Method == http.MethodPost && action == ActionSend:
		h.handleSend(w, r)
	case r.Method == http.MethodPost && action == ActionVerify:
		h.handleVerify(w, r)
	default:
		h.writeError(w, r, domain.ErrUnknownAction)
	}
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.verifier.Send(r.Context(), req.Phone)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, SendResponse{
		Success:        true,
		Message:        "Verification code sent to " + res.Phone,
		VerificationID: res.VerificationID,
		DevCode:        res.DevCode,
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.verifier.Verify(r.Context(), req.Phone, req.Code); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Message: "Phone number verified successfully",
	})
}
