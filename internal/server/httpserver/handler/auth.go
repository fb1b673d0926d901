package handler

import (
	"net/http"
	"strconv"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/server/directory"
)

// Auth actions.
const (
	ActionRegister = "register"
	ActionLogin    = "login"
	ActionProfile  = "profile"
)

// AuthBanner is returned for requests to /auth without an action.
const AuthBanner = "OfChat Auth API"

// handleAuth serves /auth?action=register|login|profile.
func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	switch {
	case action == "":
		h.writeJSON(w, http.StatusOK, BannerResponse{
			Message:   AuthBanner,
			Endpoints: []string{"/register", "/login", "/profile"},
		})
	case r.Method == http.MethodPost && action == ActionRegister:
		h.handleRegister(w, r)
	case r.Method == http.MethodPost && action == ActionLogin:
		h.handleLogin(w, r)
	case r.Method == http.MethodGet && action == ActionProfile:
		h.handleProfile(w, r)
	default:
		h.writeError(w, r, domain.ErrUnknownAction)
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.accounts.Register(r.Context(), directory.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, UserResponse{Success: true, User: account})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.accounts.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, UserResponse{Success: true, User: account})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		h.writeError(w, r, domain.ErrUserIDRequired)
		return
	}

	profile, err := h.accounts.Profile(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ProfileResponse{User: profile})
}
