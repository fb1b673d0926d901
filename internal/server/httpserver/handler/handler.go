package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/server/directory"
	"github.com/yndnr/ofchat-go/internal/server/verifier"
)

// maxBodySize caps request bodies.
const maxBodySize = 64 << 10

// Verifier issues and checks SMS codes.
type Verifier interface {
	Send(ctx context.Context, phone string) (*verifier.SendResult, error)
	Verify(ctx context.Context, phone, code string) error
}

// Accounts manages user accounts and their contact lists.
type Accounts interface {
	Register(ctx context.Context, in directory.RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, identifier, password string) (*domain.Account, error)
	Profile(ctx context.Context, id int64) (*directory.Profile, error)
	Search(ctx context.Context, query string) ([]directory.Summary, error)
	AddContact(ctx context.Context, userID, contactID int64) (bool, error)
	Contacts(ctx context.Context, userID int64) ([]directory.Contact, error)
}

// Handler serves the SMS, auth and users action endpoints and the health
// probe.
//
// The action endpoints select the operation with the "action" query
// parameter. A request without an action gets the endpoint banner.
type Handler struct {
	verifier Verifier
	accounts Accounts
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Handler.
func New(v Verifier, accounts Accounts, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		verifier: v,
		accounts: accounts,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("/sms", h.handleSMS)
	h.mux.HandleFunc("/auth", h.handleAuth)
	h.mux.HandleFunc("/users", h.handleUsers)
}

// writeJSON writes data as the JSON reply body.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes {"error": reason, "code": code} with the status the
// code maps to. Errors that are not domain errors become a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		de = domain.ErrInternal
	}

	status := de.HTTPStatus()
	reason := de.Reason()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "code", de.Code, "error", err)
		reason = de.Message
	}

	w.Header().Set("X-Error-Code", de.Code)
	h.writeJSON(w, status, ErrorResponse{Error: reason, Code: de.Code})
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return domain.ErrValidation.WithDetails("Unable to read request body").WithCause(err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return domain.ErrValidation.WithDetails("Invalid JSON body").WithCause(err)
	}
	return nil
}
