package handler

import (
	"net/http"
	"strconv"

	"github.com/yndnr/ofchat-go/internal/core/domain"
)

// Users actions.
const (
	ActionSearch     = "search"
	ActionAddContact = "add_contact"
	ActionContacts   = "contacts"
)

// UsersBanner is returned for requests to /users without an action.
const UsersBanner = "OfChat Users API"

// handleUsers serves /users?action=search|add_contact|contacts.
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	switch {
	case action == "":
		h.writeJSON(w, http.StatusOK, BannerResponse{Message: UsersBanner})
	case r.Method == http.MethodGet && action == ActionSearch:
		h.handleSearch(w, r)
	case r.Method == http.MethodPost && action == ActionAddContact:
		h.handleAddContact(w, r)
	case r.Method == http.MethodGet && action == ActionContacts:
		h.handleContacts(w, r)
	default:
		h.writeError(w, r, domain.ErrUnknownAction)
	}
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, SearchResponse{Success: true, Users: users, Count: len(users)})
}

func (h *Handler) handleAddContact(w http.ResponseWriter, r *http.Request) {
	var req AddContactRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	added, err := h.accounts.AddContact(r.Context(), req.UserID, req.ContactUserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if !added {
		h.writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Contact already exists"})
		return
	}
	h.writeJSON(w, http.StatusCreated, StatusResponse{Success: true, Message: "Contact added successfully"})
}

func (h *Handler) handleContacts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		h.writeError(w, r, domain.ErrUserIDRequired)
		return
	}

	contacts, err := h.accounts.Contacts(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ContactsResponse{Success: true, Contacts: contacts, Count: len(contacts)})
}
