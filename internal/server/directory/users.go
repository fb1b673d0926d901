package directory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yndnr/ofchat-go/internal/core/domain"
)

// MaxSearchResults caps the number of accounts a search returns.
const MaxSearchResults = 20

// Summary is the view of an account that other users may see. It carries
// no contact details.
type Summary struct {
	ID       int64  `json:"id"`
	UniqueID string `json:"unique_id"`
	Username string `json:"username"`
	Online   bool   `json:"is_online"`
}

// Contact is an entry of a contact list.
type Contact struct {
	Summary
	LastSeen time.Time `json:"last_seen"`
	AddedAt  time.Time `json:"added_at"`
}

type contactEdge struct {
	id      int64
	addedAt time.Time
}

func (r *record) summary() Summary {
	return Summary{
		ID:       r.account.ID,
		UniqueID: r.account.UniqueID,
		Username: r.account.Username,
		Online:   r.online,
	}
}

// Search finds accounts by query:
//
//	#ABC123DEF0  exact unique_id, case-insensitive
//	@ali         username substring
//	ali          username or unique_id substring
//
// Substring matches are case-insensitive, ordered by id and capped at
// MaxSearchResults.
func (d *Directory) Search(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrSearchQueryRequired
	}

	var match func(*record) bool
	switch {
	case strings.HasPrefix(query, "#"):
		want := strings.ToUpper(query[1:])
		match = func(r *record) bool { return r.account.UniqueID == want }
	case strings.HasPrefix(query, "@"):
		want := strings.ToLower(query[1:])
		match = func(r *record) bool {
			return strings.Contains(strings.ToLower(r.account.Username), want)
		}
	default:
		want := strings.ToLower(query)
		match = func(r *record) bool {
			return strings.Contains(strings.ToLower(r.account.Username), want) ||
				strings.Contains(strings.ToLower(r.account.UniqueID), want)
		}
	}

	d.mu.RLock()
	out := make([]Summary, 0)
	for _, rec := range d.byID {
		if match(rec) {
			out = append(out, rec.summary())
		}
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > MaxSearchResults {
		out = out[:MaxSearchResults]
	}

	d.logger.DebugContext(ctx, "search", "query", query, "results", len(out))
	return out, nil
}

// AddContact adds contactID to the contact list of userID. It reports
// false when the contact was already there.
func (d *Directory) AddContact(ctx context.Context, userID, contactID int64) (bool, error) {
	if userID <= 0 || contactID <= 0 {
		return false, domain.ErrContactIDsRequired
	}
	if userID == contactID {
		return false, domain.ErrContactSelf
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.byID[userID] == nil || d.byID[contactID] == nil {
		return false, domain.ErrUserNotFound
	}
	for _, e := range d.contacts[userID] {
		if e.id == contactID {
			return false, nil
		}
	}
	d.contacts[userID] = append(d.contacts[userID], contactEdge{id: contactID, addedAt: d.now()})

	d.logger.InfoContext(ctx, "contact added", "user_id", userID, "contact_user_id", contactID)
	return true, nil
}

// Contacts returns the contact list of userID, most recently added first.
func (d *Directory) Contacts(ctx context.Context, userID int64) ([]Contact, error) {
	if userID <= 0 {
		return nil, domain.ErrUserIDRequired
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.byID[userID] == nil {
		return nil, domain.ErrUserNotFound
	}
	edges := d.contacts[userID]
	out := make([]Contact, 0, len(edges))
	for i := len(edges) - 1; i >= 0; i-- {
		rec := d.byID[edges[i].id]
		out = append(out, Contact{
			Summary:  rec.summary(),
			LastSeen: rec.lastSeen,
			AddedAt:  edges[i].addedAt,
		})
	}
	return out, nil
}
