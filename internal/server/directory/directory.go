// Package directory is the in-memory account directory of
// ofchat-devserver.
package directory

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
	"github.com/yndnr/ofchat-go/pkg/token"
)

// uniqueIDBytes is the number of random bytes in a unique_id (10 hex chars).
const uniqueIDBytes = 5

// RegisterInput is an account creation request.
type RegisterInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// Profile is the public view of an account.
type Profile struct {
	domain.Account
	Online   bool      `json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
}

type record struct {
	account      domain.Account
	passwordHash string
	createdAt    time.Time
	lastSeen     time.Time
	online       bool
}

// Directory stores accounts with unique username, email and phone.
type Directory struct {
	logger  *slog.Logger
	metrics *metric.Registry
	now     func() time.Time

	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]*record
	byUsername map[string]int64
	byEmail    map[string]int64
	byPhone    map[string]int64
	contacts   map[int64][]contactEdge
}

// Option configures a Directory.
type Option func(*Directory)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMetrics counts registrations and logins in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(d *Directory) {
		d.metrics = reg
	}
}

// New creates an empty directory.
func New(opts ...Option) *Directory {
	d := &Directory{
		logger:     slog.Default(),
		now:        time.Now,
		byID:       make(map[int64]*record),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
		byPhone:    make(map[string]int64),
		contacts:   make(map[int64][]contactEdge),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register creates an account. Email and phone are optional but at least
// one is required.
func (d *Directory) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = domain.NormalizePhone(in.Phone)
	in.Password = strings.TrimSpace(in.Password)

	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrAccountFieldsRequired
	}
	if in.Email == "" && in.Phone == "" {
		return nil, domain.ErrContactRequired
	}

	hash, err := token.HashPassword(in.Password)
	if err != nil {
		return nil, domain.ErrInternal.WithDetails("hash password").WithCause(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkUnique(in); err != nil {
		return nil, err
	}
	uniqueID, err := d.newUniqueID()
	if err != nil {
		return nil, err
	}

	d.nextID++
	now := d.now()
	rec := &record{
		account: domain.Account{
			ID:       d.nextID,
			UniqueID: uniqueID,
			Username: in.Username,
			Email:    in.Email,
			Phone:    in.Phone,
		},
		passwordHash: hash,
		createdAt:    now,
		lastSeen:     now,
	}
	d.byID[rec.account.ID] = rec
	d.byUsername[in.Username] = rec.account.ID
	if in.Email != "" {
		d.byEmail[in.Email] = rec.account.ID
	}
	if in.Phone != "" {
		d.byPhone[in.Phone] = rec.account.ID
	}

	if d.metrics != nil {
		d.metrics.IncAccountsRegistered()
	}
	d.logger.InfoContext(ctx, "account registered",
		"id", rec.account.ID,
		"unique_id", uniqueID,
		"username", in.Username)

	account := rec.account
	return &account, nil
}

// checkUnique rejects a registration that reuses a username, email or
// phone. Caller holds d.mu.
func (d *Directory) checkUnique(in RegisterInput) error {
	if _, ok := d.byUsername[in.Username]; ok {
		return domain.ErrDuplicateUsername
	}
	if _, ok := d.byEmail[in.Email]; ok && in.Email != "" {
		return domain.ErrDuplicateEmail
	}
	if _, ok := d.byPhone[in.Phone]; ok && in.Phone != "" {
		return domain.ErrDuplicatePhone
	}
	return nil
}

// newUniqueID draws unique_id values until one is free. Caller holds d.mu.
func (d *Directory) newUniqueID() (string, error) {
	for i := 0; i < 5; i++ {
		id, err := token.GenerateHex(uniqueIDBytes)
		if err != nil {
			return "", domain.ErrInternal.WithDetails("generate unique id").WithCause(err)
		}
		if !d.uniqueIDTaken(id) {
			return id, nil
		}
	}
	return "", domain.ErrInternal.WithDetails("unique id space exhausted")
}

func (d *Directory) uniqueIDTaken(id string) bool {
	for _, rec := range d.byID {
		if rec.account.UniqueID == id {
			return true
		}
	}
	return false
}

// Login authenticates identifier, which may be a username, email or phone,
// with password.
func (d *Directory) Login(ctx context.Context, identifier, password string) (*domain.Account, error) {
	account, err := d.login(ctx, strings.TrimSpace(identifier), strings.TrimSpace(password))
	if d.metrics != nil {
		result := metric.ResultSuccess
		if err != nil {
			result = metric.ResultFailure
		}
		d.metrics.RecordLogin(result)
	}
	return account, err
}

func (d *Directory) login(ctx context.Context, identifier, password string) (*domain.Account, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrCredentialsRequired
	}

	d.mu.RLock()
	candidates := d.candidates(identifier)
	d.mu.RUnlock()

	for _, c := range candidates {
		if !token.VerifyPassword(password, c.passwordHash) {
			continue
		}

		d.mu.Lock()
		rec, ok := d.byID[c.account.ID]
		if ok {
			rec.online = true
			rec.lastSeen = d.now()
		}
		d.mu.Unlock()
		if !ok {
			break
		}

		d.logger.InfoContext(ctx, "login succeeded", "id", c.account.ID, "unique_id", c.account.UniqueID)
		account := c.account
		return &account, nil
	}

	d.logger.DebugContext(ctx, "login failed", "identifier", identifier)
	return nil, domain.ErrInvalidCredentials
}

// candidates returns snapshots of the accounts identifier could name.
// Phones are stored normalized, so the phone lookup normalizes too.
// Caller holds d.mu.
func (d *Directory) candidates(identifier string) []record {
	lookups := []struct {
		index map[string]int64
		key   string
	}{
		{d.byUsername, identifier},
		{d.byEmail, identifier},
		{d.byPhone, domain.NormalizePhone(identifier)},
	}

	var out []record
	seen := make(map[int64]bool)
	for _, l := range lookups {
		id, ok := l.index[l.key]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, *d.byID[id])
	}
	return out
}

// Profile returns the public profile of the account with the given id.
func (d *Directory) Profile(ctx context.Context, id int64) (*Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &Profile{
		Account:  rec.account,
		Online:   rec.online,
		LastSeen: rec.lastSeen,
	}, nil
}

// Len returns the number of accounts.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}
