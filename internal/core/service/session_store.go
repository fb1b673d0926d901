package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/yndnr/ofchat-go/internal/core/domain"
	"github.com/yndnr/ofchat-go/internal/storage"
)

// KVStore is the subset of storage.KV the session store needs.
type KVStore interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
}

// SessionStore persists the single logged-in session under domain.SessionKey.
//
// Absence is reported as (nil, nil). A record that does not decode into a
// complete session is treated as absent; only a failing storage engine
// produces an error.
type SessionStore struct {
	kv     KVStore
	key    []byte
	logger *slog.Logger
}

// NewSessionStore creates a SessionStore backed by kv.
func NewSessionStore(kv KVStore, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		kv:     kv,
		key:    []byte(domain.SessionKey),
		logger: logger,
	}
}

// Load returns the saved session, or nil if there is none.
func (s *SessionStore) Load(ctx context.Context) (*domain.UserSession, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, domain.ErrStorage.WithDetails("load session").WithCause(err)
	}

	var session domain.UserSession
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Warn("discarding unreadable session record", "error", err)
		return nil, nil
	}
	if err := session.Validate(); err != nil {
		s.logger.Warn("discarding incomplete session record", "error", err)
		return nil, nil
	}

	return &session, nil
}

// Save overwrites any previously saved session.
func (s *SessionStore) Save(ctx context.Context, session domain.UserSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(session)
	if err != nil {
		return domain.ErrStorage.WithDetails("encode session").WithCause(err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return domain.ErrStorage.WithDetails("save session").WithCause(err)
	}

	s.logger.Debug("session saved", "unique_id", session.UniqueID)
	return nil
}

// Clear removes the saved session. Clearing an empty store is a no-op.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return domain.ErrStorage.WithDetails("clear session").WithCause(err)
	}
	return nil
}
