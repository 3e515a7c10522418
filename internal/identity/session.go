// Package identity tracks the current storefront user. Presence of a user is
// the sole determinant of the cart's ownership mode.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// StorageKey is the local-store slot holding the serialized user.
const StorageKey = "levelup:user"

// User is the authenticated storefront user as returned by the auth service.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Authenticator exchanges credentials for a user. Implemented by the auth
// service gateway; session issuance stays server-side.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (User, error)
}

// SlotStore is the durable local store the session is persisted in.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Session holds the current user in memory and mirrors it to the local
// store so the login survives restarts.
type Session struct {
	slots SlotStore
	auth  Authenticator
	log   *zap.Logger

	mu   sync.RWMutex
	user *User
}

// NewSession hydrates the session from the local store. A missing or
// corrupted slot leaves the session anonymous.
func NewSession(slots SlotStore, auth Authenticator, log *zap.Logger) *Session {
	s := &Session{slots: slots, auth: auth, log: log}

	raw, ok, err := slots.Get(context.Background(), StorageKey)
	if err != nil {
		log.Warn("session slot unreadable, starting anonymous", zap.Error(err))
		return s
	}
	if !ok {
		return s
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil || u.ID == "" {
		log.Warn("session slot corrupted, starting anonymous")
		return s
	}
	s.user = &u
	return s
}

// Current returns a copy of the current user, or nil while anonymous.
func (s *Session) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID reports the current user id and whether a user is present. Shaped
// to serve as the cart manager's identity accessor.
func (s *Session) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return "", false
	}
	return s.user.ID, true
}

// Login authenticates against the auth service and persists the user on
// success. A failed login leaves the session unchanged.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()

	raw, err := json.Marshal(u)
	if err == nil {
		err = s.slots.Put(ctx, StorageKey, raw)
	}
	if err != nil {
		// Session still works for this process lifetime
		s.log.Warn("persisting session failed", zap.Error(err))
	}

	out := u
	return &out, nil
}

// Logout drops the current user and clears the persisted slot.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.slots.Delete(ctx, StorageKey); err != nil {
		s.log.Warn("clearing session slot failed", zap.Error(err))
	}
}
