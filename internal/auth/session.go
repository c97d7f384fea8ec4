package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/khrees2412/hirepipe/pkg/models"
)

// Keys of the persisted client state
const (
	KeyCurrentUser  = "currentUser"
	KeyAuthToken    = "authToken"
	KeyRefreshToken = "refreshToken"
)

// StateStore is durable key/value client storage
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	SetState(ctx context.Context, key, value string) error
	DeleteState(ctx context.Context, key string) error
}

// Session is the signed-in user and tokens, mirrored to a StateStore
type Session struct {
	store StateStore

	mu      sync.RWMutex
	user    *models.User
	token   string
	refresh string
}

// NewSession creates an empty session backed by store
func NewSession(store StateStore) *Session {
	return &Session{store: store}
}

// Restore loads the persisted session. A missing record leaves the session
// signed out; a corrupt one is removed.
func (s *Session) Restore(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.store.GetState(ctx, KeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		_ = s.Clear(ctx)
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	token, _, err := s.store.GetState(ctx, KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read auth token: %w", err)
	}
	refresh, _, err := s.store.GetState(ctx, KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}

	s.mu.Lock()
	s.user, s.token, s.refresh = &user, token, refresh
	s.mu.Unlock()
	return &user, nil
}

// Save persists user and tokens. An empty token removes the stored one, so a
// restored session never pairs this user with an earlier user's token.
func (s *Session) Save(ctx context.Context, user models.User, token, refresh string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	for _, kv := range [][2]string{{KeyAuthToken, token}, {KeyRefreshToken, refresh}} {
		key, value := kv[0], kv[1]
		if value == "" {
			err = s.store.DeleteState(ctx, key)
		} else {
			err = s.store.SetState(ctx, key, value)
		}
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	if err := s.store.SetState(ctx, KeyCurrentUser, string(raw)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.user, s.token, s.refresh = &user, token, refresh
	s.mu.Unlock()
	return nil
}

// Clear signs out locally and removes every persisted key
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.user, s.token, s.refresh = nil, "", ""
	s.mu.Unlock()

	for _, key := range []string{KeyCurrentUser, KeyAuthToken, KeyRefreshToken} {
		if err := s.store.DeleteState(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

// User returns the signed-in user
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Token returns the access token sent with remote calls
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
