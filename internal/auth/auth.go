// Package auth carries the authenticated identity the sync engine works
// under. Acquiring the token is someone else's job (the browser extension's
// OAuth flow); this package persists and serves whatever that flow produced.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/example/vocabsync/pkg/models"
)

// Session state keys in the key-value store.
const (
	keyUser  = "auth_user"
	keyToken = "auth_token"
)

// KV is the durable key-value layer sessions are persisted in.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// TokenSource produces a user and bearer token, e.g. by completing a Google
// OAuth flow in the browser.
type TokenSource interface {
	Exchange(ctx context.Context) (*models.User, string, error)
}

// Manager holds the current session and keeps it persisted across process
// restarts.
type Manager struct {
	store  KV
	source TokenSource
	logger *log.Logger

	mu    sync.RWMutex
	user  *models.User
	token string
}

// NewManager restores any persisted session from the store. source may be
// nil when interactive sign-in is not available (e.g. headless import runs).
func NewManager(store KV, source TokenSource, logger *log.Logger) (*Manager, error) {
	m := &Manager{store: store, source: source, logger: logger}

	token, err := store.Get(keyToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load auth token: %v", err)
	}
	rawUser, err := store.Get(keyUser)
	if err != nil {
		return nil, fmt.Errorf("failed to load auth user: %v", err)
	}

	if token != "" && rawUser != "" {
		var user models.User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			return nil, fmt.Errorf("failed to parse persisted user: %v", err)
		}
		m.user = &user
		m.token = token
	}
	return m, nil
}

// CurrentUser returns the signed-in user, or nil.
func (m *Manager) CurrentUser() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// AccessToken returns the bearer token, or the empty string.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// SignInWithGoogle runs the configured token source and persists the
// session. It returns nil on any failure rather than an error; callers
// only need to know whether a user is now present.
func (m *Manager) SignInWithGoogle(ctx context.Context) *models.User {
	if m.source == nil {
		return nil
	}
	user, token, err := m.source.Exchange(ctx)
	if err != nil || user == nil || token == "" {
		if err != nil && m.logger != nil {
			m.logger.Printf("sign-in failed: %v", err)
		}
		return nil
	}
	if err := m.SetSession(user, token); err != nil {
		if m.logger != nil {
			m.logger.Printf("failed to persist session: %v", err)
		}
		return nil
	}
	return user
}

// SetSession stores a user/token pair directly, for flows that completed
// elsewhere.
func (m *Manager) SetSession(user *models.User, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %v", err)
	}
	if err := m.store.Set(keyUser, string(raw)); err != nil {
		return err
	}
	if err := m.store.Set(keyToken, token); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = user
	m.token = token
	m.mu.Unlock()
	return nil
}

// SignOut clears the session in memory and in the store.
func (m *Manager) SignOut() error {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	if err := m.store.Set(keyUser, ""); err != nil {
		return err
	}
	return m.store.Set(keyToken, "")
}
