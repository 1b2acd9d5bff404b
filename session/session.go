// Package session owns the platform session token: acquisition,
// keyring persistence and expiry-triggered re-authentication.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorant/keyring"
	"gorant/models"
)

// LoginFunc performs the username/password login exchange against the
// platform. The client package supplies it; keeping it a function value
// avoids a dependency cycle between session and client.
type LoginFunc func(ctx context.Context, username, password string) (models.AuthToken, error)

// Manager serializes all token state behind one mutex. When a token has
// expired, the first caller through EnsureValid performs the single refresh
// exchange while every concurrent caller blocks on the lock and then
// observes the refreshed token; a login round trip is never duplicated.
type Manager struct {
	mu    sync.Mutex
	login LoginFunc
	ring  keyring.Store // nil disables persistence
	now   func() time.Time

	token    *models.AuthToken
	username string
	password string
	loaded   bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithKeyring enables credential persistence through the given store.
func WithKeyring(ring keyring.Store) Option {
	return func(m *Manager) { m.ring = ring }
}

// WithClock overrides the expiry clock; used by tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New builds a Manager around the given login exchange.
func New(login LoginFunc, opts ...Option) *Manager {
	m := &Manager{login: login, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type storedCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LogIn performs the login exchange and, on success, retains and persists
// the resulting token together with the raw login pair for later refresh.
// On failure any previously persisted credentials are cleared and the
// server's error is returned untouched.
func (m *Manager) LogIn(ctx context.Context, username, password string) (models.AuthToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.login(ctx, username, password)
	if err != nil {
		m.clearPersisted()
		return models.AuthToken{}, err
	}

	m.token = &token
	m.username = username
	m.password = password
	m.loaded = true
	m.persist(token)
	return token, nil
}

// EnsureValid returns an unexpired token, refreshing through a single
// re-authentication exchange when necessary. The fast path returns the
// current token without touching the network.
func (m *Manager) EnsureValid(ctx context.Context) (models.AuthToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.token != nil && !m.token.Expired(now) {
		return *m.token, nil
	}

	if !m.loaded {
		m.loadPersisted()
		if m.token != nil && !m.token.Expired(now) {
			return *m.token, nil
		}
	}

	if m.username == "" {
		return models.AuthToken{}, models.NewAuthError("not logged in")
	}

	token, err := m.login(ctx, m.username, m.password)
	if err != nil {
		// prior state is left as it was; the caller sees the auth error
		return models.AuthToken{}, err
	}
	m.token = &token
	m.persist(token)
	return token, nil
}

// Token returns the current token without triggering a refresh.
func (m *Manager) Token() (models.AuthToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return models.AuthToken{}, false
	}
	return *m.token, true
}

// LogOut drops the in-memory session and removes everything persisted.
func (m *Manager) LogOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = nil
	m.username = ""
	m.password = ""
	m.clearPersisted()
}

// persist writes the token and login pair to the keyring, best-effort.
// Callers hold m.mu, so a persist never interleaves with a refresh.
func (m *Manager) persist(token models.AuthToken) {
	if m.ring == nil {
		return
	}
	if blob, err := json.Marshal(token); err == nil {
		_ = m.ring.Set(keyring.Service, keyring.AccountToken, blob)
	}
	creds := storedCredentials{Username: m.username, Password: m.password}
	if blob, err := json.Marshal(creds); err == nil {
		_ = m.ring.Set(keyring.Service, keyring.AccountCredentials, blob)
	}
}

func (m *Manager) loadPersisted() {
	m.loaded = true
	if m.ring == nil {
		return
	}
	if blob, found, err := m.ring.Get(keyring.Service, keyring.AccountToken); err == nil && found {
		var token models.AuthToken
		if json.Unmarshal(blob, &token) == nil {
			m.token = &token
		}
	}
	if blob, found, err := m.ring.Get(keyring.Service, keyring.AccountCredentials); err == nil && found {
		var creds storedCredentials
		if json.Unmarshal(blob, &creds) == nil {
			m.username = creds.Username
			m.password = creds.Password
		}
	}
}

func (m *Manager) clearPersisted() {
	if m.ring == nil {
		return
	}
	_ = m.ring.Delete(keyring.Service, keyring.AccountToken)
	_ = m.ring.Delete(keyring.Service, keyring.AccountCredentials)
}
