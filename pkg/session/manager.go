package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jshoplabs/jshop/pkg/client"
	"github.com/jshoplabs/jshop/pkg/domain"
)

// Fallback messages when the server gives none, matching the API's own
// phrasing for these endpoints.
const (
	loginFailedMsg    = "Login failed"
	registerFailedMsg = "Registration failed"
)

// Manager is the single authority over session state. All mutation flows
// through it; readers always see a consistent token + user pair or nothing.
// The mutex serializes login/register completions so the last finished call
// wins without ever exposing a half-written session.
type Manager struct {
	store  *Store
	logger *slog.Logger

	mu      sync.Mutex
	api     *client.Client
	current *domain.Session
}

// NewManager creates a manager over the given store. Call Bind with the API
// client before any identity operation; the two are mutually dependent (the
// client reads tokens from the manager, the manager drives auth endpoints
// through the client).
func NewManager(store *Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, logger: logger}
}

// Bind attaches the API client used for login and registration.
func (m *Manager) Bind(api *client.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.api = api
}

// Restore loads any persisted session into memory. Corrupt or partial state
// degrades to "no session"; Restore never fails.
func (m *Manager) Restore() {
	sess, ok := m.store.Load()
	if !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &sess
}

// Login exchanges credentials for a session, persists it, and installs it in
// memory. On failure the existing session state is left unchanged and the
// error is an *AuthError for rejected or malformed exchanges, or the wrapped
// transport error otherwise.
func (m *Manager) Login(ctx context.Context, email, password string) (domain.User, error) {
	res, err := m.api.Login(ctx, email, password)
	if err != nil {
		var httpErr *client.HTTPError
		switch {
		case errors.As(err, &httpErr):
			msg := httpErr.Message
			if msg == "" {
				msg = loginFailedMsg
			}
			return domain.User{}, &AuthError{Message: msg}
		case errors.Is(err, client.ErrMalformedResponse):
			return domain.User{}, &AuthError{Message: loginFailedMsg}
		default:
			return domain.User{}, fmt.Errorf("login: %w", err)
		}
	}

	sess := domain.Session{Token: res.Token, User: res.User}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Save(sess); err != nil {
		return domain.User{}, fmt.Errorf("persist session: %w", err)
	}
	m.current = &sess
	m.logger.Info("session established", "user", sess.User.Username, "role", sess.User.Role)
	return res.User, nil
}

// Register creates a new account. No session is created; the caller logs in
// afterwards.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	if err := m.api.Register(ctx, username, email, password); err != nil {
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) {
			msg := httpErr.Message
			if msg == "" {
				msg = registerFailedMsg
			}
			return &RegisterError{Message: msg}
		}
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout destroys the session unconditionally. Store failures are logged,
// never returned: the in-memory session is gone regardless.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clear persisted session", "err", err)
	}
}

// Expire discards the session after a protected call was rejected for
// authorization reasons. Same effect as Logout, logged separately so stale
// tokens show up in the debug log.
func (m *Manager) Expire() {
	m.logger.Info("authorization rejected, discarding session")
	m.Logout()
}

// Token implements client.TokenSource against the live session.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// IsAuthenticated reports whether a full token + user pair is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.Token != ""
}

// IsAdmin reports whether the session exists and holds the admin role.
func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.Token != "" && m.current.User.IsAdmin()
}

// Current returns a copy of the session; ok is false without one.
func (m *Manager) Current() (domain.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return domain.Session{}, false
	}
	return *m.current, true
}
