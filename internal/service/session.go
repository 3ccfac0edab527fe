package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/zsoro2/word-app/internal/domain"
	"github.com/zsoro2/word-app/internal/store"
)

// SessionManager mediates the identity lifecycle. It owns no word or folder
// data; dependents observe its transitions through Subscribe.
type SessionManager struct {
	accounts store.AccountStore
	logger   *zap.Logger

	mu   sync.RWMutex
	user *domain.User
	subs []func(*domain.User)
}

// NewSessionManager creates a session manager over an account backend.
func NewSessionManager(accounts store.AccountStore, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		accounts: accounts,
		logger:   logger,
	}
}

// Subscribe registers a listener called with the new identity (or nil) after
// every state transition. The current-user change is the only signal the
// library needs to reload or clear.
func (m *SessionManager) Subscribe(fn func(*domain.User)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *SessionManager) setUser(u *domain.User) {
	m.mu.Lock()
	m.user = u
	subs := make([]func(*domain.User), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	// Listeners run outside the lock; they are free to call back in.
	for _, fn := range subs {
		fn(u)
	}
}

// CurrentUser returns a copy of the active identity, or nil.
func (m *SessionManager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// IsAuthenticated reports whether an identity is active.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// Login establishes a remote session from email+password. On failure the
// current user is left unset.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	user, err := m.accounts.SignIn(ctx, email, password)
	if err != nil {
		return &domain.AuthError{Op: "login", Err: err}
	}

	m.logger.Info("user logged in", zap.String("user_id", user.ID))
	m.setUser(user)
	return nil
}

// Signup creates a new account and immediately establishes a session for it.
func (m *SessionManager) Signup(ctx context.Context, name, email, password string) error {
	user, err := m.accounts.SignUp(ctx, name, email, password)
	if err != nil {
		return &domain.AuthError{Op: "signup", Err: err}
	}

	m.logger.Info("user signed up", zap.String("user_id", user.ID))
	m.setUser(user)
	return nil
}

// Logout destroys the remote session. The current user is cleared
// unconditionally so local state never goes stale on a network error, but a
// remote failure is still surfaced for UI feedback.
func (m *SessionManager) Logout(ctx context.Context) error {
	err := m.accounts.SignOut(ctx)
	m.setUser(nil)

	if err != nil {
		m.logger.Warn("remote logout failed", zap.Error(err))
		return &domain.AuthError{Op: "logout", Err: err}
	}
	return nil
}

// UpdateName updates the display name remotely and in the held record.
func (m *SessionManager) UpdateName(ctx context.Context, name string) error {
	if !m.IsAuthenticated() {
		return &domain.AuthError{Op: "update name", Err: domain.ErrNoSession}
	}

	user, err := m.accounts.UpdateName(ctx, name)
	if err != nil {
		return &domain.AuthError{Op: "update name", Err: err}
	}

	m.setUser(user)
	return nil
}

// Restore attempts to recover an existing remote session. Failure collapses
// into "no session"; it never propagates to the caller.
func (m *SessionManager) Restore(ctx context.Context) {
	user, err := m.accounts.Current(ctx)
	if err != nil {
		m.logger.Debug("no session to restore", zap.Error(err))
		m.setUser(nil)
		return
	}
	m.setUser(user)
}
