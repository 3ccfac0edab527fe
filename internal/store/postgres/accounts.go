package postgres

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/zsoro2/word-app/internal/domain"
	"github.com/zsoro2/word-app/internal/store"
)

// sessionTTL bounds how long a sign-in survives without a fresh one.
const sessionTTL = 30 * 24 * time.Hour

// SessionTokens is the storage used for session tokens. The redis store
// implements it; lookups return the owning user id.
type SessionTokens interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// AccountRepo implements store.AccountStore over the users table, with
// session tokens delegated to a SessionTokens store. One instance carries
// at most one active session.
type AccountRepo struct {
	db       *sql.DB
	sessions SessionTokens

	mu    sync.RWMutex
	token string
}

var _ store.AccountStore = (*AccountRepo)(nil)

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *sql.DB, sessions SessionTokens) *AccountRepo {
	return &AccountRepo{db: db, sessions: sessions}
}

// SignUp creates the account and immediately establishes a session for it.
func (r *AccountRepo) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, errors.New("name, email and password are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), name, email, string(hash)); err != nil {
		// Unique violations on email surface here.
		return nil, fmt.Errorf("create account: %w", err)
	}

	return r.SignIn(ctx, email, password)
}

// SignIn verifies the credentials and opens a session.
func (r *AccountRepo) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var u domain.User
	var hash string

	query := `SELECT id, name, email, password_hash FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &hash)
	if err == sql.ErrNoRows {
		return nil, errors.New("invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	if err := r.sessions.Save(ctx, token, u.ID, sessionTTL); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	r.mu.Lock()
	r.token = token
	r.mu.Unlock()

	return &u, nil
}

// Current resolves the held session token back to its identity.
func (r *AccountRepo) Current(ctx context.Context) (*domain.User, error) {
	r.mu.RLock()
	token := r.token
	r.mu.RUnlock()

	if token == "" {
		return nil, domain.ErrNoSession
	}

	userID, err := r.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}

	var u domain.User
	query := `SELECT id, name, email FROM users WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignOut revokes the session token. The held token is dropped even when
// revocation fails, mirroring the hosted driver's best-effort semantics.
func (r *AccountRepo) SignOut(ctx context.Context) error {
	r.mu.Lock()
	token := r.token
	r.token = ""
	r.mu.Unlock()

	if token == "" {
		return domain.ErrNoSession
	}
	return r.sessions.Revoke(ctx, token)
}

// UpdateName updates the display name of the current identity.
func (r *AccountRepo) UpdateName(ctx context.Context, name string) (*domain.User, error) {
	current, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}

	var u domain.User
	query := `
		UPDATE users
		SET name = $2
		WHERE id = $1
		RETURNING id, name, email
	`
	if err := r.db.QueryRowContext(ctx, query, current.ID, name).Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

// generateToken creates a secure random session token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
