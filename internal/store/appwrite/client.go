// Package appwrite implements the store interfaces against a hosted
// Appwrite project over its REST API. All persistence, authentication
// and querying are delegated to the service; this driver only decodes
// its document shapes into typed records at the boundary.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/zsoro2/word-app/internal/domain"
	"github.com/zsoro2/word-app/internal/store"
)

// Config holds the Appwrite project coordinates.
type Config struct {
	Endpoint            string // e.g. https://cloud.appwrite.io/v1
	Project             string
	DatabaseID          string
	WordsCollectionID   string
	FoldersCollectionID string
}

// Client talks to one Appwrite project and holds at most one session.
type Client struct {
	cfg  Config
	http *http.Client

	mu      sync.RWMutex
	session string // session secret, empty until sign-in
}

var (
	_ store.AccountStore = (*Client)(nil)
	_ store.WordStore    = (*Client)(nil)
	_ store.FolderStore  = (*Client)(nil)
)

// NewClient creates an unauthenticated client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is Appwrite's error envelope.
type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("appwrite: %s (%d %s)", e.Message, e.Code, e.Type)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := strings.TrimRight(c.cfg.Endpoint, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.cfg.Project)

	c.mu.RLock()
	if c.session != "" {
		req.Header.Set("X-Appwrite-Session", c.session)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Code: resp.StatusCode, Message: resp.Status}
		// Best effort: keep the status-based message if the body is not an error envelope.
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// userPayload is Appwrite's account object, reduced to what the core reads.
type userPayload struct {
	ID    string `json:"$id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u userPayload) toDomain() (*domain.User, error) {
	if u.ID == "" {
		return nil, fmt.Errorf("malformed account payload: missing $id")
	}
	return &domain.User{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// SignUp creates the account and immediately establishes a session for it.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	body := map[string]string{
		"userId":   "unique()",
		"email":    email,
		"password": password,
		"name":     name,
	}
	if err := c.do(ctx, http.MethodPost, "/account", nil, body, nil); err != nil {
		return nil, err
	}
	return c.SignIn(ctx, email, password)
}

// SignIn creates an email+password session and fetches the identity behind it.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var session struct {
		Secret string `json:"secret"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/account/sessions/email", nil, body, &session); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = session.Secret
	c.mu.Unlock()

	return c.Current(ctx)
}

// Current returns the identity of the active session.
func (c *Client) Current(ctx context.Context) (*domain.User, error) {
	var payload userPayload
	if err := c.do(ctx, http.MethodGet, "/account", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.toDomain()
}

// SignOut destroys the remote session. The held secret is dropped even when
// the remote call fails, so the client never reuses a half-dead session.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodDelete, "/account/sessions/current", nil, nil, nil)

	c.mu.Lock()
	c.session = ""
	c.mu.Unlock()

	return err
}

// UpdateName updates the display name of the current identity.
func (c *Client) UpdateName(ctx context.Context, name string) (*domain.User, error) {
	var payload userPayload
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPatch, "/account/name", nil, body, &payload); err != nil {
		return nil, err
	}
	return payload.toDomain()
}
