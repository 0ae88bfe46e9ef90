// Package session owns the bearer token and the login, registration, and
// logout lifecycle. The token is persisted to durable storage across runs
// and handed to the HTTP client as an injected capability.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/campusadmin/campusctl/internal/client"
	"github.com/campusadmin/campusctl/internal/notify"
)

// Routes the manager navigates to after auth transitions.
const (
	RouteHome  = "/"
	RouteLogin = "/login"
)

// AuthError is a login or registration failure with a user-facing message.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// Navigator is invoked after login, registration, and logout to move the
// UI to another route.
type Navigator func(route string)

// Manager is the auth session manager. Safe for concurrent use.
type Manager struct {
	client   *client.Client
	store    TokenStore
	notifier *notify.Notifier
	navigate Navigator
	logger   *zap.Logger

	mu             sync.Mutex
	token          string
	authenticating bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithNavigator sets the navigation callback.
func WithNavigator(nav Navigator) Option {
	return func(m *Manager) { m.navigate = nav }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a Manager and restores any persisted token.
func NewManager(c *client.Client, store TokenStore, notifier *notify.Notifier, opts ...Option) (*Manager, error) {
	m := &Manager{
		client:   c,
		store:    store,
		notifier: notifier,
		navigate: func(string) {},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	m.token = token
	return m, nil
}

// Token returns the current bearer token, or "" when signed out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// TokenSource returns the capability handed to the HTTP client.
func (m *Manager) TokenSource() client.TokenSource {
	return m.Token
}

// IsLoggedIn reports whether a token is held. Purely derived state.
func (m *Manager) IsLoggedIn() bool {
	return m.Token() != ""
}

// IsAuthenticating reports whether a login or registration is in flight.
func (m *Manager) IsAuthenticating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticating
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login authenticates against the backend. A call made while another
// login or registration is in flight is a no-op. On success the token is
// stored in memory and durable storage, a success notification is
// emitted, and navigation moves to the home route. On failure an error
// notification carries the backend message and an AuthError is returned.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	if !m.begin() {
		return nil
	}
	defer m.end()
	return m.doLogin(ctx, username, password, false)
}

// Register creates an account, then silently logs in to obtain a token
// and emits its own success notification. Same re-entrancy guard as Login.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	if !m.begin() {
		return nil
	}
	defer m.end()

	resp, err := m.client.Post(ctx, "/auth/register", credentials{Username: username, Password: password})
	if err != nil {
		return m.authFailure("Registration failed", err)
	}
	if err := resp.Err(); err != nil {
		return m.authFailure("Registration failed", err)
	}

	// The register endpoint returns no token; log in for one. The nested
	// login's error handling still applies, only its notification is
	// suppressed.
	if err := m.doLogin(ctx, username, password, true); err != nil {
		return err
	}

	m.notifier.Success("Registration successful")
	return nil
}

// Logout clears the session and durable storage and navigates to the
// login route. No network call.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("clearing stored token", zap.Error(err))
	}
	m.navigate(RouteLogin)
}

// doLogin performs the login request without touching the re-entrancy
// guard; callers hold it.
func (m *Manager) doLogin(ctx context.Context, username, password string, silent bool) error {
	resp, err := m.client.Post(ctx, "/auth/login", credentials{Username: username, Password: password})
	if err != nil {
		return m.authFailure("Login failed", err)
	}
	if err := resp.Err(); err != nil {
		return m.authFailure("Login failed", err)
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil {
		return m.authFailure("Login failed", err)
	}

	m.mu.Lock()
	m.token = body.AccessToken
	m.mu.Unlock()

	if err := m.store.Save(body.AccessToken); err != nil {
		m.logger.Warn("persisting token", zap.Error(err))
	}

	if !silent {
		m.notifier.Success("Logged in successfully")
	}
	m.navigate(RouteHome)
	return nil
}

// authFailure emits exactly one error notification and wraps the cause
// in an AuthError.
func (m *Manager) authFailure(fallback string, err error) error {
	message := fallback

	var reqErr *client.RequestError
	var netErr *client.NetworkError
	switch {
	case errors.As(err, &reqErr):
		message = reqErr.Message
	case errors.As(err, &netErr):
		message = netErr.Error()
	}

	m.logger.Error("authentication failed", zap.Error(err))
	m.notifier.Error(message)
	return &AuthError{Message: message, Err: err}
}

func (m *Manager) begin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.authenticating {
		return false
	}
	m.authenticating = true
	return true
}

func (m *Manager) end() {
	m.mu.Lock()
	m.authenticating = false
	m.mu.Unlock()
}

// Claims is the subset of token claims the client cares about.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims parses the held token without verifying its signature; the
// backend is the authority, the client only reads subject and expiry for
// display. Returns false when no token is held or it does not parse.
func (m *Manager) Claims() (Claims, bool) {
	token := m.Token()
	if token == "" {
		return Claims{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, false
	}

	var out Claims
	if sub, err := parsed.Claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, true
}
