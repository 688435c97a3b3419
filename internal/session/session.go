// ABOUTME: Session manager owning the authenticated user for the process lifetime
// ABOUTME: Handles bootstrap refresh, profile sync, logout, and global auth-failure handling

package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/tokens"
)

// State is the session lifecycle state
type State int

const (
	// StateUnauthenticated means no valid tokens exist
	StateUnauthenticated State = iota
	// StateRefreshing means a stored refresh token is being exchanged
	StateRefreshing
	// StateAuthenticated means the user is logged in
	StateAuthenticated
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateRefreshing:
		return "refreshing"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// accessExpiryMargin is how close to expiry a persisted access token may
// be before bootstrap refreshes it instead of reusing it.
const accessExpiryMargin = 30 * time.Second

// Manager owns the single authenticated user record and its tokens.
// It is the client's TokenSource and the consumer of its auth-failure
// hook, so authorization denials anywhere reset the session exactly once.
type Manager struct {
	mu     sync.Mutex
	state  State
	user   *client.User
	access string

	store *tokens.Store
	api   *client.Client

	sf        singleflight.Group
	expired   atomic.Bool // armed until the next successful auth
	onExpired func()
}

// NewManager creates a session manager and its API client. Additional
// client options (timeouts) are applied after the session wiring.
func NewManager(apiURL string, store *tokens.Store, clientOpts ...client.Option) *Manager {
	m := &Manager{store: store}

	opts := []client.Option{
		client.WithTokenSource(m),
		client.WithAuthFailureHook(m.handleAuthFailure),
	}
	opts = append(opts, clientOpts...)
	m.api = client.New(apiURL, opts...)

	if pair, err := store.Load(); err == nil {
		m.access = pair.Access
	}
	return m
}

// Client returns the API client wired to this session
func (m *Manager) Client() *client.Client {
	return m.api
}

// AccessToken implements client.TokenSource
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the current profile record, or nil before the first
// successful fetch and after logout.
func (m *Manager) User() *client.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// SetOnSessionExpired registers the single top-level handler invoked
// when any request is denied. The transport reports the event; only
// this one consumer reacts to it (navigation back to login).
func (m *Manager) SetOnSessionExpired(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpired = fn
}

// Bootstrap decides the initial screen. With a persisted refresh token
// it attempts silent re-authentication; without one it stays
// unauthenticated. A dead refresh token erases all persisted tokens.
// Transient errors keep the tokens so a later start can retry.
func (m *Manager) Bootstrap(ctx context.Context) (State, error) {
	pair, err := m.store.Load()
	if err != nil {
		return StateUnauthenticated, err
	}
	if pair.Refresh == "" {
		m.setState(StateUnauthenticated)
		return StateUnauthenticated, nil
	}

	m.setState(StateRefreshing)

	if !accessStillValid(pair.Access) {
		access, err, _ := m.sf.Do("refresh", func() (interface{}, error) {
			return m.api.RefreshToken(ctx, pair.Refresh)
		})
		if err != nil {
			if client.IsAuthError(err) {
				slog.Info("Refresh token rejected, clearing session")
				m.reset()
				return StateUnauthenticated, nil
			}
			m.setState(StateUnauthenticated)
			return StateUnauthenticated, err
		}

		if err := m.store.SetAccess(access.(string)); err != nil {
			slog.Warn("Failed to persist refreshed access token", "error", err)
		}
		m.mu.Lock()
		m.access = access.(string)
		m.mu.Unlock()
	}

	m.expired.Store(false)
	m.setState(StateAuthenticated)

	// Profile hydration is best-effort here: the tokens already proved
	// valid, and every screen re-fetches what it shows.
	if err := m.FetchProfile(ctx); err != nil && !client.IsAuthError(err) {
		slog.Warn("Profile fetch during bootstrap failed", "error", err)
	}

	return m.State(), nil
}

// Login authenticates a phone number and loads the profile
func (m *Manager) Login(ctx context.Context, phone string) error {
	pair, err := m.api.Login(ctx, phone)
	if err != nil {
		return err
	}
	return m.adoptTokens(ctx, pair)
}

// Register creates an account for a phone number and loads the profile
func (m *Manager) Register(ctx context.Context, phone string) error {
	pair, err := m.api.Register(ctx, phone)
	if err != nil {
		return err
	}
	return m.adoptTokens(ctx, pair)
}

// adoptTokens persists a fresh token pair and transitions to authenticated
func (m *Manager) adoptTokens(ctx context.Context, pair *client.TokenPair) error {
	if err := m.store.Save(tokens.Pair{Access: pair.Access, Refresh: pair.Refresh}); err != nil {
		return err
	}

	m.mu.Lock()
	m.access = pair.Access
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.expired.Store(false)

	if err := m.FetchProfile(ctx); err != nil {
		slog.Warn("Profile fetch after login failed", "error", err)
	}
	return nil
}

// FetchProfile replaces the in-memory user record wholesale. Failures
// are returned to the caller but never force a logout here; the
// transport hook owns the authorization-denied path.
func (m *Manager) FetchProfile(ctx context.Context) error {
	user, err := m.api.Profile(ctx)
	if err != nil {
		slog.Debug("Profile fetch failed", "error", err)
		return err
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// Logout erases all persisted tokens and the in-memory user record
func (m *Manager) Logout() error {
	err := m.store.Clear()
	m.mu.Lock()
	m.access = ""
	m.user = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()
	return err
}

// handleAuthFailure runs on every 401/403 the client sees. Concurrent
// failures race here, so only the first one clears state and notifies;
// the guard is re-armed by the next successful authentication.
func (m *Manager) handleAuthFailure() {
	if !m.expired.CompareAndSwap(false, true) {
		return
	}

	slog.Info("Authorization denied, resetting session")
	m.reset()

	m.mu.Lock()
	fn := m.onExpired
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// reset clears persisted and in-memory session state
func (m *Manager) reset() {
	if err := m.store.Clear(); err != nil {
		slog.Warn("Failed to clear persisted tokens", "error", err)
	}
	m.mu.Lock()
	m.access = ""
	m.user = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()
}

// setState updates the lifecycle state
func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// accessStillValid peeks at the JWT exp claim without verifying the
// signature. Verification is the server's job; this only avoids a
// refresh round-trip for a token that is plainly still alive.
func accessStillValid(access string) bool {
	if access == "" {
		return false
	}

	token, _, err := jwt.NewParser().ParseUnverified(access, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) > accessExpiryMargin
}
