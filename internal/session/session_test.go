// ABOUTME: Tests for the session manager
// ABOUTME: Covers bootstrap decisions, login, logout, and idempotent auth-failure handling

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TagleD/coffee-app/internal/client"
	"github.com/TagleD/coffee-app/internal/tokens"
)

// forgeAccessToken builds a signed JWT expiring at the given time. The
// manager only peeks at claims, so the signing key is irrelevant.
func forgeAccessToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to forge token: %v", err)
	}
	return signed
}

func writeProfile(w http.ResponseWriter, beans int64) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"first_name":       "Aigerim",
		"last_name":        "S",
		"beans":            beans,
		"beans_total":      2450,
		"level":            7,
		"next_level_beans": 550,
	})
}

func TestBootstrap_NoTokens(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	m := NewManager(server.URL+"/api", tokens.New(t.TempDir()))

	state, err := m.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", state)
	}
	if requests != 0 {
		t.Errorf("expected no requests without a refresh token, got %d", requests)
	}
}

func TestBootstrap_RefreshesExpiredAccess(t *testing.T) {
	var refreshCalls, profileCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token/refresh/":
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access": "fresh-access"})
		case "/api/profile/":
			atomic.AddInt32(&profileCalls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh-access" {
				t.Errorf("expected refreshed token on profile fetch, got %q", r.Header.Get("Authorization"))
			}
			writeProfile(w, 120)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	store.Save(tokens.Pair{
		Access:  forgeAccessToken(t, time.Now().Add(-time.Hour)),
		Refresh: "refresh-token",
	})

	m := NewManager(server.URL+"/api", store)
	state, err := m.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateAuthenticated {
		t.Errorf("expected authenticated, got %s", state)
	}
	if atomic.LoadInt32(&refreshCalls) != 1 {
		t.Errorf("expected 1 refresh call, got %d", refreshCalls)
	}
	if atomic.LoadInt32(&profileCalls) != 1 {
		t.Errorf("expected 1 profile call, got %d", profileCalls)
	}

	pair, _ := store.Load()
	if pair.Access != "fresh-access" {
		t.Errorf("expected refreshed access persisted, got %q", pair.Access)
	}
	if pair.Refresh != "refresh-token" {
		t.Errorf("expected refresh token kept, got %q", pair.Refresh)
	}
	if m.User() == nil || m.User().Beans != 120 {
		t.Errorf("expected hydrated user, got %+v", m.User())
	}
}

func TestBootstrap_SkipsRefreshForLiveAccess(t *testing.T) {
	var refreshCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token/refresh/":
			atomic.AddInt32(&refreshCalls, 1)
			json.NewEncoder(w).Encode(map[string]string{"access": "fresh"})
		case "/api/profile/":
			writeProfile(w, 50)
		}
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	store.Save(tokens.Pair{
		Access:  forgeAccessToken(t, time.Now().Add(time.Hour)),
		Refresh: "refresh-token",
	})

	m := NewManager(server.URL+"/api", store)
	state, err := m.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateAuthenticated {
		t.Errorf("expected authenticated, got %s", state)
	}
	if atomic.LoadInt32(&refreshCalls) != 0 {
		t.Errorf("expected no refresh for a live access token, got %d calls", refreshCalls)
	}
}

func TestBootstrap_DeadRefreshTokenClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Token is invalid or expired"})
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	store.Save(tokens.Pair{Access: "stale", Refresh: "dead"})

	var expired int32
	m := NewManager(server.URL+"/api", store)
	m.SetOnSessionExpired(func() { atomic.AddInt32(&expired, 1) })

	state, err := m.Bootstrap(context.Background())
	if err != nil {
		t.Fatalf("a dead refresh token is an expected outcome, got error: %v", err)
	}
	if state != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", state)
	}

	pair, _ := store.Load()
	if pair.Access != "" || pair.Refresh != "" {
		t.Errorf("expected tokens erased, got %+v", pair)
	}
	// Bootstrap owns this failure path; the expiry handler is for
	// in-flight request denials, not the initial decision.
	if atomic.LoadInt32(&expired) != 0 {
		t.Errorf("expected no expiry notification during bootstrap, got %d", expired)
	}
}

func TestBootstrap_TransientErrorKeepsTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "try later"})
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	store.Save(tokens.Pair{Access: "stale", Refresh: "refresh-token"})

	m := NewManager(server.URL+"/api", store)
	state, err := m.Bootstrap(context.Background())
	if err == nil {
		t.Fatal("expected error for server failure, got nil")
	}
	if state != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", state)
	}

	pair, _ := store.Load()
	if pair.Refresh != "refresh-token" {
		t.Errorf("expected refresh token kept for retry, got %q", pair.Refresh)
	}
}

func TestLogin_PersistsTokensAndLoadsProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login/":
			json.NewEncoder(w).Encode(client.TokenPair{Access: "acc", Refresh: "ref"})
		case "/api/profile/":
			writeProfile(w, 99)
		}
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	m := NewManager(server.URL+"/api", store)

	if err := m.Login(context.Background(), "+77011234567"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if m.State() != StateAuthenticated {
		t.Errorf("expected authenticated, got %s", m.State())
	}
	if m.User() == nil || m.User().Beans != 99 {
		t.Errorf("expected user loaded, got %+v", m.User())
	}

	pair, _ := store.Load()
	if pair.Access != "acc" || pair.Refresh != "ref" {
		t.Errorf("expected tokens persisted, got %+v", pair)
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login/":
			json.NewEncoder(w).Encode(client.TokenPair{Access: "acc", Refresh: "ref"})
		case "/api/profile/":
			writeProfile(w, 99)
		}
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	m := NewManager(server.URL+"/api", store)
	if err := m.Login(context.Background(), "+77011234567"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := m.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", m.State())
	}
	if m.User() != nil {
		t.Errorf("expected nil user, got %+v", m.User())
	}

	pair, _ := store.Load()
	if pair.Access != "" || pair.Refresh != "" {
		t.Errorf("expected tokens erased, got %+v", pair)
	}
}

func TestAuthFailure_ConcurrentDenialsNotifyOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "denied"})
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	store.Save(tokens.Pair{Access: "stale", Refresh: "ref"})

	var expired int32
	m := NewManager(server.URL+"/api", store)
	m.SetOnSessionExpired(func() { atomic.AddInt32(&expired, 1) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Client().Profile(context.Background())
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&expired); got != 1 {
		t.Errorf("expected exactly one expiry notification, got %d", got)
	}
	if m.State() != StateUnauthenticated {
		t.Errorf("expected unauthenticated after denial, got %s", m.State())
	}

	pair, _ := store.Load()
	if pair.Access != "" || pair.Refresh != "" {
		t.Errorf("expected persisted tokens absent, got %+v", pair)
	}
}

func TestAuthFailure_RearmedAfterLogin(t *testing.T) {
	var mode atomic.Value
	mode.Store("deny")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login/":
			json.NewEncoder(w).Encode(client.TokenPair{Access: "acc", Refresh: "ref"})
		case "/api/profile/":
			if mode.Load() == "deny" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "denied"})
				return
			}
			writeProfile(w, 10)
		}
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	var expired int32
	m := NewManager(server.URL+"/api", store)
	m.SetOnSessionExpired(func() { atomic.AddInt32(&expired, 1) })

	// First denial trips the guard once
	m.Client().Profile(context.Background())
	m.Client().Profile(context.Background())
	if got := atomic.LoadInt32(&expired); got != 1 {
		t.Fatalf("expected one notification, got %d", got)
	}

	// Login re-arms it
	mode.Store("allow")
	if err := m.Login(context.Background(), "+77011234567"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	mode.Store("deny")
	m.Client().Profile(context.Background())
	if got := atomic.LoadInt32(&expired); got != 2 {
		t.Errorf("expected a second notification after re-login, got %d", got)
	}
}

func TestFetchProfile_FailureDoesNotLogout(t *testing.T) {
	var mode atomic.Value
	mode.Store("ok")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login/":
			json.NewEncoder(w).Encode(client.TokenPair{Access: "acc", Refresh: "ref"})
		case "/api/profile/":
			if mode.Load() == "fail" {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
				return
			}
			writeProfile(w, 10)
		}
	}))
	defer server.Close()

	store := tokens.New(t.TempDir())
	m := NewManager(server.URL+"/api", store)
	if err := m.Login(context.Background(), "+77011234567"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	mode.Store("fail")
	if err := m.FetchProfile(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}

	if m.State() != StateAuthenticated {
		t.Errorf("expected session to survive a failed profile fetch, got %s", m.State())
	}
	if m.User() == nil {
		t.Error("expected previous user record kept")
	}
	pair, _ := store.Load()
	if pair.Refresh == "" {
		t.Error("expected tokens kept after transient profile failure")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnauthenticated, "unauthenticated"},
		{StateRefreshing, "refreshing"},
		{StateAuthenticated, "authenticated"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
