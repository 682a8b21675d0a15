package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandeepkv93/gym-crm-cli/internal/api"
	"github.com/sandeepkv93/gym-crm-cli/internal/tokenstore"
)

func newStoreForTest(t *testing.T) tokenstore.Store {
	t.Helper()
	s, err := tokenstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func newManagerForTest(t *testing.T, backend http.Handler) (*Manager, tokenstore.Store) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	store := newStoreForTest(t)
	return NewManager(store, api.NewAuthClient(srv.URL, 5*time.Second, false)), store
}

func loginBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gym/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "pw" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accessToken":  "A1",
			"refreshToken": "R1",
			"userId":       7,
			"username":     req.Username,
			"role":         "ADMIN",
			"name":         "Bob Trainer",
		})
	})
	return mux
}

func TestLoginRoundTripPersistsSession(t *testing.T) {
	m, store := newManagerForTest(t, loginBackend(t))
	ctx := context.Background()

	sess, err := m.Login(ctx, "bob", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("expected authenticated state")
	}
	if sess.UserID != 7 || sess.Role != "ADMIN" || sess.Username != "bob" {
		t.Fatalf("unexpected session %+v", sess)
	}

	want := map[string]string{
		tokenstore.KeyAccessToken:  "A1",
		tokenstore.KeyRefreshToken: "R1",
		tokenstore.KeyUsername:     "bob",
		tokenstore.KeyUserRole:     "ADMIN",
		tokenstore.KeyUserID:       "7",
	}
	for key, expected := range want {
		got, ok := store.Get(ctx, key)
		if !ok || got != expected {
			t.Fatalf("store[%s]=%q ok=%v, want %q", key, got, ok, expected)
		}
	}
	if _, ok := store.Get(ctx, tokenstore.KeyGymID); ok {
		t.Fatal("gymId must be absent for the global ADMIN role")
	}
}

func TestLoginFailureLeavesNoPartialState(t *testing.T) {
	m, store := newManagerForTest(t, loginBackend(t))
	ctx := context.Background()

	_, err := m.Login(ctx, "bob", "wrong")
	if err == nil {
		t.Fatal("expected login failure")
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthenticationError, got %T", err)
	}
	if authErr.Message != "Invalid credentials" {
		t.Fatalf("expected backend message, got %q", authErr.Message)
	}
	if m.IsAuthenticated() {
		t.Fatal("expected logged out state")
	}
	for _, key := range tokenstore.SessionKeys() {
		if _, ok := store.Get(ctx, key); ok {
			t.Fatalf("key %s written despite failed login", key)
		}
	}
}

func TestLoginFailureFallbackMessage(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	m, _ := newManagerForTest(t, backend)

	_, err := m.Login(context.Background(), "bob", "pw")
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthenticationError, got %v", err)
	}
	if authErr.Message != "Login failed. Please try again." {
		t.Fatalf("expected fallback message, got %q", authErr.Message)
	}
}

func TestLogoutIsUnconditional(t *testing.T) {
	// Backend that hangs up on logout: local teardown must still run.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			_ = conn.Close()
		}
	}))
	t.Cleanup(srv.Close)

	store := newStoreForTest(t)
	ctx := context.Background()
	for _, key := range tokenstore.SessionKeys() {
		if err := store.Set(ctx, key, "v"); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	m := NewManager(store, api.NewAuthClient(srv.URL, time.Second, false))
	if _, ok := m.Restore(ctx); !ok {
		t.Fatal("restore should succeed with seeded store")
	}

	m.Logout(ctx)

	if m.IsAuthenticated() {
		t.Fatal("expected logged out state")
	}
	for _, key := range tokenstore.SessionKeys() {
		if _, ok := store.Get(ctx, key); ok {
			t.Fatalf("key %s survived logout", key)
		}
	}
}

func TestRestoreTrustsPersistedState(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	store := newStoreForTest(t)
	ctx := context.Background()
	if err := store.Set(ctx, tokenstore.KeyAccessToken, "A1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Set(ctx, tokenstore.KeyUserRole, "MEMBER"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	m := NewManager(store, api.NewAuthClient(srv.URL, time.Second, false))
	sess, ok := m.Restore(ctx)
	if !ok {
		t.Fatal("expected restore to succeed")
	}
	if !m.IsAuthenticated() || sess.Role != "MEMBER" || sess.AccessToken != "A1" {
		t.Fatalf("unexpected restored session %+v", sess)
	}
	if calls.Load() != 0 {
		t.Fatalf("restore must not call the backend, saw %d calls", calls.Load())
	}
}

func TestRestoreWithoutTokenStaysLoggedOut(t *testing.T) {
	m, store := newManagerForTest(t, http.NewServeMux())
	ctx := context.Background()
	if err := store.Set(ctx, tokenstore.KeyUserRole, "MEMBER"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, ok := m.Restore(ctx); ok {
		t.Fatal("restore must fail without an access token")
	}
	if m.IsAuthenticated() {
		t.Fatal("expected logged out state")
	}
}

func TestRefreshWithoutStoredTokenFailsFast(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	t.Cleanup(srv.Close)

	m := NewManager(newStoreForTest(t), api.NewAuthClient(srv.URL, time.Second, false))
	_, err := m.Refresh(context.Background())
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("expected ErrNoRefreshToken, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("refresh without a token must not call the backend, saw %d calls", calls.Load())
	}
}

func TestRefreshReplacesBothTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gym/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("refreshToken") != "R1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid refresh token"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "A2", "refreshToken": "R2"})
	})
	m, store := newManagerForTest(t, mux)
	ctx := context.Background()
	if err := store.Set(ctx, tokenstore.KeyRefreshToken, "R1"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	token, err := m.Refresh(ctx)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if token != "A2" {
		t.Fatalf("expected new access token A2, got %q", token)
	}
	if v, _ := store.Get(ctx, tokenstore.KeyAccessToken); v != "A2" {
		t.Fatalf("stored access token %q, want A2", v)
	}
	if v, _ := store.Get(ctx, tokenstore.KeyRefreshToken); v != "R2" {
		t.Fatalf("stored refresh token %q, want R2", v)
	}
}

func TestRefreshFailureMutatesNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gym/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "refresh token expired"})
	})
	m, store := newManagerForTest(t, mux)
	ctx := context.Background()
	if err := store.Set(ctx, tokenstore.KeyRefreshToken, "R1"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := m.Refresh(ctx); err == nil {
		t.Fatal("expected refresh failure")
	}
	if v, _ := store.Get(ctx, tokenstore.KeyRefreshToken); v != "R1" {
		t.Fatalf("failed refresh must not mutate the store, got %q", v)
	}
}

func TestConcurrentRefreshIsSerialized(t *testing.T) {
	var refreshCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /gym/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		time.Sleep(20 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "A2", "refreshToken": "R2"})
	})
	m, store := newManagerForTest(t, mux)
	ctx := context.Background()
	if err := store.Set(ctx, tokenstore.KeyRefreshToken, "R1"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var wg sync.WaitGroup
	tokens := make([]string, 4)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := m.Refresh(ctx)
			if err != nil {
				t.Errorf("refresh %d: %v", i, err)
				return
			}
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	if got := refreshCalls.Load(); got != 1 {
		t.Fatalf("expected one backend refresh for concurrent callers, got %d", got)
	}
	for i, tok := range tokens {
		if tok != "A2" {
			t.Fatalf("caller %d got token %q, want shared A2", i, tok)
		}
	}
}

func TestSubscribersSeeTransitions(t *testing.T) {
	m, _ := newManagerForTest(t, loginBackend(t))

	var mu sync.Mutex
	var states []State
	unsubscribe := m.Subscribe(func(_ Session, s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})
	defer unsubscribe()

	if _, err := m.Login(context.Background(), "bob", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(states) < 2 || states[0] != StateAuthenticating || states[len(states)-1] != StateAuthenticated {
		t.Fatalf("unexpected transition sequence %v", states)
	}
}
