package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

type staticTokenSource struct {
	token atomic.Value
}

func newStaticTokenSource(token string) *staticTokenSource {
	s := &staticTokenSource{}
	s.token.Store(token)
	return s
}

func (s *staticTokenSource) AccessToken(ctx context.Context) (string, bool) {
	tok := s.token.Load().(string)
	return tok, tok != ""
}

type fakeRefresher struct {
	calls  atomic.Int64
	token  string
	err    error
	source *staticTokenSource
}

func (f *fakeRefresher) Refresh(ctx context.Context) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	if f.source != nil {
		f.source.token.Store(f.token)
	}
	return f.token, nil
}

func newTestClient(t *testing.T, backendURL string, source TokenSource, refresher Refresher, onExpired func(context.Context)) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:          backendURL,
		Timeout:          5 * time.Second,
		TokenSource:      source,
		Refresher:        refresher,
		OnSessionExpired: onExpired,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]domain.Member{})
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, newStaticTokenSource("A1"), nil, nil)
	if _, err := c.Members.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer A1" {
		t.Fatalf("Authorization=%q, want Bearer A1", gotAuth)
	}
}

func TestMissingTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]domain.Member{})
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, newStaticTokenSource(""), nil, nil)
	if _, err := c.Members.List(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestSingleRetryAfterRefreshOn401(t *testing.T) {
	var backendCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer A2" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
			return
		}
		_ = json.NewEncoder(w).Encode([]domain.Member{{ID: 1, FirstName: "Ann"}})
	}))
	t.Cleanup(srv.Close)

	source := newStaticTokenSource("A1")
	refresher := &fakeRefresher{token: "A2", source: source}
	c := newTestClient(t, srv.URL, source, refresher, nil)

	members, err := c.Members.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 1 || members[0].FirstName != "Ann" {
		t.Fatalf("unexpected members %+v", members)
	}
	if refresher.calls.Load() != 1 {
		t.Fatalf("expected exactly one refresh, got %d", refresher.calls.Load())
	}
	// Original request plus one retry; the refresh call itself goes to the
	// auth client, not through this transport.
	if backendCalls.Load() != 2 {
		t.Fatalf("expected 2 backend calls, got %d", backendCalls.Load())
	}
}

func TestRetriedRequestReplaysBody(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		if r.Header.Get("Authorization") != "Bearer A2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.Attendance{ID: 9, MemberID: 3})
	}))
	t.Cleanup(srv.Close)

	source := newStaticTokenSource("A1")
	c := newTestClient(t, srv.URL, source, &fakeRefresher{token: "A2", source: source}, nil)

	if _, err := c.Attendance.CheckIn(context.Background(), domain.CheckInRequest{MemberID: 3, Method: domain.AttendanceManual}); err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(bodies))
	}
	if bodies[0] != bodies[1] || bodies[0] == "" {
		t.Fatalf("retried body must match original: %q vs %q", bodies[0], bodies[1])
	}
}

func TestPersistent401IsNotRetriedTwice(t *testing.T) {
	var backendCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "still unauthorized"})
	}))
	t.Cleanup(srv.Close)

	source := newStaticTokenSource("A1")
	refresher := &fakeRefresher{token: "A2", source: source}
	c := newTestClient(t, srv.URL, source, refresher, nil)

	_, err := c.Members.List(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected 401 to surface, got %v", err)
	}
	if refresher.calls.Load() != 1 {
		t.Fatalf("expected exactly one refresh attempt, got %d", refresher.calls.Load())
	}
	if backendCalls.Load() != 2 {
		t.Fatalf("expected original + one retry, got %d calls", backendCalls.Load())
	}
}

func TestRefreshFailureTearsDownAndPropagates401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	t.Cleanup(srv.Close)

	var tornDown atomic.Bool
	refresher := &fakeRefresher{err: errors.New("refresh token rejected")}
	c := newTestClient(t, srv.URL, newStaticTokenSource("A1"), refresher, func(ctx context.Context) {
		tornDown.Store(true)
	})

	_, err := c.Members.List(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected original 401 to propagate, got %v", err)
	}
	if !tornDown.Load() {
		t.Fatal("expected session teardown on refresh failure")
	}
}

func TestOtherStatusesPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "insufficient role"})
	}))
	t.Cleanup(srv.Close)

	refresher := &fakeRefresher{token: "A2"}
	c := newTestClient(t, srv.URL, newStaticTokenSource("A1"), refresher, nil)

	_, err := c.Members.List(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 api error, got %v", err)
	}
	if apiErr.Message != "insufficient role" {
		t.Fatalf("expected backend message, got %q", apiErr.Message)
	}
	if refresher.calls.Load() != 0 {
		t.Fatalf("non-401 must not trigger refresh, got %d calls", refresher.calls.Load())
	}
}

func TestNetworkErrorPassesThroughWithoutRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from now on

	refresher := &fakeRefresher{token: "A2"}
	c := newTestClient(t, srv.URL, newStaticTokenSource("A1"), refresher, nil)

	_, err := c.Members.List(context.Background())
	if err == nil {
		t.Fatal("expected network error")
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Fatalf("network error must not be an api error, got %v", apiErr)
	}
	if refresher.calls.Load() != 0 {
		t.Fatalf("network error must not trigger refresh, got %d calls", refresher.calls.Load())
	}
}

func TestUserMessage(t *testing.T) {
	err := &Error{StatusCode: 400, Message: "Invalid credentials"}
	if got := UserMessage(err, "fallback"); got != "Invalid credentials" {
		t.Fatalf("UserMessage=%q", got)
	}
	if got := UserMessage(errors.New("dial tcp: refused"), "fallback"); got != "fallback" {
		t.Fatalf("UserMessage fallback=%q", got)
	}
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "localhost:8080"}); err == nil {
		t.Fatal("expected error for base url without scheme")
	}
}
