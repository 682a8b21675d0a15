package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthClientRefreshSendsTokenAsQueryParam(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/gym/auth/refresh" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotToken = r.URL.Query().Get("refreshToken")
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "A2", "refreshToken": "R2"})
	}))
	t.Cleanup(srv.Close)

	a := NewAuthClient(srv.URL, time.Second, false)
	pair, err := a.RefreshToken(context.Background(), "R1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if gotToken != "R1" {
		t.Fatalf("refreshToken param=%q, want R1", gotToken)
	}
	if pair.AccessToken != "A2" || pair.RefreshToken != "R2" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestAuthClientLogoutSendsTokenExplicitly(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	a := NewAuthClient(srv.URL, time.Second, false)
	if err := a.Logout(context.Background(), "A1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if gotToken != "A1" {
		t.Fatalf("token param=%q, want A1", gotToken)
	}
}

func TestAuthClientLoginDecodesBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	}))
	t.Cleanup(srv.Close)

	a := NewAuthClient(srv.URL, time.Second, false)
	_, err := a.Login(context.Background(), "bob", "nope")
	if err == nil {
		t.Fatal("expected login error")
	}
	if got := UserMessage(err, "fallback"); got != "Invalid credentials" {
		t.Fatalf("UserMessage=%q", got)
	}
}
