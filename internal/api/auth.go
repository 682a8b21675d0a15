package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

// AuthClient speaks to the auth endpoints with a bare HTTP client. It sits
// below the interceptor chain on purpose: login runs unauthenticated, refresh
// must never recurse into another refresh, and logout sends its token
// explicitly because the session is about to be destroyed.
type AuthClient struct {
	baseURL string
	hc      *http.Client
}

func NewAuthClient(baseURL string, timeout time.Duration, enableOTelHTTP bool) *AuthClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var rt http.RoundTripper = http.DefaultTransport
	if enableOTelHTTP {
		rt = otelhttp.NewTransport(rt)
	}
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout, Transport: rt},
	}
}

func (a *AuthClient) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	body, err := json.Marshal(domain.AuthRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/gym/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out domain.AuthResponse
	if err := a.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken redeems refreshToken for a fresh credential pair. The backend
// invalidates the redeemed token, so the caller must persist the returned pair
// before attempting another refresh.
func (a *AuthClient) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	q := url.Values{"refreshToken": {refreshToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/gym/auth/refresh?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build refresh request: %w", err)
	}

	var out domain.TokenPair
	if err := a.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout notifies the backend that accessToken is done with. Best-effort; the
// caller clears local state regardless of the outcome.
func (a *AuthClient) Logout(ctx context.Context, accessToken string) error {
	q := url.Values{"token": {accessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/gym/auth/logout?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	return a.do(req, nil)
}

func (a *AuthClient) Register(ctx context.Context, form domain.RegisterRequest) error {
	body, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode register request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/gym/auth/register", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, nil)
}

func (a *AuthClient) do(req *http.Request, out any) error {
	resp, err := a.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer drain(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
