package api

import (
	"context"
	"io"
	"net/http"

	"github.com/sandeepkv93/gym-crm-cli/internal/observability"
)

// TokenSource supplies the current access token for outgoing requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}

// Refresher redeems the stored refresh token for a new access token. It is
// invoked reactively, only after a 401 response.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

type retryCtxKey struct{}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retryCtxKey{}, true)
}

func isRetried(ctx context.Context) bool {
	v, _ := ctx.Value(retryCtxKey{}).(bool)
	return v
}

// authTransport attaches a bearer token to every request that does not carry
// one already. A missing token sends the request unauthenticated; the backend
// rejects it. It never triggers a refresh.
type authTransport struct {
	next   http.RoundTripper
	source TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" && t.source != nil {
		if token, ok := t.source.AccessToken(req.Context()); ok {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.next.RoundTrip(req)
}

// retryTransport implements the refresh-on-401 protocol: at most one retry
// per logical request, marked through the request context. Network errors and
// every other status pass through unchanged. When the refresh itself fails the
// session is torn down and the original 401 is returned to the caller.
type retryTransport struct {
	next             http.RoundTripper
	refresher        Refresher
	onSessionExpired func(ctx context.Context)
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isRetried(req.Context()) {
		return resp, nil
	}
	if t.refresher == nil {
		return resp, nil
	}
	retry, ok := replayable(req)
	if !ok {
		return resp, nil
	}

	token, refreshErr := t.refresher.Refresh(req.Context())
	if refreshErr != nil {
		observability.RecordAPIRetry("refresh_failed")
		if t.onSessionExpired != nil {
			t.onSessionExpired(req.Context())
		}
		return resp, nil
	}

	drain(resp)
	retry.Header.Set("Authorization", "Bearer "+token)
	observability.RecordAPIRetry("retried")
	return t.next.RoundTrip(retry)
}

// replayable builds a one-shot copy of req marked as retried. Requests whose
// bodies cannot be re-read are not retried.
func replayable(req *http.Request) (*http.Request, bool) {
	retry := req.Clone(markRetried(req.Context()))
	if req.Body == nil {
		return retry, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	retry.Body = body
	return retry, true
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}
