// Package api is the typed HTTP client for the gym CRM backend. One configured
// client instance carries every call: fixed base URL, 10 second timeout, JSON
// content type, bearer authorization from the token source, and a single
// transparent retry after a token refresh on 401.
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
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	BaseURL string
	// Timeout bounds each logical call including the internal retry.
	// Zero means DefaultTimeout.
	Timeout          time.Duration
	TokenSource      TokenSource
	Refresher        Refresher
	OnSessionExpired func(ctx context.Context)
	EnableOTelHTTP   bool
}

type Client struct {
	baseURL *url.URL
	hc      *http.Client

	Members     *MembersService
	Trainers    *TrainersService
	Plans       *PlansService
	Memberships *MembershipsService
	Attendance  *AttendanceService
	Payments    *PaymentsService
	Progress    *ProgressService
	Gyms        *GymsService
	Dashboard   *DashboardService
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var rt http.RoundTripper = http.DefaultTransport
	if cfg.EnableOTelHTTP {
		rt = otelhttp.NewTransport(rt)
	}
	rt = &authTransport{next: rt, source: cfg.TokenSource}
	rt = &retryTransport{next: rt, refresher: cfg.Refresher, onSessionExpired: cfg.OnSessionExpired}

	c := &Client{
		baseURL: base,
		hc:      &http.Client{Timeout: timeout, Transport: rt},
	}
	c.Members = &MembersService{c}
	c.Trainers = &TrainersService{c}
	c.Plans = &PlansService{c}
	c.Memberships = &MembershipsService{c}
	c.Attendance = &AttendanceService{c}
	c.Payments = &PaymentsService{c}
	c.Progress = &ProgressService{c}
	c.Gyms = &GymsService{c}
	c.Dashboard = &DashboardService{c}
	return c, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer drain(resp)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// newRequest serializes body as JSON through a bytes.Reader so the standard
// library populates GetBody, which the retry transport needs for replay.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	return apiErr
}
