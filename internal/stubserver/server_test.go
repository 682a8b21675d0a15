package stubserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(Options{
		AccessSecret:  "test-access",
		RefreshSecret: "test-refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func login(t *testing.T, ts *httptest.Server, username, password string) domain.AuthResponse {
	t.Helper()
	body, _ := json.Marshal(domain.AuthRequest{Username: username, Password: password})
	resp, err := http.Post(ts.URL+"/gym/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var auth domain.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return auth
}

func doAuthed(t *testing.T, ts *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return payload.Message
}

func TestLoginIssuesScopedTokens(t *testing.T) {
	ts := newTestServer(t)

	auth := login(t, ts, "frontdesk", "frontdesk123")
	if auth.AccessToken == "" || auth.RefreshToken == "" {
		t.Fatal("missing tokens in login response")
	}
	if auth.Role != "RECEPTIONIST" {
		t.Fatalf("role = %q", auth.Role)
	}
	if auth.GymID == nil || *auth.GymID != 1 {
		t.Fatalf("gymId = %v, want 1", auth.GymID)
	}

	admin := login(t, ts, "admin", "admin123")
	if admin.GymID != nil {
		t.Fatalf("admin gymId = %v, want null", admin.GymID)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t)
	body, _ := json.Marshal(domain.AuthRequest{Username: "admin", Password: "nope"})
	resp, err := http.Post(ts.URL+"/gym/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if msg := errorMessage(t, resp); msg != "Invalid username or password" {
		t.Fatalf("message = %q", msg)
	}
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	ts := newTestServer(t)
	auth := login(t, ts, "manager", "manager123")

	refreshURL := ts.URL + "/gym/auth/refresh?refreshToken=" + url.QueryEscape(auth.RefreshToken)
	resp, err := http.Post(refreshURL, "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d", resp.StatusCode)
	}
	var pair domain.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	resp.Body.Close()
	if pair.AccessToken == "" || pair.RefreshToken == auth.RefreshToken {
		t.Fatal("refresh did not rotate tokens")
	}

	// The consumed token must be dead.
	resp, err = http.Post(refreshURL, "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("reused refresh status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	ts := newTestServer(t)
	auth := login(t, ts, "manager", "manager123")

	resp, err := http.Post(ts.URL+"/gym/auth/logout?token="+url.QueryEscape(auth.RefreshToken), "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Post(ts.URL+"/gym/auth/refresh?refreshToken="+url.QueryEscape(auth.RefreshToken), "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("refresh after logout = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutWithGarbageTokenStillSucceeds(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/gym/auth/logout?token=garbage", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)
	resp := doAuthed(t, ts, http.MethodGet, "/gym/members/all", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if msg := errorMessage(t, resp); msg != "missing access token" {
		t.Fatalf("message = %q", msg)
	}
}

func TestRoleGateForbidsMember(t *testing.T) {
	ts := newTestServer(t)
	auth := login(t, ts, "member", "member123")

	resp := doAuthed(t, ts, http.MethodGet, "/gym/members/all", auth.AccessToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("member listing members = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	// Self-service surfaces stay open.
	resp = doAuthed(t, ts, http.MethodGet, "/gym/progress/member/1", auth.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("member progress = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCheckInCheckOutFlow(t *testing.T) {
	ts := newTestServer(t)
	auth := login(t, ts, "frontdesk", "frontdesk123")

	resp := doAuthed(t, ts, http.MethodPost, "/gym/attendance/checkin", auth.AccessToken, domain.CheckInRequest{MemberID: 3, Method: domain.AttendanceQR})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("checkin status = %d", resp.StatusCode)
	}
	var visit domain.Attendance
	if err := json.NewDecoder(resp.Body).Decode(&visit); err != nil {
		t.Fatalf("decode visit: %v", err)
	}
	resp.Body.Close()
	if !visit.Open() {
		t.Fatal("new visit should be open")
	}

	// Double check-in is rejected while the visit is open.
	resp = doAuthed(t, ts, http.MethodPost, "/gym/attendance/checkin", auth.AccessToken, domain.CheckInRequest{MemberID: 3})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double checkin = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doAuthed(t, ts, http.MethodPost, "/gym/attendance/checkout", auth.AccessToken, domain.CheckOutRequest{MemberID: 3})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout status = %d", resp.StatusCode)
	}
	var closed domain.Attendance
	if err := json.NewDecoder(resp.Body).Decode(&closed); err != nil {
		t.Fatalf("decode checkout: %v", err)
	}
	resp.Body.Close()
	if closed.Open() {
		t.Fatal("visit should be closed after checkout")
	}

	resp = doAuthed(t, ts, http.MethodPost, "/gym/attendance/checkout", auth.AccessToken, domain.CheckOutRequest{MemberID: 3})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("checkout without open visit = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestPaymentStatusTransition(t *testing.T) {
	ts := newTestServer(t)
	auth := login(t, ts, "frontdesk", "frontdesk123")

	resp := doAuthed(t, ts, http.MethodPatch, "/gym/payments/2/status?status=COMPLETED", auth.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d", resp.StatusCode)
	}
	var p domain.Payment
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode payment: %v", err)
	}
	resp.Body.Close()
	if p.Status != domain.PaymentCompleted {
		t.Fatalf("status = %q", p.Status)
	}

	resp = doAuthed(t, ts, http.MethodPatch, "/gym/payments/2/status?status=BOGUS", auth.AccessToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bogus status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDashboardSummaryCountsSeedData(t *testing.T) {
	ts := newTestServer(t)
	auth := login(t, ts, "manager", "manager123")

	resp := doAuthed(t, ts, http.MethodGet, "/gym/dashboard/summary", auth.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary status = %d", resp.StatusCode)
	}
	var sum domain.DashboardSummary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	resp.Body.Close()
	if sum.TotalMembers != 3 || sum.ActiveMembers != 2 {
		t.Fatalf("members = %d/%d, want 3/2", sum.TotalMembers, sum.ActiveMembers)
	}
	if sum.PendingPayments != 1 {
		t.Fatalf("pendingPayments = %d, want 1", sum.PendingPayments)
	}
	if sum.TodayAttendance != 2 {
		t.Fatalf("todayAttendance = %d, want 2", sum.TodayAttendance)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	ts := newTestServer(t)
	req := domain.RegisterRequest{Username: "newstaff", Password: "secret12", FirstName: "New", LastName: "Staff", Role: "RECEPTIONIST"}
	raw, _ := json.Marshal(req)
	resp, err := http.Post(ts.URL+"/gym/auth/register", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate usernames are rejected.
	resp, err = http.Post(ts.URL+"/gym/auth/register", "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register = %d, want 409", resp.StatusCode)
	}
	resp.Body.Close()

	auth := login(t, ts, "newstaff", "secret12")
	if auth.Role != "RECEPTIONIST" {
		t.Fatalf("role = %q", auth.Role)
	}
}
