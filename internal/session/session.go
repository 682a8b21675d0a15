// Package session owns the authenticated identity of the running client:
// login, logout, restore from persisted state, and the token refresh protocol
// the HTTP transport invokes on 401.
package session

import "errors"

type State string

const (
	StateLoggedOut      State = "logged_out"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

// Session is the in-memory representation of the current identity. It is the
// source of truth while the process runs; the token store is its durable,
// best-effort shadow.
type Session struct {
	UserID       int64
	Username     string
	Name         string
	Role         string
	GymID        *int64 // nil for the global ADMIN role
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the session can authorize requests. A session
// without an access token counts as logged out.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

var ErrNoRefreshToken = errors.New("no refresh token available")

// AuthenticationError carries a message fit for direct display: the backend's
// own message when it sent one, a generic fallback otherwise.
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string { return e.Message }

func (e *AuthenticationError) Unwrap() error { return e.Err }
