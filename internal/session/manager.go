package session

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/gym-crm-cli/internal/api"
	"github.com/sandeepkv93/gym-crm-cli/internal/domain"
	"github.com/sandeepkv93/gym-crm-cli/internal/observability"
	"github.com/sandeepkv93/gym-crm-cli/internal/tokenstore"
)

const (
	loginFailedFallback   = "Login failed. Please try again."
	refreshFailedFallback = "Session expired. Please log in again."
)

// Manager drives the LoggedOut -> Authenticating -> Authenticated state
// machine. It implements api.TokenSource and api.Refresher for the transport
// chain. All mutation happens under one mutex; subscribers are notified after
// every transition, outside the lock.
type Manager struct {
	store tokenstore.Store
	auth  *api.AuthClient

	mu      sync.RWMutex
	state   State
	current Session

	subMu       sync.Mutex
	subscribers map[int]func(Session, State)
	nextSubID   int

	refreshGroup singleflight.Group
}

func NewManager(store tokenstore.Store, auth *api.AuthClient) *Manager {
	return &Manager{
		store:       store,
		auth:        auth,
		state:       StateLoggedOut,
		subscribers: map[int]func(Session, State){},
	}
}

// Current returns a copy of the session and the machine state.
func (m *Manager) Current() (Session, State) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.state
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated && m.current.Authenticated()
}

// Subscribe registers fn for state change notifications and returns an
// unsubscribe func. Replaces the original's ambient global user state.
func (m *Manager) Subscribe(fn func(Session, State)) func() {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subscribers, id)
		m.subMu.Unlock()
	}
}

// AccessToken implements api.TokenSource: the in-memory token when present,
// falling back to the persisted one.
func (m *Manager) AccessToken(ctx context.Context) (string, bool) {
	m.mu.RLock()
	token := m.current.AccessToken
	m.mu.RUnlock()
	if token != "" {
		return token, true
	}
	return m.store.Get(ctx, tokenstore.KeyAccessToken)
}

// Login authenticates against the backend. On success the credential pair and
// identity fields are swapped in atomically and persisted; on failure nothing
// is written anywhere and the returned error carries a displayable message.
func (m *Manager) Login(ctx context.Context, username, password string) (Session, error) {
	m.setState(StateAuthenticating)

	resp, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.setState(StateLoggedOut)
		observability.RecordAuthLogin("failure")
		return Session{}, &AuthenticationError{Message: api.UserMessage(err, loginFailedFallback), Err: err}
	}

	sess := Session{
		UserID:       resp.UserID,
		Username:     resp.Username,
		Name:         resp.Name,
		Role:         resp.Role,
		GymID:        resp.GymID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}

	m.mu.Lock()
	m.current = sess
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.persist(ctx, sess)
	observability.RecordAuthLogin("success")
	observability.Audit(ctx, "auth.login", "username", sess.Username, "role", sess.Role)
	m.notify()
	return sess, nil
}

// Logout notifies the backend best-effort, passing the access token
// explicitly, then clears local state unconditionally. It never fails from
// the caller's perspective.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.RLock()
	token := m.current.AccessToken
	m.mu.RUnlock()
	if token == "" {
		token, _ = m.store.Get(ctx, tokenstore.KeyAccessToken)
	}

	if token != "" {
		if err := m.auth.Logout(ctx, token); err != nil {
			slog.DebugContext(ctx, "backend logout failed", "err", err)
			observability.RecordAuthLogout("backend_failure")
		} else {
			observability.RecordAuthLogout("success")
		}
	} else {
		observability.RecordAuthLogout("no_token")
	}

	m.teardown(ctx)
	observability.Audit(ctx, "auth.logout")
}

// Refresh redeems the stored refresh token for a new pair. Concurrent callers
// share a single in-flight refresh; the backend invalidates a redeemed token,
// so racing independent refreshes would strand the loser with a dead token.
// On success both tokens are replaced in memory and in the store before the
// new access token is returned. On failure nothing is mutated.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	token, err, _ := m.refreshGroup.Do("refresh", func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	m.mu.RLock()
	refreshToken := m.current.RefreshToken
	m.mu.RUnlock()
	if refreshToken == "" {
		refreshToken, _ = m.store.Get(ctx, tokenstore.KeyRefreshToken)
	}
	if refreshToken == "" {
		observability.RecordAuthRefresh("no_token")
		return "", ErrNoRefreshToken
	}

	pair, err := m.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		observability.RecordAuthRefresh("failure")
		return "", &AuthenticationError{Message: api.UserMessage(err, refreshFailedFallback), Err: err}
	}

	m.mu.Lock()
	m.current.AccessToken = pair.AccessToken
	m.current.RefreshToken = pair.RefreshToken
	m.mu.Unlock()

	if err := m.store.Set(ctx, tokenstore.KeyAccessToken, pair.AccessToken); err != nil {
		slog.WarnContext(ctx, "persist access token failed", "err", err)
	}
	if err := m.store.Set(ctx, tokenstore.KeyRefreshToken, pair.RefreshToken); err != nil {
		slog.WarnContext(ctx, "persist refresh token failed", "err", err)
	}

	observability.RecordAuthRefresh("success")
	return pair.AccessToken, nil
}

// Register creates an account. It does not log the new account in; the
// caller decides whether to follow up with Login.
func (m *Manager) Register(ctx context.Context, form domain.RegisterRequest) error {
	if err := m.auth.Register(ctx, form); err != nil {
		return &AuthenticationError{Message: api.UserMessage(err, "Registration failed. Please try again."), Err: err}
	}
	observability.Audit(ctx, "auth.register", "username", form.Username)
	return nil
}

// ForceLogout is the transport's teardown hook for an irrecoverable refresh
// failure: local state is cleared without a backend call.
func (m *Manager) ForceLogout(ctx context.Context) {
	m.teardown(ctx)
	observability.Audit(ctx, "auth.session_expired")
}

// Restore runs once at process start: trust a previously persisted session
// without contacting the backend. The next 401 proves it stale if it is.
// Read-only; never mutates storage.
func (m *Manager) Restore(ctx context.Context) (Session, bool) {
	token, ok := m.store.Get(ctx, tokenstore.KeyAccessToken)
	if !ok {
		return Session{}, false
	}
	role, ok := m.store.Get(ctx, tokenstore.KeyUserRole)
	if !ok {
		return Session{}, false
	}

	sess := Session{
		Role:        role,
		AccessToken: token,
	}
	sess.Username, _ = m.store.Get(ctx, tokenstore.KeyUsername)
	sess.RefreshToken, _ = m.store.Get(ctx, tokenstore.KeyRefreshToken)
	if raw, ok := m.store.Get(ctx, tokenstore.KeyUserID); ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sess.UserID = id
		}
	}
	if raw, ok := m.store.Get(ctx, tokenstore.KeyGymID); ok {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sess.GymID = &id
		}
	}

	m.mu.Lock()
	m.current = sess
	m.state = StateAuthenticated
	m.mu.Unlock()
	m.notify()
	return sess, true
}

// persist writes each session field as its own entry. Failures are logged and
// otherwise ignored; the in-memory session stays authoritative.
func (m *Manager) persist(ctx context.Context, sess Session) {
	entries := map[string]string{
		tokenstore.KeyAccessToken:  sess.AccessToken,
		tokenstore.KeyRefreshToken: sess.RefreshToken,
		tokenstore.KeyUserRole:     sess.Role,
		tokenstore.KeyUsername:     sess.Username,
		tokenstore.KeyUserID:       strconv.FormatInt(sess.UserID, 10),
	}
	for key, value := range entries {
		if err := m.store.Set(ctx, key, value); err != nil {
			slog.WarnContext(ctx, "persist session field failed", "key", key, "err", err)
		}
	}
	if sess.GymID != nil {
		if err := m.store.Set(ctx, tokenstore.KeyGymID, strconv.FormatInt(*sess.GymID, 10)); err != nil {
			slog.WarnContext(ctx, "persist session field failed", "key", tokenstore.KeyGymID, "err", err)
		}
	} else {
		// A stale gym id from a previous user must not leak into an
		// ADMIN session.
		if err := m.store.Remove(ctx, tokenstore.KeyGymID); err != nil {
			slog.WarnContext(ctx, "remove stale gym id failed", "err", err)
		}
	}
}

func (m *Manager) teardown(ctx context.Context) {
	if err := m.store.Clear(ctx, tokenstore.SessionKeys()...); err != nil {
		slog.WarnContext(ctx, "clear token store failed", "err", err)
	}
	m.setState(StateLoggedOut)
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	if state == StateLoggedOut {
		m.current = Session{}
	}
	m.state = state
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) notify() {
	m.mu.RLock()
	sess, state := m.current, m.state
	m.mu.RUnlock()

	m.subMu.Lock()
	fns := make([]func(Session, State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(sess, state)
	}
}
