// Package tokenstore persists the credential pair and identity fields of the
// current session as independent string entries. Reads never fail: any backend
// error is reported as absence, so storage trouble is never confused with an
// authentication failure. Writes and removals are best-effort.
package tokenstore

import (
	"context"
	"fmt"
)

const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUserRole     = "userRole"
	KeyUsername     = "username"
	KeyUserID       = "userId"
	KeyGymID        = "gymId"
)

// SessionKeys lists every key the session lifecycle owns, in the order logout
// clears them. The clear is sequential per key, not transactional.
func SessionKeys() []string {
	return []string{KeyAccessToken, KeyRefreshToken, KeyUserRole, KeyUsername, KeyUserID, KeyGymID}
}

type Store interface {
	// Get returns the stored value for key, or ok=false when the key is
	// missing or the backend failed.
	Get(ctx context.Context, key string) (value string, ok bool)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Clear removes each key independently and returns the first error
	// encountered, having attempted all of them.
	Clear(ctx context.Context, keys ...string) error
}

// Options selects and configures a backend. Exactly one backend is chosen at
// startup; call sites never branch on the platform.
type Options struct {
	Backend   string // "file", "sqlite" or "redis"
	StateDir  string // file backend
	SQLitePath string // sqlite backend
	RedisAddr string // redis backend
	RedisDB   int
	Namespace string // key prefix for shared backends
}

func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", "file":
		return NewFileStore(opts.StateDir)
	case "sqlite":
		return NewSQLiteStore(opts.SQLitePath)
	case "redis":
		return NewRedisStore(opts.RedisAddr, opts.RedisDB, opts.Namespace), nil
	default:
		return nil, fmt.Errorf("unknown token store backend %q", opts.Backend)
	}
}
