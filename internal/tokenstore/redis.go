package tokenstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the session between several front-desk terminals of one
// gym (kiosk mode). Keys are namespaced so distinct installs can share a
// server.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(addr string, db int, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "gymcli"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	return &RedisStore{client: client, prefix: namespace}
}

// NewRedisStoreWithClient is used by tests and by callers that manage the
// client lifecycle themselves.
func NewRedisStoreWithClient(client redis.UniversalClient, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "gymcli"
	}
	return &RedisStore{client: client, prefix: namespace}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if err != redis.Nil {
			slog.DebugContext(ctx, "token store read failed", "backend", "redis", "key", key, "err", err)
		}
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, keys ...string) error {
	var first error
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) key(k string) string {
	return s.prefix + ":session:" + k
}
