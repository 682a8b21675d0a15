package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one 0600 file per key under a 0700 state directory. It is
// the default backend for single-user installs.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		dir = filepath.Join(home, ".gymcli", "state")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(ctx context.Context, key string) (string, bool) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.DebugContext(ctx, "token store read failed", "backend", "file", "key", key, "err", err)
		}
		return "", false
	}
	v := strings.TrimRight(string(raw), "\n")
	if v == "" {
		return "", false
	}
	return v, true
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if err := os.WriteFile(s.path(key), []byte(value), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context, keys ...string) error {
	var first error
	for _, key := range keys {
		if err := s.Remove(ctx, key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}
