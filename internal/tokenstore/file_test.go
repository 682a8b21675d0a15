package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()

	if _, ok := s.Get(ctx, KeyAccessToken); ok {
		t.Fatal("expected empty store")
	}
	if err := s.Set(ctx, KeyAccessToken, "A1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok := s.Get(ctx, KeyAccessToken)
	if !ok || v != "A1" {
		t.Fatalf("get=%q ok=%v, want A1", v, ok)
	}
	if err := s.Remove(ctx, KeyAccessToken); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.Get(ctx, KeyAccessToken); ok {
		t.Fatal("expected key removed")
	}
}

func TestFileStoreRemoveMissingKeyIsNoop(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := s.Remove(context.Background(), "neverSet"); err != nil {
		t.Fatalf("remove of a missing key should succeed: %v", err)
	}
}

func TestFileStoreGetSwallowsBackendErrors(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	// A directory where a value file is expected forces a read error.
	if err := os.Mkdir(filepath.Join(dir, KeyRefreshToken), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, ok := s.Get(context.Background(), KeyRefreshToken); ok {
		t.Fatal("backend error must read as absence")
	}
}

func TestFileStoreClearRemovesAllSessionKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()
	for _, key := range SessionKeys() {
		if err := s.Set(ctx, key, "v-"+key); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := s.Clear(ctx, SessionKeys()...); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, key := range SessionKeys() {
		if _, ok := s.Get(ctx, key); ok {
			t.Fatalf("key %s survived clear", key)
		}
	}
}

func TestFileStoreTreatsEmptyValueAsAbsent(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	ctx := context.Background()
	if err := s.Set(ctx, KeyUsername, ""); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := s.Get(ctx, KeyUsername); ok {
		t.Fatal("empty value should read as absent")
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := Open(Options{Backend: "file", StateDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open file backend: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", s)
	}
	if _, err := Open(Options{Backend: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
