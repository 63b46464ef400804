package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"sofra-client/pkg/store"
)

func newTestStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ":memory:")

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(value) != "v" {
		t.Errorf("Get() = %q, want %q", value, "v")
	}
}

func TestSQLiteStore_Upsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ":memory:")

	if err := s.Set(ctx, "k", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", []byte("new")); err != nil {
		t.Fatalf("Set() on existing key error = %v", err)
	}
	value, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(value) != "new" {
		t.Errorf("Get() = %q, want replaced value", value)
	}
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newTestStore(t, ":memory:")
	if _, err := s.Get(context.Background(), "missing"); !store.IsNotFound(err) {
		t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
	}
}

func TestSQLiteStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, ":memory:")

	if err := s.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "b", []byte("2")); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(ctx, "a"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := s.Get(ctx, "a"); !store.IsNotFound(err) {
		t.Errorf("Get() after Remove error = %v, want not-found", err)
	}

	// Removing a missing key is not an error.
	if err := s.Remove(ctx, "a"); err != nil {
		t.Errorf("Remove() of missing key error = %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys() after Clear = %v, want empty", keys)
	}
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := newTestStore(t, path)
	value, err := second.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if string(value) != "v" {
		t.Errorf("Get() = %q, want persisted value", value)
	}
}

func TestNewSQLiteStore_RequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Error("NewSQLiteStore(\"\") should fail")
	}
}
