package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shubh-aarambh/fintrack/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("Get on missing key reports absent", func(t *testing.T) {
		value, ok, err := store.Get(ctx, storage.KeyTransactions)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok || value != nil {
			t.Errorf("expected absent key, got ok=%v value=%q", ok, value)
		}
	})

	t.Run("Set then Get returns the blob", func(t *testing.T) {
		if err := store.Set(ctx, storage.KeyCategories, []byte(`[{"id":"c1"}]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		value, ok, err := store.Get(ctx, storage.KeyCategories)
		if err != nil || !ok {
			t.Fatalf("Get failed: ok=%v err=%v", ok, err)
		}
		if string(value) != `[{"id":"c1"}]` {
			t.Errorf("value = %q", value)
		}
	})

	t.Run("Set overwrites", func(t *testing.T) {
		if err := store.Set(ctx, storage.KeyBudgets, []byte(`[1]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ctx, storage.KeyBudgets, []byte(`[2]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		value, _, _ := store.Get(ctx, storage.KeyBudgets)
		if string(value) != `[2]` {
			t.Errorf("value = %q, want [2]", value)
		}
	})

	t.Run("Remove deletes and tolerates absent keys", func(t *testing.T) {
		if err := store.Remove(ctx, storage.KeyBudgets); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if _, ok, _ := store.Get(ctx, storage.KeyBudgets); ok {
			t.Error("expected key to be gone")
		}
		if err := store.Remove(ctx, "never-set"); err != nil {
			t.Errorf("Remove of absent key failed: %v", err)
		}
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := first.Set(ctx, storage.KeyUser, []byte(`{"id":"u1"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Migrations must be idempotent on reopen
	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer second.Close()

	value, ok, err := second.Get(ctx, storage.KeyUser)
	if err != nil || !ok {
		t.Fatalf("Get after reopen failed: ok=%v err=%v", ok, err)
	}
	if string(value) != `{"id":"u1"}` {
		t.Errorf("value = %q", value)
	}
}

func TestSQLiteStore_Closed(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	store.Close()

	if _, _, err := store.Get(context.Background(), storage.KeyUser); !errors.Is(err, storage.ErrClosed) {
		t.Errorf("Get after Close: err = %v, want ErrClosed", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
