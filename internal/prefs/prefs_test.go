package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/l-mendez/listita/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "listita.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("MissingKey", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if ok {
			t.Error("Expected ok=false for a missing key")
		}
	})

	t.Run("SetThenGet", func(t *testing.T) {
		if err := store.Set(ctx, TokenKey, "tok-1"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		value, ok, err := store.Get(ctx, TokenKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok || value != "tok-1" {
			t.Errorf("Expected ('tok-1', true), got (%q, %v)", value, ok)
		}
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		if err := store.Set(ctx, TokenKey, "tok-2"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		value, _, err := store.Get(ctx, TokenKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if value != "tok-2" {
			t.Errorf("Expected 'tok-2', got %q", value)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, TokenKey); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, ok, err := store.Get(ctx, TokenKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Error("Expected key gone after delete")
		}
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		if err := store.Delete(ctx, "never-set"); err != nil {
			t.Errorf("Deleting a missing key should not fail: %v", err)
		}
	})
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	theme, err := store.Theme(ctx)
	if err != nil {
		t.Fatalf("Theme failed: %v", err)
	}
	if theme != "" {
		t.Errorf("Expected empty theme before any set, got %q", theme)
	}

	if err := store.SetTheme(ctx, "dark"); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	theme, err = store.Theme(ctx)
	if err != nil {
		t.Fatalf("Theme failed: %v", err)
	}
	if theme != "dark" {
		t.Errorf("Expected 'dark', got %q", theme)
	}
}
