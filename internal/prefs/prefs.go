// Package prefs is the durable key-value store for the little client-side
// state that survives restarts: the session token and the display theme.
package prefs

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Well-known preference keys.
const (
	TokenKey = "session.token"
	ThemeKey = "display.theme"
)

// Store persists preference keys to the local SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get reads one key. The second return value is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value, true, nil
}

// Set writes one key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}
	return nil
}

// Delete removes one key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete preference %q: %w", key, err)
	}
	return nil
}

// Theme returns the stored display theme, or empty when unset.
func (s *Store) Theme(ctx context.Context) (string, error) {
	value, _, err := s.Get(ctx, ThemeKey)
	return value, err
}

// SetTheme stores the display theme.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.Set(ctx, ThemeKey, theme)
}
