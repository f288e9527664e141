package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kushdevteam/bunproj-sub004/internal/analytics"
)

const dashboardPrefsKey = "dashboard"

// PreferenceStore keeps dashboard preferences in the preferences table.
type PreferenceStore struct {
	db  *DB
	key string
}

// NewPreferenceStore creates a store for the default dashboard key.
func NewPreferenceStore(db *DB) *PreferenceStore {
	return &PreferenceStore{db: db, key: dashboardPrefsKey}
}

// Load returns the stored preferences, or empty preferences if none exist.
func (s *PreferenceStore) Load(ctx context.Context) (analytics.Preferences, error) {
	var prefs analytics.Preferences

	var raw string
	err := s.db.conn.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, s.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("failed to load preferences: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return analytics.Preferences{}, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}

// Save replaces the stored preferences.
func (s *PreferenceStore) Save(ctx context.Context, prefs analytics.Preferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	_, err = s.db.conn.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_ms) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_ms = excluded.updated_ms
	`, s.key, string(data), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
