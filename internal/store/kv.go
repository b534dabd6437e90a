package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/branchsync/internal/dbx"
)

// The store carries two scalar key-value namespaces outside the record
// collections: user-facing settings (synced via full backup) and internal
// app state (never part of any synced payload; this is where backend
// credentials live).

// Setting returns the value of a settings key, or "" with found=false when
// the key is absent.
func (s *Store) Setting(ctx context.Context, key string) (string, bool, error) {
	return getKV(ctx, s.db, "settings", key)
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	return setKV(ctx, s.db, "settings", key, value)
}

// Settings returns the whole settings namespace as a map.
func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	return listKV(ctx, s.db, "settings")
}

// State returns the value of an app-state key, or "" with found=false when
// the key is absent.
func (s *Store) State(ctx context.Context, key string) (string, bool, error) {
	return getKV(ctx, s.db, "app_state", key)
}

func (s *Store) SetState(ctx context.Context, key, value string) error {
	return setKV(ctx, s.db, "app_state", key, value)
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM app_state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete app_state[%s]: %w", key, err)
	}
	return nil
}

func getKV(ctx context.Context, db dbx.DBTX, table, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key = ?", table), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s[%s]: %w", table, key, err)
	}
	return value, true, nil
}

func setKV(ctx context.Context, db dbx.DBTX, table, key, value string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, table), key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s[%s]: %w", table, key, err)
	}
	return nil
}

func listKV(ctx context.Context, db dbx.DBTX, table string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT key, value FROM %s", table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", table, err)
	}

	return result, nil
}
