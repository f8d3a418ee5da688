package store

import (
	"context"
	"database/sql"
	"errors"
)

// GetPreference returns the raw stored value of a preference.
func (s *Store) GetPreference(ctx context.Context, owner, key string) ([]byte, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE owner = ? AND key = ?`, owner, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (s *Store) PutPreference(ctx context.Context, owner, key string, value []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO preferences (owner, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		owner, key, string(value), formatTime(s.now()))
	return err
}

// DeletePreference is a no-op when the preference does not exist.
func (s *Store) DeletePreference(ctx context.Context, owner, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM preferences WHERE owner = ? AND key = ?`, owner, key)
	return err
}
