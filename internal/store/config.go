package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ConfigEntry is one row of IterateConfig's result.
type ConfigEntry struct {
	Key   string
	Value string
}

// PutConfig upserts a config key. Replace semantics on conflict.
func PutConfig(ctx context.Context, q querier, key, value string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO config (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("%w: put config %s: %v", ErrWriteFailed, key, err)
	}
	return nil
}

// GetConfig returns a config value, or ErrNotFound if key is unset.
func GetConfig(ctx context.Context, q querier, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("%w: get config %s: %v", ErrReadFailed, key, err)
	}
}

// UnsetConfig removes a config key. Unsetting an absent key is not an error.
func UnsetConfig(ctx context.Context, q querier, key string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM config WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: unset config %s: %v", ErrWriteFailed, key, err)
	}
	return nil
}

// IterateConfig returns every config entry ordered by key.
func IterateConfig(ctx context.Context, q querier) ([]ConfigEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: iterate config: %v", ErrReadFailed, err)
	}
	defer rows.Close()

	var out []ConfigEntry
	for rows.Next() {
		var e ConfigEntry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("%w: scan config entry: %v", ErrReadFailed, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate config: %v", ErrReadFailed, err)
	}
	return out, nil
}

func (s *Store) PutConfig(key, value string) error {
	return PutConfig(context.Background(), s.db, key, value)
}

func (s *Store) GetConfig(key string) (string, error) {
	return GetConfig(context.Background(), s.db, key)
}

func (s *Store) UnsetConfig(key string) error {
	return UnsetConfig(context.Background(), s.db, key)
}

func (s *Store) IterateConfig() ([]ConfigEntry, error) {
	return IterateConfig(context.Background(), s.db)
}

func (t *Tx) PutConfig(key, value string) error {
	return PutConfig(context.Background(), t.tx, key, value)
}

func (t *Tx) GetConfig(key string) (string, error) {
	return GetConfig(context.Background(), t.tx, key)
}

func (t *Tx) UnsetConfig(key string) error {
	return UnsetConfig(context.Background(), t.tx, key)
}

func (t *Tx) IterateConfig() ([]ConfigEntry, error) {
	return IterateConfig(context.Background(), t.tx)
}
