package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eraydn/odak/database"
)

// sqliteStore, Store interface'inin SQLite implementasyonu ("kv" tablosu).
type sqliteStore struct {
	db database.TxQuerier
}

// NewSQLite, constructor — interface döner.
func NewSQLite(db database.TxQuerier) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kvstore get %q: %w", key, err)
	}
	return value, nil
}

// Set, UPSERT — key varsa değer ve updated_at güncellenir.
func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("kvstore set %q: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("kvstore delete %q: %w", key, err)
	}
	return nil
}
