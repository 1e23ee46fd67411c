package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect selects placeholder and upsert syntax for the kv table.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// SQL stores keys in the kv table created by db.Migrate.
type SQL struct {
	db       *sql.DB
	getQuery string
	setQuery string
	delQuery string
}

func NewSQL(db *sql.DB, d Dialect) (*SQL, error) {
	s := &SQL{db: db}
	switch d {
	case Postgres:
		s.getQuery = `SELECT value FROM kv WHERE key = $1`
		s.delQuery = `DELETE FROM kv WHERE key = $1`
		s.setQuery = `
			INSERT INTO kv (key, value, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = now()`
	case SQLite:
		s.getQuery = `SELECT value FROM kv WHERE key = ?`
		s.delQuery = `DELETE FROM kv WHERE key = ?`
		s.setQuery = `
			INSERT INTO kv (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET
				value = excluded.value,
				updated_at = CURRENT_TIMESTAMP`
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", d)
	}
	return s, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key, value); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.delQuery, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}
