// Package sqlite persists the recordings document in a sqlite blob table,
// the default backend for the server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// StorageKey is the well-known key the recordings document lives under.
const StorageKey = "bpData"

type Storage struct {
	db *sql.DB
}

func New(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
	`); err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Load(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, StorageKey)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (s *Storage) Save(ctx context.Context, document string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents(key, value, updated_at) VALUES(?,?,?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`, StorageKey, document, time.Now().UTC())
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}
