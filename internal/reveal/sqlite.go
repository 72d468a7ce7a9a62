// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal remembers which segments have already played their reveal
// animation.
package reveal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS reveal_seen (
	key     TEXT PRIMARY KEY,
	seen_at INTEGER NOT NULL
);`

// ErrClosed is returned by a SQLiteStore after Close.
var ErrClosed = errors.New("reveal store closed")

// SQLiteStore is a Store persisted in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the reveal database at path. Use ":memory:"
// for a throwaway database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Seen implements Store.
func (s *SQLiteStore) Seen(ctx context.Context, key string) (bool, error) {
	if s.db == nil {
		return false, ErrClosed
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM reveal_seen WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query reveal key: %w", err)
	}
	return n > 0, nil
}

// Mark implements Store.
func (s *SQLiteStore) Mark(ctx context.Context, key string) error {
	if s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reveal_seen (key, seen_at) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		key, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to mark reveal key: %w", err)
	}
	return nil
}

// Reset implements Store.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	if s.db == nil {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reveal_seen`); err != nil {
		return fmt.Errorf("failed to reset reveal store: %w", err)
	}
	return nil
}

// Count returns the number of marked keys.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM reveal_seen`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reveal keys: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
