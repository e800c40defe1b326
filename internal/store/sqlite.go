// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver, no cgo
)

// =============================================================================
// SQLITE STORAGE
// =============================================================================

// SQLiteStorage keeps all identity records in a single-table SQLite
// database. Suited to shared machines where a single database file is
// easier to back up than a directory of JSON snapshots.
type SQLiteStorage struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS identity_sessions (
	email      TEXT PRIMARY KEY,
	sessions   TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// NewSQLiteStorage opens (and if needed creates) the database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// The store serializes its own writes; a single connection avoids
	// SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Read implements Storage.
func (s *SQLiteStorage) Read(email string) ([]byte, bool, error) {
	var data string
	err := s.db.QueryRow(
		`SELECT sessions FROM identity_sessions WHERE email = ?`, email,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record: %w", err)
	}
	return []byte(data), true, nil
}

// Write implements Storage.
func (s *SQLiteStorage) Write(email string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO identity_sessions (email, sessions, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET sessions = excluded.sessions, updated_at = excluded.updated_at`,
		email, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Delete implements Storage.
func (s *SQLiteStorage) Delete(email string) error {
	if _, err := s.db.Exec(`DELETE FROM identity_sessions WHERE email = ?`, email); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Close implements Storage.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
