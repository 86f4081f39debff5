// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/voxdraw/internal/diagram"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("diagram not found")
	ErrInvalidName   = errors.New("invalid diagram name")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS diagrams (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL UNIQUE,
	document   TEXT NOT NULL,
	node_count INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_diagrams_updated ON diagrams(updated_at DESC);
`

// =============================================================================
// DIAGRAM STORE
// =============================================================================

// Store persists diagrams to SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Info describes a saved diagram without its contents.
type Info struct {
	Name      string
	NodeCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open opens (creating if needed) the diagram database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
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

	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// validateName rejects empty or whitespace-only diagram names.
func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}

// Save stores doc under name, replacing any previous version.
func (s *Store) Save(name string, doc *diagram.Document) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}

	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}

	now := time.Now().Unix()
	_, err = s.db.Exec(`
		INSERT INTO diagrams (name, document, node_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			node_count = excluded.node_count,
			updated_at = excluded.updated_at
	`, name, string(data), len(doc.Nodes), now, now)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// Load retrieves the diagram saved under name.
func (s *Store) Load(name string) (*diagram.Document, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	var data string
	err = s.db.QueryRow("SELECT document FROM diagrams WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	doc, err := diagram.UnmarshalDocument([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode diagram %q: %w", name, err)
	}
	return doc, nil
}

// Delete removes the diagram saved under name.
func (s *Store) Delete(name string) error {
	name, err := validateName(name)
	if err != nil {
		return err
	}

	result, err := s.db.Exec("DELETE FROM diagrams WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Rename changes a saved diagram's name.
func (s *Store) Rename(oldName, newName string) error {
	oldName, err := validateName(oldName)
	if err != nil {
		return err
	}
	newName, err = validateName(newName)
	if err != nil {
		return err
	}

	result, err := s.db.Exec(
		"UPDATE diagrams SET name = ?, updated_at = ? WHERE name = ?",
		newName, time.Now().Unix(), oldName,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all saved diagrams, most recently updated first.
func (s *Store) List() ([]Info, error) {
	rows, err := s.db.Query(`
		SELECT name, node_count, created_at, updated_at
		FROM diagrams
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var created, updated int64
		if err := rows.Scan(&info.Name, &info.NodeCount, &created, &updated); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		info.CreatedAt = time.Unix(created, 0)
		info.UpdatedAt = time.Unix(updated, 0)
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Exists reports whether a diagram is saved under name.
func (s *Store) Exists(name string) (bool, error) {
	name, err := validateName(name)
	if err != nil {
		return false, err
	}
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM diagrams WHERE name = ?", name).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return count > 0, nil
}
