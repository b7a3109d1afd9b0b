//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps records as rows of a results table.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveResults(ctx context.Context, name string, lines []string) error {
	if err := validateName(name); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO records (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("failed to register results '%s': %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to clear results '%s': %w", name, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (name, position, line) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for position, line := range lines {
		if _, err := stmt.ExecContext(ctx, name, position, line); err != nil {
			return fmt.Errorf("failed to insert results '%s': %w", name, err)
		}
	}
	return tx.Commit()
}

// LoadResults reports found for any saved record, an empty one included.
func (s *SQLiteStore) LoadResults(ctx context.Context, name string) ([]string, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}

	var found bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM records WHERE name = ?)`, name).Scan(&found); err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	rows, err := db.QueryContext(ctx, `SELECT line FROM results WHERE name = ? ORDER BY position`, name)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, false, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return lines, true, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	for _, statement := range []string{
		`CREATE TABLE IF NOT EXISTS records (
			name TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			line TEXT NOT NULL,
			PRIMARY KEY (name, position)
		)`,
	} {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}
