package storage

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps values in a single kv table
type SQLiteStore struct {
	mu   sync.Mutex
	conn *sql.DB
}

// OpenSQLite opens the database at dbPath, creating it on first use
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		if err := Initialize(dbPath); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{conn: conn}

	// Run any pending migrations
	if err := s.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Get returns the value stored under key
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return "", false, ErrClosed
	}

	var value string
	err := s.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, true, nil
}

// SetMany upserts every value in one transaction
func (s *SQLiteStore) SetMany(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrClosed
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
		    value = excluded.value,
		    updated_at = CURRENT_TIMESTAMP
	`
	for k, v := range values {
		if _, err := tx.Exec(query, k, v); err != nil {
			return fmt.Errorf("writing key %s: %w", k, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Register the sqlite backend
func init() {
	Register("sqlite", func(path string) (KV, error) {
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
