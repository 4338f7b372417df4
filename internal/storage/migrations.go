package storage

import (
	"fmt"
	"log"
)

// RunMigrations applies any pending database migrations
func (s *SQLiteStore) RunMigrations() error {
	if err := s.runUpdatedAtMigration(); err != nil {
		return err
	}
	return nil
}

// Early databases stored bare key/value pairs without a timestamp.
func (s *SQLiteStore) runUpdatedAtMigration() error {
	var count int
	err := s.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('kv')
		WHERE name = 'updated_at'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for updated_at column: %w", err)
	}

	if count > 0 {
		return nil
	}

	log.Println("Running migration: Adding kv.updated_at column...")

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// SQLite rejects non-constant defaults in ADD COLUMN, so backfill instead
	_, err = tx.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: updated_at" {
		return fmt.Errorf("adding updated_at column: %w", err)
	}
	if _, err := tx.Exec(`UPDATE kv SET updated_at = CURRENT_TIMESTAMP WHERE updated_at IS NULL`); err != nil {
		return fmt.Errorf("backfilling updated_at: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	log.Println("Migration completed successfully")
	return nil
}
