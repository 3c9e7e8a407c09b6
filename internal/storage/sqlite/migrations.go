package sqlite

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// Databases created by hand or by an older build may lack the table
	if err := db.runTableMigration(); err != nil {
		return err
	}

	if err := db.runTimestampMigration(); err != nil {
		return err
	}

	return nil
}

func (db *DB) runTableMigration() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM sqlite_master
		WHERE type = 'table' AND name = 'kv'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for kv table: %w", err)
	}

	if count == 0 {
		log.Info("Running migration: creating kv table")
		if _, err := db.conn.Exec(schema); err != nil {
			return fmt.Errorf("creating kv table: %w", err)
		}
	}

	return nil
}

func (db *DB) runTimestampMigration() error {
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('kv')
		WHERE name = 'updated_at'
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking for updated_at column: %w", err)
	}

	if count == 0 {
		log.Info("Running migration: adding updated_at column")

		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("starting transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(`ALTER TABLE kv ADD COLUMN updated_at DATETIME`)
		if err != nil && err.Error() != "duplicate column name: updated_at" {
			return fmt.Errorf("adding updated_at column: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration: %w", err)
		}

		log.Info("Migration completed successfully")
	}

	return nil
}
