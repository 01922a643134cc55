package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE runs (
		id         TEXT PRIMARY KEY,
		document   TEXT NOT NULL,
		target     TEXT NOT NULL,
		status     TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX runs_document_target ON runs (document, target, created_at)`,
	`CREATE TABLE dependencies (
		run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path    TEXT NOT NULL,
		article TEXT NOT NULL DEFAULT '',
		section TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, path)
	)`,
}

func Migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return fmt.Errorf("checking schema_version: %w", err)
	}
	if count == 0 {
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("initializing schema version: %w", err)
		}
	}

	var current int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(All); i++ {
		if err := apply(db, i); err != nil {
			return err
		}
	}

	return nil
}

// apply runs migration i and bumps the schema version in one transaction.
func apply(db *sql.DB, i int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", i+1, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(All[i]); err != nil {
		return fmt.Errorf("migration %d failed: %w", i+1, err)
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", i+1, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", i+1, err)
	}
	return nil
}
