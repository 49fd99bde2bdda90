package db

import (
	"database/sql"
	"fmt"
)

// All contains the ordered list of migrations to apply.
var All = []string{
	`CREATE TABLE files (
		id           INTEGER PRIMARY KEY,
		file_path    TEXT UNIQUE NOT NULL,
		feature_name TEXT NOT NULL DEFAULT '',
		created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
		updated_at   DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE TABLE scenarios (
		id         INTEGER PRIMARY KEY,
		file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		keyword    TEXT NOT NULL,
		rule_name  TEXT NOT NULL DEFAULT '',
		line       INTEGER NOT NULL,
		steps      INTEGER NOT NULL DEFAULT 0,
		outline    BOOLEAN NOT NULL DEFAULT 0,
		content    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE scenario_tags (
		scenario_id INTEGER NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		tag         TEXT NOT NULL,
		PRIMARY KEY (scenario_id, tag)
	)`,
	`CREATE TABLE parse_results (
		id         INTEGER PRIMARY KEY,
		file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
		category   TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		line       INTEGER NOT NULL DEFAULT 0,
		line_text  TEXT NOT NULL DEFAULT '',
		checked_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`,
	`CREATE INDEX idx_scenario_tags_tag ON scenario_tags(tag)`,
}

// Migrate brings the schema up to len(All), one transaction per migration.
// schema_version holds a single row with the number of applied migrations.
func Migrate(db *sql.DB) error {
	current, err := schemaVersion(db)
	if err != nil {
		return err
	}
	if current > len(All) {
		return fmt.Errorf("schema version %d is newer than this binary (%d)", current, len(All))
	}
	for i := current; i < len(All); i++ {
		if err := apply(db, i+1, All[i]); err != nil {
			return err
		}
	}
	return nil
}

func schemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}
	if _, err := db.Exec(`INSERT INTO schema_version (version) SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM schema_version)`); err != nil {
		return 0, fmt.Errorf("initializing schema version: %w", err)
	}
	var version int
	if err := db.QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func apply(db *sql.DB, version int, stmt string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("migration %d failed: %w", version, err)
	}
	if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, version); err != nil {
		return fmt.Errorf("updating schema version to %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	return nil
}
