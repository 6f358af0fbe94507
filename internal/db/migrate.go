package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER TABLE
// duplicates are tolerated because the list is re-run on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Locally staged wishlist selections, one row per (course, semester).
	`CREATE TABLE IF NOT EXISTS selections (
		course_id      TEXT NOT NULL,
		semester       TEXT NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		short_name     TEXT NOT NULL DEFAULT '',
		classification TEXT NOT NULL DEFAULT '',
		big_type       TEXT NOT NULL DEFAULT '',
		credits        INTEGER NOT NULL DEFAULT 0,
		status         TEXT NOT NULL DEFAULT 'planned'
		               CHECK(status IN ('enrolled','completed','planned')),
		added_at       TEXT NOT NULL,
		PRIMARY KEY (course_id, semester)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_selections_semester ON selections(semester)`,

	// Planning-grid placeholders reserving credits without a real course.
	`CREATE TABLE IF NOT EXISTS placeholders (
		id         TEXT PRIMARY KEY,
		semester   TEXT NOT NULL,
		category   TEXT NOT NULL,
		label      TEXT NOT NULL DEFAULT '',
		credits    REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_placeholders_semester ON placeholders(semester)`,

	// Hypothetical grades for the transcript simulator, keyed by shortName.
	`CREATE TABLE IF NOT EXISTS custom_grades (
		short_name TEXT PRIMARY KEY,
		grade      REAL NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	// Cached copy of the university term list for offline startup.
	`CREATE TABLE IF NOT EXISTS terms (
		short_name TEXT PRIMARY KEY,
		term_id    TEXT NOT NULL DEFAULT '',
		cis_id     TEXT NOT NULL DEFAULT '',
		is_current INTEGER NOT NULL DEFAULT 0
	)`,
}
