package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

const createSubmissionsSqliteQuery = `
	CREATE TABLE IF NOT EXISTS submissions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		name TEXT NOT NULL,
		answer TEXT NOT NULL DEFAULT '',
		latitude REAL NOT NULL,
		longitude REAL NOT NULL
	);
	`

const createSubmissionsPostgresQuery = `
	CREATE TABLE IF NOT EXISTS submissions (
		seq BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMP(0) WITHOUT TIME ZONE NOT NULL,
		name TEXT NOT NULL,
		answer TEXT NOT NULL DEFAULT '',
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	`

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	return initSchema(db, createSubmissionsSqliteQuery)
}

// Initialize the Postgres database schema.
func InitPostgresSchema(db *sql.DB) error {
	return initSchema(db, createSubmissionsPostgresQuery)
}

func initSchema(db *sql.DB, statements ...string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
