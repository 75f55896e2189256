package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Open opens the database at path and applies the schema.
// SQLite allows one writer at a time, so the pool is capped at a single
// connection and busy_timeout absorbs short lock waits.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT    NOT NULL PRIMARY KEY,
			full_name     TEXT    NOT NULL,
			email         TEXT    NOT NULL,
			password_hash TEXT    NOT NULL,
			role          TEXT    NOT NULL CHECK (role IN ('student', 'instructor', 'admin')),
			department    TEXT,
			position      TEXT,
			active        INTEGER NOT NULL DEFAULT 1,
			last_login    TEXT,
			login_count   INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT    NOT NULL,
			CHECK (role <> 'instructor' OR (department IS NOT NULL AND position IS NOT NULL))
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_uniq ON users (lower(email));`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}
