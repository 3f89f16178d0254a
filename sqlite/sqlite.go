// Package sqlite provides SQLite-based storage implementations for veridoc
// services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait 5 seconds before failing on lock contention instead of returning
	// an immediate "database is locked" error.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode is faster for writes and allows concurrent reads during
	// writes; it is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the database tables if they don't exist. Facts are
// keyed by (doc_id, page, local_id) with a uniqueness constraint on that
// triple per fact kind.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			content_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS units (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			page INTEGER NOT NULL,
			local_id TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			value TEXT NOT NULL DEFAULT '',
			unit_of_measure TEXT NOT NULL DEFAULT '',
			context TEXT NOT NULL DEFAULT '',
			origin_json TEXT NOT NULL,
			bbox_json TEXT,
			UNIQUE(doc_id, page, local_id)
		);

		CREATE TABLE IF NOT EXISTS bijections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			page INTEGER NOT NULL,
			local_id TEXT NOT NULL,
			left_set_json TEXT NOT NULL,
			right_set_json TEXT NOT NULL,
			mapping_json TEXT NOT NULL,
			origin_json TEXT NOT NULL,
			bbox_json TEXT,
			UNIQUE(doc_id, page, local_id)
		);

		CREATE TABLE IF NOT EXISTS grids (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			page INTEGER NOT NULL,
			local_id TEXT NOT NULL,
			rows INTEGER NOT NULL,
			cols INTEGER NOT NULL,
			cells_json TEXT NOT NULL,
			origin_json TEXT NOT NULL,
			bbox_json TEXT,
			UNIQUE(doc_id, page, local_id)
		);

		CREATE INDEX IF NOT EXISTS idx_units_doc_id ON units(doc_id);
		CREATE INDEX IF NOT EXISTS idx_bijections_doc_id ON bijections(doc_id);
		CREATE INDEX IF NOT EXISTS idx_grids_doc_id ON grids(doc_id);
	`

	_, err := db.db.Exec(schema)
	return err
}
