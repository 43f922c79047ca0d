package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the local SQLite database holding the peer working set and the
// location history.
type DB struct {
	*sql.DB
}

// OpenDB opens (creating if necessary) the database at path and ensures the
// schema exists.
func OpenDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &DB{DB: db}, nil
}

func createTables(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS peers (
		id             INTEGER PRIMARY KEY,
		name           TEXT NOT NULL,
		photo_ref      TEXT NOT NULL DEFAULT '',
		location_label TEXT NOT NULL DEFAULT '',
		sharing        INTEGER NOT NULL DEFAULT 0,
		status         INTEGER NOT NULL DEFAULT 0,
		battery        REAL,
		lat            REAL,
		lon            REAL,
		last_moved_ms  INTEGER NOT NULL DEFAULT 0,
		last_reading   TEXT,
		delete_at_ms   INTEGER,
		encryption_key TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS location_history (
		peer_id INTEGER NOT NULL,
		ts_ms   INTEGER NOT NULL,
		reading TEXT NOT NULL,
		PRIMARY KEY (peer_id, ts_ms)
	);`
	_, err := db.Exec(schema)
	return err
}
