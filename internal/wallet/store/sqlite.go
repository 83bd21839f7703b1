package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	schema: `CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at INTEGER NOT NULL
)`,
	get: `SELECT value FROM kv_store WHERE key = ?`,
	put: `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
}

type SQLiteKV struct {
	sqlKV
}

// OpenSQLite opens (creating if needed) the database file at path and ensures the table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer keeps sqlite from returning SQLITE_BUSY under concurrent puts
	db.SetMaxOpenConns(1)

	kv := &SQLiteKV{sqlKV{db: db, dialect: sqliteDialect, now: time.Now}}
	if err := kv.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return kv, nil
}
