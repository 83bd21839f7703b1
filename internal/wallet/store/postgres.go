package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	schema: `CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value BYTEA NOT NULL,
    updated_at BIGINT NOT NULL
)`,
	get: `SELECT value FROM kv_store WHERE key = $1`,
	put: `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
}

type PostgresKV struct {
	sqlKV
}

// NewPostgresKV uses an already opened connection pool. Call Migrate before first use.
func NewPostgresKV(db *sql.DB) *PostgresKV {
	return &PostgresKV{sqlKV{db: db, dialect: postgresDialect, now: time.Now}}
}

func OpenPostgres(ctx context.Context, dsn string) (*PostgresKV, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	kv := NewPostgresKV(db)
	if err := kv.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return kv, nil
}

func (s *PostgresKV) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}
