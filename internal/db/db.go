// Package db provides PostgreSQL storage for finished resume extractions.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping reports whether the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const schemaSQL = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS resume_extractions (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	file_name    TEXT NOT NULL DEFAULT '',
	file_hash    TEXT NOT NULL,
	pages        INTEGER NOT NULL DEFAULT 0,
	source_chars INTEGER NOT NULL DEFAULT 0,
	model        TEXT NOT NULL DEFAULT '',
	result       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_resume_extractions_hash ON resume_extractions (file_hash);
CREATE INDEX IF NOT EXISTS idx_resume_extractions_created ON resume_extractions (created_at DESC);
`

// EnsureSchema creates the tables used by this package when they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
