package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The UNIQUE constraint on username is a hard requirement: it is the
// serialization point for concurrent registrations of the same name.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id            TEXT PRIMARY KEY,
        username      TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        active        BOOLEAN NOT NULL DEFAULT TRUE,
        created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_users_active_created_at
        ON users (created_at DESC)
        WHERE active`,
}

// EnsureSchema applies the users table schema on startup. Statements are
// idempotent, so repeated boots are safe. One statement per Exec; pgx's
// extended protocol does not take multi-statement strings.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure users schema: %w", err)
		}
	}
	return nil
}
