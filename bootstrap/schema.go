package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Ids are ObjectID hex strings so both stores hand out the same id format.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		content        TEXT NOT NULL,
		author         TEXT NOT NULL REFERENCES users(id),
		status         TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published')),
		category       TEXT NOT NULL DEFAULT 'Uncategorized',
		tags           TEXT[] NOT NULL DEFAULT '{}',
		featured_image TEXT,
		likes          TEXT[] NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		published_at   TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS posts_author_created ON posts (author, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_status_published ON posts (status, published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_category ON posts (category)`,
	`CREATE INDEX IF NOT EXISTS posts_tags ON posts USING GIN (tags)`,
}

// EnsurePostgresSchema creates the tables and indexes if they are missing.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
