package db

import (
	"context"
	"fmt"
)

// Constraint names the services inspect on unique violations.
const (
	UsersEmailKey  = "users_email_key"
	UsersHandleKey = "users_handle_key"
	FollowsPkey    = "follows_pkey"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL CONSTRAINT users_email_key UNIQUE,
		handle        TEXT NOT NULL CONSTRAINT users_handle_key UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS follows (
		follower_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		following_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT follows_pkey PRIMARY KEY (follower_id, following_id),
		CONSTRAINT follows_no_self CHECK (follower_id <> following_id)
	)`,
	`CREATE INDEX IF NOT EXISTS follows_following_created_idx ON follows (following_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS follows_follower_created_idx ON follows (follower_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id         TEXT PRIMARY KEY,
		author_id  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text       TEXT NOT NULL CHECK (char_length(text) BETWEEN 1 AND 2000),
		media_url  TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS posts_author_created_idx ON posts (author_id, created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS media_uploads (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		filename   TEXT NOT NULL UNIQUE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, q Querier) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
