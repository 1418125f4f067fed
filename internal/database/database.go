package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		id          TEXT PRIMARY KEY,
		sender_id   TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		content     TEXT NOT NULL DEFAULT '',
		file_url    TEXT,
		read        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMPTZ NOT NULL,
		CONSTRAINT messages_no_self CHECK (sender_id <> receiver_id)
	)`,
	`CREATE INDEX IF NOT EXISTS messages_sender_idx ON messages (sender_id)`,
	`CREATE INDEX IF NOT EXISTS messages_receiver_idx ON messages (receiver_id)`,
}

// Connect opens a pgx pool on databaseURL and checks that the server answers.
func Connect(ctx context.Context, databaseURL string, log *slog.Logger) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connected successfully using PGX")
	return pool, nil
}

// Migrate creates the messages table and its lookup indexes when missing.
// The users table belongs to the account service and is only read here.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, statement := range migrations {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
