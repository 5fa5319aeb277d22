// internal/database/db.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var DB *pgxpool.Pool

// ConnectDB opens the global pool against databaseURL and pings it.
func ConnectDB(ctx context.Context, databaseURL string) error {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("db ping error: %w", err)
	}

	DB = pool
	log.Infof("Connected to database at %s:%d", config.ConnConfig.Host, config.ConnConfig.Port)
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	join_code   TEXT NOT NULL DEFAULT '',
	size        INT  NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_active TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS round_results (
	room_id     UUID NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
	round_index INT  NOT NULL,
	player_id   UUID NOT NULL,
	player_name TEXT NOT NULL,
	place       INT  NOT NULL,
	title       TEXT NOT NULL,
	wins        INT  NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (room_id, round_index, player_id)
);

CREATE TABLE IF NOT EXISTS room_actions (
	room_id        UUID NOT NULL,
	action_index   INT  NOT NULL,
	actor_id       UUID,
	action_type    TEXT NOT NULL,
	action_payload JSONB NOT NULL DEFAULT '{}',
	occurred_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (room_id, action_index)
);
`

// EnsureSchema creates the tables used by the server and the historian.
func EnsureSchema(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}
	if _, err := DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
