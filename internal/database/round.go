// internal/database/round.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/president-online/president/internal/models"
)

// RoomInfo is the static description of a room stored alongside its results.
type RoomInfo struct {
	ID       uuid.UUID
	Name     string
	JoinCode string
	Size     int
}

// RecordRoundResults persists one round's finishing order in a single transaction.
func RecordRoundResults(ctx context.Context, room RoomInfo, roundIndex int, standings []models.Player) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertRoom := `
			INSERT INTO rooms (id, name, join_code, size)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET last_active = NOW()
		`
		if _, e := tx.Exec(ctx, upsertRoom, room.ID, room.Name, room.JoinCode, room.Size); e != nil {
			return e
		}

		q := `
			INSERT INTO round_results (room_id, round_index, player_id, player_name, place, title, wins)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (room_id, round_index, player_id)
			DO UPDATE SET place = $5, title = $6, wins = $7
		`
		for _, p := range standings {
			if _, e := tx.Exec(ctx, q, room.ID, roundIndex, p.ID, p.Name, p.Position.Place, p.Position.Title, p.Wins); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx record round results: %w", err)
	}
	return nil
}
