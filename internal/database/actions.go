// internal/database/actions.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/president-online/president/internal/cache"
)

// InsertRoomActions writes a batch of action records in one transaction. Records already
// stored are ignored so a replayed batch is harmless.
func InsertRoomActions(ctx context.Context, records []cache.RoomActionRecord) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO room_actions (
				room_id, action_index, actor_id, action_type, action_payload, occurred_at
			) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (room_id, action_index) DO NOTHING
		`
		for _, rec := range records {
			payload, err := json.Marshal(rec.ActionPayload)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, q,
				rec.RoomID, rec.ActionIndex, rec.ActorID, rec.ActionType, payload,
				time.UnixMilli(rec.Timestamp),
			); err != nil {
				return fmt.Errorf("insert action %d for room %s: %w", rec.ActionIndex, rec.RoomID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert room actions: %w", err)
	}
	return nil
}
