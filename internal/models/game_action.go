package models

import "github.com/google/uuid"

// RoomAction captures a player's inbound request against a room.
type RoomAction struct {
	ActionType string      `json:"type"`
	Cards      []uuid.UUID `json:"cards,omitempty"`
	HandIndex  *int        `json:"handIndex,omitempty"`
	Ready      *bool       `json:"ready,omitempty"`
}
