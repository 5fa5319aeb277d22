package models

import "github.com/google/uuid"

// Undecided is the position title of a player who has not finished a round yet.
const Undecided = "Undecided"

// Position is a finishing place (slot index, 0 is best) and its title.
type Position struct {
	Place int    `json:"place"`
	Title string `json:"title"`
}

type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Hand []Card    `json:"hand"`

	IsReady           bool     `json:"isReady"`
	Wins              int      `json:"wins"`
	Position          Position `json:"position"`
	IsHost            bool     `json:"isHost"`
	IsInPostGameLobby bool     `json:"isInPostGameLobby"`

	// ConnectionID references the transport connection; the hub owns the connection itself.
	ConnectionID string `json:"-"`
	Connected    bool   `json:"-"`
}

// HasCards reports whether the player still holds at least one card.
func (p *Player) HasCards() bool {
	return len(p.Hand) > 0
}
