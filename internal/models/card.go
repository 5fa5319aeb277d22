package models

import "github.com/google/uuid"

// Card is an immutable playing card. Rooms with more than five players hold two decks,
// so two cards may share Label and Suit; ID is the only uniqueness key.
type Card struct {
	ID           uuid.UUID `json:"id"`
	Label        string    `json:"card"`
	Suit         string    `json:"suit"`
	Rank         int       `json:"points"`
	SuitTiebreak float64   `json:"suitPoints"`
	Color        string    `json:"color"`
}

// Value is the card's contribution to a hand total: rank plus the suit tiebreak.
func (c Card) Value() float64 {
	return float64(c.Rank) + c.SuitTiebreak
}
