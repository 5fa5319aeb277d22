package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextOccupiedSeatSkipsEmptyHands(t *testing.T) {
	r, players, _ := setupTestRoom(t, 4)
	players[0].Hand = nil
	players[1].Hand = handOf(card(3, 0))
	players[2].Hand = nil
	players[3].Hand = handOf(card(4, 0))

	assert.Equal(t, 1, r.nextOccupiedSeat(0))
	assert.Equal(t, 3, r.nextOccupiedSeat(1))
	assert.Equal(t, 1, r.nextOccupiedSeat(3))
}

func TestNextOccupiedSeatWithNobodyHoldingCards(t *testing.T) {
	r, players, _ := setupTestRoom(t, 4)
	for _, p := range players {
		p.Hand = nil
	}
	assert.Equal(t, 2, r.nextOccupiedSeat(2))
}

func TestAdvanceAfterPass(t *testing.T) {
	r, players, _ := setupTestRoom(t, 4)
	for _, p := range players {
		p.Hand = handOf(card(5, 0))
	}
	r.LastPlayerPlayed = players[0].ID

	r.setTurn(1)
	next, cleared := r.advanceAfterPass()
	assert.Equal(t, 2, next)
	assert.False(t, cleared)

	r.setTurn(3)
	next, cleared = r.advanceAfterPass()
	assert.Equal(t, 0, next)
	assert.True(t, cleared, "landing on the last player clears the table")
}

func TestAdvanceAfterPassStepsOverFinishedLastPlayer(t *testing.T) {
	r, players, _ := setupTestRoom(t, 4)
	for _, p := range players {
		p.Hand = handOf(card(5, 0))
	}
	// Seat 1 went out on their last play.
	players[1].Hand = nil
	r.LastPlayerPlayed = players[1].ID

	r.setTurn(0)
	next, cleared := r.advanceAfterPass()
	assert.Equal(t, 2, next)
	assert.True(t, cleared)
	assert.Equal(t, players[2].ID, r.CurrentTurnPlayerID)
}
