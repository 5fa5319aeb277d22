// internal/game/turn.go
package game

import "github.com/google/uuid"

// nextOccupiedSeat scans forward from the seat after from, wrapping, and returns the first
// seat whose player still holds cards. If nobody holds cards it returns from.
func (r *Room) nextOccupiedSeat(from int) int {
	n := len(r.Players)
	if n == 0 {
		return from
	}
	ix := from
	for step := 0; step < n; step++ {
		ix = (ix + 1) % n
		if r.Players[ix].HasCards() {
			return ix
		}
	}
	return from
}

// setTurn points the current turn at seat ix.
func (r *Room) setTurn(ix int) {
	if ix < 0 || ix >= len(r.Players) {
		return
	}
	r.CurrentTurnIx = ix
	r.CurrentTurnPlayerID = r.Players[ix].ID
}

// advanceAfterPlay hands the turn to the next seat holding cards and returns it.
func (r *Room) advanceAfterPlay() int {
	r.setTurn(r.nextOccupiedSeat(r.CurrentTurnIx))
	return r.CurrentTurnIx
}

// advanceAfterPass hands the turn on after a pass. cleared reports that the scan reached or
// stepped over the seat of the last player to play, so nobody is left to beat them.
func (r *Room) advanceAfterPass() (next int, cleared bool) {
	n := len(r.Players)
	lastIx := r.seatOf(r.LastPlayerPlayed)
	ix := r.CurrentTurnIx
	next = r.CurrentTurnIx
	for step := 0; step < n; step++ {
		ix = (ix + 1) % n
		if ix == lastIx {
			cleared = true
		}
		if r.Players[ix].HasCards() {
			next = ix
			break
		}
	}
	r.setTurn(next)
	return next, cleared
}

// seatOf returns the seat index of playerID, or -1.
func (r *Room) seatOf(playerID uuid.UUID) int {
	if playerID == uuid.Nil {
		return -1
	}
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

const tableClearedMessage = "Nobody could beat the last hand. The table is cleared."

// clearTable empties the street after a wildcard or when the turn comes back around to the
// last player who played.
func (r *Room) clearTable() {
	r.CardsPlayed = nil
	r.PreviousHand = nil
	r.Opportunity = Neutral{}
}
