// internal/game/placement.go
package game

import "github.com/president-online/president/internal/models"

var positionTitles = map[int][]string{
	4: {"President", "Vice President", "Middle Class", "Scum"},
	5: {"President", "Vice President", "Middle Class", "Lower Class", "Scum"},
	6: {"President", "Vice President", "Upper Class", "Lower Class", "Scum", "Scummy Scum"},
	7: {"President", "Vice President", "Upper Class", "Middle Class", "Lower Class", "Scum", "Scummy Scum"},
	8: {"President", "Vice President", "Upper Class", "Middle Class", "Lower Class", "Poor", "Scum", "Scummy Scum"},
}

// PositionTitle returns the title of finishing place in a room of roomSize players.
func PositionTitle(roomSize, place int) string {
	titles, ok := positionTitles[roomSize]
	if !ok || place < 0 || place >= len(titles) {
		return models.Undecided
	}
	return titles[place]
}

// PlacementResult is the outcome of a cascading insertion into the finishing slots.
type PlacementResult struct {
	Slots     []*models.Player
	Displaced []*models.Player
}

// CascadeToLast puts p into the last slot. Each occupant met on the way moves one slot
// earlier until an empty slot absorbs the carry. slots is not modified.
func CascadeToLast(slots []*models.Player, p *models.Player) PlacementResult {
	res := PlacementResult{Slots: make([]*models.Player, len(slots))}
	copy(res.Slots, slots)

	carry := p
	for i := len(res.Slots) - 1; i >= 0 && carry != nil; i-- {
		occupant := res.Slots[i]
		res.Slots[i] = carry
		if occupant != nil {
			res.Displaced = append(res.Displaced, occupant)
		}
		carry = occupant
	}
	return res
}

func (r *Room) stampPosition(p *models.Player, place int) {
	p.Position = models.Position{Place: place, Title: PositionTitle(r.NumberOfPlayers, place)}
}

// placeFinished records p as out of cards. A player whose last play was a single wildcard
// is sent to the last slot instead of the next open one. Caller holds r.Mu.
func (r *Room) placeFinished(p *models.Player, wildcardOut bool) {
	if !wildcardOut {
		place := r.PlaceIndex
		r.PlayersCompleted[place] = p
		r.stampPosition(p, place)
		if place == 0 {
			p.Wins++
		}
		r.PlaceIndex++
		r.logAction(p.ID, "player_placed", map[string]interface{}{"place": place})
	} else {
		res := CascadeToLast(r.PlayersCompleted, p)
		r.PlayersCompleted = res.Slots
		for i, occupant := range r.PlayersCompleted {
			if occupant != nil {
				r.stampPosition(occupant, i)
			}
		}
		r.logAction(p.ID, "player_placed_last", map[string]interface{}{
			"place":     len(r.PlayersCompleted) - 1,
			"displaced": len(res.Displaced),
		})
		r.fireMessage(p.Name + " went out on a 2 and finishes last!")
	}
	r.checkRoundOver()
}

func (r *Room) completedCount() int {
	n := 0
	for _, p := range r.PlayersCompleted {
		if p != nil {
			n++
		}
	}
	return n
}

func (r *Room) isCompleted(p *models.Player) bool {
	for _, c := range r.PlayersCompleted {
		if c == p {
			return true
		}
	}
	return false
}

// checkRoundOver auto-places the last seated player once every other slot is filled.
func (r *Room) checkRoundOver() {
	if r.completedCount() != r.NumberOfPlayers-1 {
		return
	}
	var remaining *models.Player
	for _, p := range r.Players {
		if !r.isCompleted(p) {
			remaining = p
			break
		}
	}
	for i, slot := range r.PlayersCompleted {
		if slot != nil || remaining == nil {
			continue
		}
		r.PlayersCompleted[i] = remaining
		r.stampPosition(remaining, i)
		if i == 0 {
			remaining.Wins++
		}
		break
	}
	r.GameIsOver = true
}
