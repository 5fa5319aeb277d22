// internal/game/round.go
package game

import (
	"github.com/google/uuid"
	"github.com/president-online/president/internal/models"
	log "github.com/sirupsen/logrus"
)

// RoundResult is handed to OnRoundEnd once a round's finishing order is final.
type RoundResult struct {
	RoomID     uuid.UUID
	RoundIndex int
	Standings  []models.Player
}

// OnRoundEndFunc receives the final standings of a round. It runs while the room lock is
// held and must not call back into the room.
type OnRoundEndFunc func(result RoundResult)

// finishRound closes a round whose finishing order is complete and opens hand selection.
func (r *Room) finishRound() {
	result := RoundResult{RoomID: r.ID, RoundIndex: r.NumberOfGames}
	for _, p := range r.PlayersCompleted {
		if p != nil {
			result.Standings = append(result.Standings, *p)
		}
	}

	// Worst place picks first.
	r.SelectionOrder = r.SelectionOrder[:0]
	for i := len(r.PlayersCompleted) - 1; i >= 0; i-- {
		if p := r.PlayersCompleted[i]; p != nil {
			r.SelectionOrder = append(r.SelectionOrder, p.ID)
		}
	}

	r.logAction(uuid.Nil, "round_over", map[string]interface{}{"round": r.NumberOfGames})
	log.WithFields(log.Fields{"room": r.ID, "round": r.NumberOfGames}).Info("round finished")

	r.resetRound()

	if r.OnRoundEnd != nil {
		r.OnRoundEnd(result)
	}
	r.fireEvent(RoomEvent{
		Type:    EventRoundOver,
		Room:    r.clientView(),
		Message: "The round is over. Choose your next hand.",
	})
	r.syncAllPlayers()
}

// resetRound redeals into the selection pool and re-stamps positions from the finished
// placements. The first-place finisher provisionally holds the next turn.
func (r *Room) resetRound() {
	r.Deck = BuildDeck(r.NumberOfPlayers)
	r.HandsToChoose = DealDeck(r.Deck, r.NumberOfPlayers, r.rng)
	r.NumberOfGames++
	r.TurnCounter = 0
	r.CardsPlayed = nil
	r.PreviousHand = nil
	r.LastPlayerPlayed = uuid.Nil
	r.Opportunity = Neutral{}
	r.IsFirstGame = false

	if first := r.PlayersCompleted[0]; first != nil {
		r.setTurn(r.seatOf(first.ID))
	}
	for _, p := range r.Players {
		p.Hand = nil
	}
	for i, p := range r.PlayersCompleted {
		if p != nil {
			r.stampPosition(p, i)
		}
	}

	r.PlayersCompleted = make([]*models.Player, r.NumberOfPlayers)
	r.PlaceIndex = 0
	r.NumberOfTradesCompleted = 0
	r.traded = make(map[uuid.UUID]bool)
	r.Phase = PhaseRoundComplete
}

// SelectHand assigns pool hand handIndex to playerID. Players pick in reverse finishing
// order; once every hand is taken the room moves on to trading.
func (r *Room) SelectHand(playerID uuid.UUID, handIndex int) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, err := r.requirePlayer(playerID)
	if err != nil {
		return r.reject(playerID, err)
	}
	if r.Phase != PhaseRoundComplete {
		return r.reject(playerID, newRuleError(ErrWrongPhase, "Hands can only be chosen after a round."))
	}
	if len(r.SelectionOrder) == 0 || r.SelectionOrder[0] != playerID {
		return r.reject(playerID, newRuleError(ErrOutOfTurn, "It is not your turn to choose a hand."))
	}
	if handIndex < 0 || handIndex >= len(r.HandsToChoose) || r.HandsToChoose[handIndex] == nil {
		return r.reject(playerID, newRuleError(ErrInvalidSelection, "That hand is not available."))
	}

	p.Hand = r.HandsToChoose[handIndex]
	r.HandsToChoose[handIndex] = nil
	r.SelectionOrder = r.SelectionOrder[1:]
	r.logAction(playerID, string(EventHandSelected), map[string]interface{}{"handIndex": handIndex})

	if len(r.SelectionOrder) == 0 {
		r.Phase = PhasePostRoundTrading
		r.fireMessage("All hands chosen. Trading has started.")
	}
	r.emit(EventHandSelected, p)
	return nil
}

// EnterPostGameLobby flags playerID as having reached the post-round lobby. It is only
// valid between rounds.
func (r *Room) EnterPostGameLobby(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, err := r.requirePlayer(playerID)
	if err != nil {
		return r.reject(playerID, err)
	}
	if r.Phase != PhaseRoundComplete && r.Phase != PhasePostRoundTrading {
		return r.reject(playerID, newRuleError(ErrWrongPhase, "There is no finished round to leave."))
	}
	p.IsInPostGameLobby = true
	r.fireEvent(RoomEvent{Type: EventRoomUpdate, Room: r.clientView()})
	return nil
}
