// internal/game/trading.go
package game

import (
	"github.com/google/uuid"
	"github.com/president-online/president/internal/models"
)

// tradeRole describes one side of a post-round exchange.
type tradeRole struct {
	player  *models.Player
	partner *models.Player
	count   int
	// bottom senders must surrender their best cards
	bottom bool
}

func (r *Room) playerAtPlace(place int) *models.Player {
	for _, p := range r.Players {
		if p.Position.Place == place && p.Position.Title != models.Undecided {
			return p
		}
	}
	return nil
}

// tradeSet lists who trades with whom. Small rooms swap one card between first and last
// place; larger rooms add a one-card swap between second and second-to-last, and first and
// last swap two.
func (r *Room) tradeSet() []tradeRole {
	n := r.NumberOfPlayers
	first, last := r.playerAtPlace(0), r.playerAtPlace(n-1)
	if first == nil || last == nil {
		return nil
	}
	if n <= SingleDeckMaxPlayers {
		return []tradeRole{
			{player: first, partner: last, count: 1},
			{player: last, partner: first, count: 1, bottom: true},
		}
	}
	second, secondLast := r.playerAtPlace(1), r.playerAtPlace(n-2)
	roles := []tradeRole{
		{player: first, partner: last, count: 2},
		{player: last, partner: first, count: 2, bottom: true},
	}
	if second != nil && secondLast != nil {
		roles = append(roles,
			tradeRole{player: second, partner: secondLast, count: 1},
			tradeRole{player: secondLast, partner: second, count: 1, bottom: true},
		)
	}
	return roles
}

// TradeHand moves cardIDs from playerID's hand to their trading partner. Once every
// participant has traded the next round starts with the holder of the opening card.
func (r *Room) TradeHand(playerID uuid.UUID, cardIDs []uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, err := r.requirePlayer(playerID)
	if err != nil {
		return r.reject(playerID, err)
	}
	if r.Phase != PhasePostRoundTrading {
		return r.reject(playerID, newRuleError(ErrWrongPhase, "Trading is not open."))
	}

	roles := r.tradeSet()
	var role *tradeRole
	for i := range roles {
		if roles[i].player == p {
			role = &roles[i]
			break
		}
	}
	if role == nil {
		return r.reject(playerID, newRuleError(ErrNotInTradeSet, "You are not trading this round."))
	}
	if r.traded[playerID] {
		return r.reject(playerID, newRuleError(ErrAlreadyTraded, "You have already traded this round."))
	}
	if len(cardIDs) != role.count {
		return r.reject(playerID, newRuleError(ErrWrongTradeCardCount,
			"You tried to trade too little or too many cards. Please only trade %d card(s).", role.count))
	}
	picked, ids, ok := pickCards(p.Hand, cardIDs)
	if !ok {
		return r.reject(playerID, invalidHand(ReasonCardsNotInHand))
	}
	if role.bottom && !isBestCards(p.Hand, picked) {
		return r.reject(playerID, newRuleError(ErrMustTradeBestCards, "Please select your best cards."))
	}

	p.Hand = removeCards(p.Hand, ids)
	role.partner.Hand = append(role.partner.Hand, picked...)
	r.traded[playerID] = true
	r.NumberOfTradesCompleted++
	r.logAction(playerID, "trade_hand", map[string]interface{}{
		"to":    role.partner.ID,
		"count": len(picked),
	})

	r.syncPlayer(role.partner)
	if r.NumberOfTradesCompleted < len(roles) {
		r.emit(EventRoomUpdate, p)
		return nil
	}

	r.setTurn(r.startingSeat())
	r.GameIsOver = false
	r.Phase = PhaseInRound
	for _, pl := range r.Players {
		pl.IsInPostGameLobby = false
	}
	r.logAction(uuid.Nil, string(EventTradingCompleted), map[string]interface{}{"starting": r.CurrentTurnPlayerID})
	r.syncPlayer(p)
	r.fireEvent(RoomEvent{
		Type:    EventTradingCompleted,
		Room:    r.clientView(),
		Payload: map[string]interface{}{"isTradingCompleted": true},
	})
	return nil
}
