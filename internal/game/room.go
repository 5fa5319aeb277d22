// internal/game/room.go
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/president-online/president/internal/cache"
	"github.com/president-online/president/internal/models"
	log "github.com/sirupsen/logrus"
)

// Phase is the room's position in its lifecycle.
type Phase string

const (
	PhaseLobby            Phase = "lobby"
	PhaseInRound          Phase = "in_round"
	PhaseRoundComplete    Phase = "round_complete"
	PhasePostRoundTrading Phase = "post_round_trading"
)

// Room holds the authoritative state of one table. Every exported method takes Mu for its
// full duration, including event emission.
type Room struct {
	ID              uuid.UUID
	JoinCode        string
	Name            string
	NumberOfPlayers int

	// Players is in seating order.
	Players []*models.Player
	// PlayersCompleted is indexed by finishing place; nil means the place is open.
	PlayersCompleted []*models.Player

	Deck []models.Card
	// HandsToChoose holds dealt hands waiting for an owner; nil means the slot was taken.
	HandsToChoose [][]models.Card
	CardsPlayed   []models.Card
	PreviousHand  []models.Card
	Opportunity   Opportunity

	CurrentTurnIx       int
	CurrentTurnPlayerID uuid.UUID
	TurnCounter         int
	// PlaceIndex is the next open finishing place for a normal finish.
	PlaceIndex       int
	LastPlayerPlayed uuid.UUID

	GameIsOver              bool
	NumberOfGames           int
	NumberOfTradesCompleted int
	IsFirstGame             bool
	Phase                   Phase

	// SelectionOrder is the queue of players still to choose a hand after a round.
	SelectionOrder []uuid.UUID

	traded      map[uuid.UUID]bool
	actionIndex int
	rng         *rand.Rand

	Mu sync.Mutex

	// BroadcastFn sends an event to every member of the room.
	BroadcastFn func(ev RoomEvent)

	// BroadcastToPlayerFn sends an event to a single member.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev RoomEvent)

	OnRoundEnd OnRoundEndFunc
}

// NewRoom builds an empty room for numberOfPlayers seats and deals the opening hands into
// the selection pool. A nil rng uses a time-seeded source.
func NewRoom(name string, numberOfPlayers int, rng *rand.Rand) (*Room, error) {
	if numberOfPlayers < MinPlayers || numberOfPlayers > MaxPlayers {
		return nil, newRuleError(ErrInvalidRoomSize, "Rooms hold between %d and %d players.", MinPlayers, MaxPlayers)
	}
	if rng == nil {
		rng = newShuffleSource()
	}
	r := &Room{
		ID:               uuid.New(),
		Name:             name,
		NumberOfPlayers:  numberOfPlayers,
		Players:          make([]*models.Player, 0, numberOfPlayers),
		PlayersCompleted: make([]*models.Player, numberOfPlayers),
		Opportunity:      Neutral{},
		IsFirstGame:      true,
		Phase:            PhaseLobby,
		traded:           make(map[uuid.UUID]bool),
		rng:              rng,
	}
	r.Deck = BuildDeck(numberOfPlayers)
	r.HandsToChoose = DealDeck(r.Deck, numberOfPlayers, rng)
	return r, nil
}

// Join seats a new player and hands them the first waiting hand.
func (r *Room) Join(name string) (*models.Player, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if len(r.Players) >= r.NumberOfPlayers {
		return nil, newRuleError(ErrRoomFull, "Room %s is full.", r.JoinCode)
	}
	if r.Phase != PhaseLobby {
		return nil, newRuleError(ErrRoundInProgress, "Room %s has already started.", r.JoinCode)
	}

	slot := -1
	for i, h := range r.HandsToChoose {
		if h != nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, newRuleError(ErrRoomFull, "Room %s has no hands left to deal.", r.JoinCode)
	}

	p := &models.Player{
		ID:       uuid.New(),
		Name:     name,
		Hand:     r.HandsToChoose[slot],
		Position: models.Position{Title: models.Undecided},
		IsHost:   len(r.Players) == 0,
	}
	r.HandsToChoose[slot] = nil
	r.Players = append(r.Players, p)

	log.WithFields(log.Fields{"room": r.ID, "player": p.ID, "slot": slot}).Info("player joined room")
	r.logAction(p.ID, "player_join", map[string]interface{}{"name": name, "slot": slot})
	r.fireEvent(RoomEvent{Type: EventRoomUpdate, Room: r.clientView()})
	return p, nil
}

// Attach marks playerID as connected through connectionID and sends them their view.
func (r *Room) Attach(playerID uuid.UUID, connectionID string) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return newRuleError(ErrPlayerNotFound, "Player %s is not in room %s.", playerID, r.ID)
	}
	p.ConnectionID = connectionID
	p.Connected = true
	r.fireEventToPlayer(p.ID, RoomEvent{Type: EventJoinedRoom, Room: r.clientView(), Player: playerView(p)})
	r.fireEvent(RoomEvent{Type: EventRoomUpdate, Room: r.clientView()})
	return nil
}

// Leave removes playerID from the lobby and returns their hand to the pool. It reports how
// many players remain seated.
func (r *Room) Leave(playerID uuid.UUID) (int, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Phase != PhaseLobby {
		return len(r.Players), newRuleError(ErrRoundInProgress, "You can only leave from the lobby.")
	}
	if err := r.removePlayer(playerID); err != nil {
		return len(r.Players), err
	}
	return len(r.Players), nil
}

// Disconnect handles a dropped connection. In the lobby the player leaves; during a round
// the seat is kept and marked disconnected. removed reports that the seat was given up and
// abandoned that nobody is left to play.
func (r *Room) Disconnect(playerID uuid.UUID) (removed, abandoned bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Phase == PhaseLobby {
		if err := r.removePlayer(playerID); err != nil {
			log.WithError(err).WithField("room", r.ID).Warn("disconnect for unknown player")
			return false, len(r.Players) == 0
		}
		return true, len(r.Players) == 0
	}

	p := r.playerByID(playerID)
	if p == nil {
		return false, r.connectedCount() == 0
	}
	p.Connected = false
	p.ConnectionID = ""
	r.logAction(playerID, "player_disconnect", nil)
	r.fireMessage(p.Name + " has disconnected.")
	r.fireEvent(RoomEvent{Type: EventRoomUpdate, Room: r.clientView()})
	return false, r.connectedCount() == 0
}

func (r *Room) removePlayer(playerID uuid.UUID) error {
	ix := r.seatOf(playerID)
	if ix < 0 {
		return newRuleError(ErrPlayerNotFound, "Player %s is not in room %s.", playerID, r.ID)
	}
	p := r.Players[ix]
	r.Players = append(r.Players[:ix], r.Players[ix+1:]...)

	for i, h := range r.HandsToChoose {
		if h == nil {
			r.HandsToChoose[i] = p.Hand
			break
		}
	}
	p.Hand = nil

	if p.IsHost && len(r.Players) > 0 {
		r.Players[0].IsHost = true
	}
	log.WithFields(log.Fields{"room": r.ID, "player": playerID}).Info("player left room")
	r.logAction(playerID, "player_leave", nil)
	if len(r.Players) > 0 {
		r.fireMessage(p.Name + " has left the room.")
		r.fireEvent(RoomEvent{Type: EventRoomUpdate, Room: r.clientView()})
	}
	return nil
}

// ReadyUp toggles playerID's ready flag. When the full roster is ready the round starts
// with the holder of the opening card.
func (r *Room) ReadyUp(playerID uuid.UUID, ready bool) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, err := r.requirePlayer(playerID)
	if err != nil {
		return r.reject(playerID, err)
	}
	if r.Phase != PhaseLobby {
		return r.reject(playerID, newRuleError(ErrWrongPhase, "The round has already started."))
	}
	p.IsReady = ready
	r.logAction(playerID, string(EventReadyUp), map[string]interface{}{"ready": ready})
	r.emit(EventReadyUp, p)

	if len(r.Players) < r.NumberOfPlayers {
		return nil
	}
	for _, pl := range r.Players {
		if !pl.IsReady {
			return nil
		}
	}

	r.setTurn(r.startingSeat())
	r.TurnCounter = 0
	r.Phase = PhaseInRound
	log.WithFields(log.Fields{"room": r.ID, "starting": r.CurrentTurnPlayerID}).Info("all players ready")
	r.logAction(uuid.Nil, string(EventAllPlayersReady), map[string]interface{}{"starting": r.CurrentTurnPlayerID})
	r.fireEvent(RoomEvent{Type: EventAllPlayersReady, Room: r.clientView()})
	return nil
}

// PlayHand plays cardIDs from playerID's hand onto the table.
func (r *Room) PlayHand(playerID uuid.UUID, cardIDs []uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, err := r.requirePlayer(playerID)
	if err != nil {
		return r.reject(playerID, err)
	}
	if r.Phase != PhaseInRound {
		return r.reject(playerID, newRuleError(ErrWrongPhase, "There is no round in progress."))
	}
	if r.CurrentTurnPlayerID != playerID {
		return r.reject(playerID, newRuleError(ErrOutOfTurn, "It is not %s's turn.", p.Name))
	}
	if len(cardIDs) == 0 {
		return r.reject(playerID, invalidHand(ReasonEmptyHand))
	}
	candidate, ids, ok := pickCards(p.Hand, cardIDs)
	if !ok {
		return r.reject(playerID, invalidHand(ReasonCardsNotInHand))
	}
	if rerr := CheckPlay(candidate, r.PreviousHand, r.isFirstPlay()); rerr != nil {
		return r.reject(playerID, rerr)
	}

	prev := r.PreviousHand
	wildcard := isSingleWildcard(candidate)

	p.Hand = removeCards(p.Hand, ids)
	r.CardsPlayed = append(r.CardsPlayed, candidate...)
	r.Opportunity = AdvanceOpportunity(r.Opportunity, prev, candidate, FullSetSize(r.NumberOfPlayers))
	r.PreviousHand = candidate
	r.LastPlayerPlayed = playerID
	r.TurnCounter++
	r.logAction(playerID, string(EventPlayedHand), map[string]interface{}{
		"cards": cardIDs,
		"rank":  candidate[0].Rank,
	})

	if wildcard {
		r.clearTable()
		r.fireMessage(p.Name + " cleared the table with a 2!")
	}
	if !p.HasCards() {
		r.placeFinished(p, wildcard)
	}

	if r.GameIsOver {
		r.emit(EventPlayedHand, p)
		r.finishRound()
		return nil
	}

	// A wildcard keeps the lead with the player unless they just went out.
	if !wildcard || !p.HasCards() {
		next := r.advanceAfterPlay()
		if len(prev) == len(candidate) && len(prev) > 0 && prev[0].Rank == candidate[0].Rank {
			skipped := r.Players[next]
			r.advanceAfterPlay()
			r.fireMessage(skipped.Name + " has been skipped!")
		}
		// Everyone else is out or skipped, so nobody is left to beat the hand.
		if r.CurrentTurnPlayerID == playerID {
			r.clearTable()
			r.fireMessage(tableClearedMessage)
		}
	}

	r.emit(EventPlayedHand, p)
	return nil
}

// PassTurn passes playerID's turn. If everyone passes back around to the last player who
// played, the table is cleared and that player leads.
func (r *Room) PassTurn(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, err := r.requirePlayer(playerID)
	if err != nil {
		return r.reject(playerID, err)
	}
	if r.Phase != PhaseInRound {
		return r.reject(playerID, newRuleError(ErrWrongPhase, "There is no round in progress."))
	}
	if r.CurrentTurnPlayerID != playerID {
		return r.reject(playerID, newRuleError(ErrOutOfTurn, "It is not %s's turn.", p.Name))
	}
	if len(r.PreviousHand) == 0 {
		return r.reject(playerID, newRuleError(ErrCannotPassLead, "You are leading and cannot pass."))
	}

	_, cleared := r.advanceAfterPass()
	r.logAction(playerID, string(EventPassedTurn), map[string]interface{}{"cleared": cleared})
	if cleared {
		r.clearTable()
		r.fireMessage(tableClearedMessage)
	}
	r.emit(EventPassedTurn, p)
	return nil
}

// CompletedIt claims the rest of a set out of turn.
func (r *Room) CompletedIt(playerID uuid.UUID, cardIDs []uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p, err := r.requirePlayer(playerID)
	if err != nil {
		return r.reject(playerID, err)
	}
	if r.Phase != PhaseInRound {
		return r.reject(playerID, newRuleError(ErrWrongPhase, "There is no round in progress."))
	}
	claim, ids, ok := pickCards(p.Hand, cardIDs)
	if !ok || len(claim) == 0 {
		return r.reject(playerID, invalidHand(ReasonCardsNotInHand))
	}
	if !IsCompletionValid(claim, r.Opportunity, FullSetSize(r.NumberOfPlayers)) {
		return r.reject(playerID, newRuleError(ErrCompletionInvalid, "Those cards do not complete the set."))
	}

	p.Hand = removeCards(p.Hand, ids)
	r.CardsPlayed = append(r.CardsPlayed, claim...)
	r.Opportunity = Neutral{}
	r.logAction(playerID, string(EventCompletedIt), map[string]interface{}{
		"cards": cardIDs,
		"rank":  claim[0].Rank,
	})
	r.fireMessage(p.Name + " completed it!")

	if !p.HasCards() {
		r.placeFinished(p, false)
		if r.GameIsOver {
			r.emit(EventCompletedIt, p)
			r.finishRound()
			return nil
		}
		if r.CurrentTurnPlayerID == playerID {
			r.advanceAfterPlay()
		}
	}

	r.emit(EventCompletedIt, p)
	return nil
}

// Snapshot returns the room view and playerID's private view, which is nil if they are
// not seated.
func (r *Room) Snapshot(playerID uuid.UUID) (*ClientRoom, *ClientPlayer) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	var pv *ClientPlayer
	if p := r.playerByID(playerID); p != nil {
		pv = playerView(p)
	}
	return r.clientView(), pv
}

// isFirstPlay reports whether the opening-card rule applies to the next play. If the
// opening card was left undealt the rule is waived.
func (r *Room) isFirstPlay() bool {
	if r.TurnCounter != 0 {
		return false
	}
	for _, p := range r.Players {
		for _, c := range p.Hand {
			if IsOpeningCard(c) {
				return true
			}
		}
	}
	return false
}

// startingSeat returns the seat holding the opening card, or the lowest card in play when
// the opening card was not dealt.
func (r *Room) startingSeat() int {
	best, bestValue := 0, -1.0
	for i, p := range r.Players {
		for _, c := range p.Hand {
			if IsOpeningCard(c) {
				return i
			}
			if bestValue < 0 || c.Value() < bestValue {
				best, bestValue = i, c.Value()
			}
		}
	}
	return best
}

func (r *Room) playerByID(playerID uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) requirePlayer(playerID uuid.UUID) (*models.Player, *RuleError) {
	if p := r.playerByID(playerID); p != nil {
		return p, nil
	}
	return nil, newRuleError(ErrPlayerNotFound, "Player %s is not in room %s.", playerID, r.ID)
}

func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// reject reports rerr to the actor. Turn and hand violations are also shown to the room.
func (r *Room) reject(playerID uuid.UUID, rerr *RuleError) error {
	log.WithFields(log.Fields{"room": r.ID, "player": playerID, "code": rerr.Code}).Debug(rerr.Message)
	r.fireEventToPlayer(playerID, RoomEvent{Type: EventError, Error: rerr, Message: rerr.Message})
	if rerr.Code == ErrOutOfTurn || rerr.Code == ErrInvalidHand {
		r.fireMessage(rerr.Message)
	}
	return rerr
}

// emit broadcasts the room view under evType and sends the actor their private view.
func (r *Room) emit(evType RoomEventType, actor *models.Player) {
	r.fireEvent(RoomEvent{Type: evType, Room: r.clientView()})
	if actor != nil {
		r.syncPlayer(actor)
	}
}

func (r *Room) syncPlayer(p *models.Player) {
	r.fireEventToPlayer(p.ID, RoomEvent{Type: EventPlayerUpdate, Player: playerView(p)})
}

func (r *Room) syncAllPlayers() {
	for _, p := range r.Players {
		r.syncPlayer(p)
	}
}

func (r *Room) fireMessage(msg string) {
	r.fireEvent(RoomEvent{Type: EventBroadcastMessage, Message: msg})
}

func (r *Room) fireEvent(ev RoomEvent) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

func (r *Room) fireEventToPlayer(playerID uuid.UUID, ev RoomEvent) {
	if r.BroadcastToPlayerFn != nil {
		r.BroadcastToPlayerFn(playerID, ev)
	}
}

// logAction queues an action record for the historian. Skipped when Redis is not connected.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if cache.Rdb == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.RoomActionRecord{
		RoomID:        r.ID,
		ActionIndex:   r.actionIndex,
		ActorID:       actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.RoomActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			log.WithError(err).WithField("room", rec.RoomID).Warn("failed to publish room action")
		}
	}(record)
}
