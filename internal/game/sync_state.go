// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/president-online/president/internal/models"
)

// ClientPlayerSummary is how one player appears to everyone else: hand contents hidden.
type ClientPlayerSummary struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	NumberOfCardsInHand int             `json:"numberOfCardsInHand"`
	Position            models.Position `json:"position"`
	Wins                int             `json:"wins"`
	IsReady             bool            `json:"isReady"`
	IsHost              bool            `json:"isHost"`
	IsInPostGameLobby   bool            `json:"isInPostGameLobby"`
	Connected           bool            `json:"connected"`
}

// ClientOpportunity exposes the completion tracker. Label is "Any" when nothing is tracked.
type ClientOpportunity struct {
	Label     string `json:"card"`
	Rank      int    `json:"points"`
	Remaining int    `json:"numberOfCardsNeeded"`
}

// ClientRoom is the room snapshot every member may see.
type ClientRoom struct {
	ID                  uuid.UUID             `json:"id"`
	Name                string                `json:"room"`
	JoinCode            string                `json:"shareableRoomCode"`
	Phase               Phase                 `json:"phase"`
	NumberOfPlayers     int                   `json:"numberOfPlayers"`
	Players             []ClientPlayerSummary `json:"players"`
	PlayersCompleted    []*uuid.UUID          `json:"playersCompleted"`
	CardsPlayed         []models.Card         `json:"cardsPlayed"`
	LastHand            []models.Card         `json:"lastHand"`
	Opportunity         ClientOpportunity     `json:"opportunityForCompletedIt"`
	HandsToChoose       []int                 `json:"handsToChoose"`
	SelectionOrder      []uuid.UUID           `json:"selectionOrder,omitempty"`
	CurrentTurnIndex    int                   `json:"currentTurnIndex"`
	CurrentTurnPlayerID uuid.UUID             `json:"currentTurnPlayerId"`
	TurnCounter         int                   `json:"turnCounter"`
	GameIsOver          bool                  `json:"gameIsOver"`
	IsFirstGame         bool                  `json:"isFirstGame"`
	NumberOfGames       int                   `json:"numberOfGames"`
}

// ClientPlayer is the private view sent only to its owner.
type ClientPlayer struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Hand              []models.Card   `json:"hand"`
	IsReady           bool            `json:"isReady"`
	Wins              int             `json:"wins"`
	Position          models.Position `json:"position"`
	IsHost            bool            `json:"isHost"`
	IsInPostGameLobby bool            `json:"isInPostGameLobby"`
}

// clientView snapshots the room for broadcast. Caller holds r.Mu.
func (r *Room) clientView() *ClientRoom {
	cr := &ClientRoom{
		ID:                  r.ID,
		Name:                r.Name,
		JoinCode:            r.JoinCode,
		Phase:               r.Phase,
		NumberOfPlayers:     r.NumberOfPlayers,
		Players:             make([]ClientPlayerSummary, 0, len(r.Players)),
		PlayersCompleted:    make([]*uuid.UUID, len(r.PlayersCompleted)),
		CardsPlayed:         append([]models.Card{}, r.CardsPlayed...),
		LastHand:            append([]models.Card{}, r.PreviousHand...),
		HandsToChoose:       []int{},
		SelectionOrder:      append([]uuid.UUID(nil), r.SelectionOrder...),
		CurrentTurnIndex:    r.CurrentTurnIx,
		CurrentTurnPlayerID: r.CurrentTurnPlayerID,
		TurnCounter:         r.TurnCounter,
		GameIsOver:          r.GameIsOver,
		IsFirstGame:         r.IsFirstGame,
		NumberOfGames:       r.NumberOfGames,
	}

	for _, p := range r.Players {
		cr.Players = append(cr.Players, ClientPlayerSummary{
			ID:                  p.ID,
			Name:                p.Name,
			NumberOfCardsInHand: len(p.Hand),
			Position:            p.Position,
			Wins:                p.Wins,
			IsReady:             p.IsReady,
			IsHost:              p.IsHost,
			IsInPostGameLobby:   p.IsInPostGameLobby,
			Connected:           p.Connected,
		})
	}
	for i, p := range r.PlayersCompleted {
		if p != nil {
			id := p.ID
			cr.PlayersCompleted[i] = &id
		}
	}

	switch o := r.Opportunity.(type) {
	case Tracking:
		cr.Opportunity = ClientOpportunity{Label: o.Label, Rank: o.Rank, Remaining: o.Remaining}
	default:
		cr.Opportunity = ClientOpportunity{Label: "Any", Remaining: FullSetSize(r.NumberOfPlayers)}
	}

	// Only sizes are exposed; a size of 0 marks a slot that has already been taken.
	if r.Phase == PhaseRoundComplete {
		for _, h := range r.HandsToChoose {
			cr.HandsToChoose = append(cr.HandsToChoose, len(h))
		}
	}
	return cr
}

// playerView snapshots one player's private state. Caller holds r.Mu.
func playerView(p *models.Player) *ClientPlayer {
	return &ClientPlayer{
		ID:                p.ID,
		Name:              p.Name,
		Hand:              SortHand(p.Hand),
		IsReady:           p.IsReady,
		Wins:              p.Wins,
		Position:          p.Position,
		IsHost:            p.IsHost,
		IsInPostGameLobby: p.IsInPostGameLobby,
	}
}

// ClientView returns a snapshot of the room as members see it.
func (r *Room) ClientView() *ClientRoom {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.clientView()
}
