// internal/game/game_test.go
package game

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/president-online/president/internal/models"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []RoomEvent               // Events sent to everyone
	playerEvents map[uuid.UUID][]RoomEvent // Events sent to specific players
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{
		playerEvents: make(map[uuid.UUID][]RoomEvent),
	}
}

func (mb *mockBroadcaster) broadcastFn(ev RoomEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(playerID uuid.UUID, ev RoomEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = []RoomEvent{}
	mb.playerEvents = make(map[uuid.UUID][]RoomEvent)
}

func (mb *mockBroadcaster) getLastEvent() *RoomEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.allEvents) == 0 {
		return nil
	}
	return &mb.allEvents[len(mb.allEvents)-1]
}

func (mb *mockBroadcaster) getLastPlayerEvent(playerID uuid.UUID) *RoomEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	events, ok := mb.playerEvents[playerID]
	if !ok || len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

// messages returns every broadcast_message text seen so far.
func (mb *mockBroadcaster) messages() []string {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []string
	for _, ev := range mb.allEvents {
		if ev.Type == EventBroadcastMessage {
			out = append(out, ev.Message)
		}
	}
	return out
}

// hasEvent reports whether an event of evType was broadcast.
func (mb *mockBroadcaster) hasEvent(evType RoomEventType) bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for _, ev := range mb.allEvents {
		if ev.Type == evType {
			return true
		}
	}
	return false
}

// setupTestRoom builds a full lobby of numPlayers with a seeded shuffle and a mock broadcaster.
func setupTestRoom(t *testing.T, numPlayers int) (*Room, []*models.Player, *mockBroadcaster) {
	t.Helper()
	r, err := NewRoom("test room", numPlayers, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	r.JoinCode = "TESTER"

	mb := newMockBroadcaster()
	r.BroadcastFn = mb.broadcastFn
	r.BroadcastToPlayerFn = mb.broadcastToPlayerFn

	players := make([]*models.Player, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		p, err := r.Join(string(rune('A' + i)))
		require.NoError(t, err)
		players = append(players, p)
	}
	mb.clear()
	return r, players, mb
}

// card builds a card of rank with suit index 0 Clubs, 1 Spades, 2 Diamonds or 3 Hearts.
func card(rank, suit int) models.Card {
	return models.Card{
		ID:           uuid.New(),
		Label:        deckLabels[rank],
		Suit:         deckSuits[suit].name,
		Rank:         rank,
		SuitTiebreak: 0.1 * float64(suit),
		Color:        deckSuits[suit].color,
	}
}

// startRound deals the given hands by seat and opens a round with the opening-card holder.
func startRound(r *Room, hands ...[]models.Card) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	for i, h := range hands {
		r.Players[i].Hand = h
		r.Players[i].IsReady = true
	}
	r.Phase = PhaseInRound
	r.TurnCounter = 0
	r.setTurn(r.startingSeat())
}

func idsOf(cards ...models.Card) []uuid.UUID {
	out := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func handOf(cs ...models.Card) []models.Card {
	return cs
}
