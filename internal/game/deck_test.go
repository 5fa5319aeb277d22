package game

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/president-online/president/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeckSizes(t *testing.T) {
	for _, tc := range []struct {
		players, decks, cards int
	}{
		{4, 1, 52},
		{5, 1, 52},
		{6, 2, 104},
		{8, 2, 104},
	} {
		deck := BuildDeck(tc.players)
		assert.Equal(t, tc.decks, NumberOfDecks(tc.players))
		assert.Equal(t, 4*tc.decks, FullSetSize(tc.players))
		assert.Len(t, deck, tc.cards, "%d players", tc.players)

		seen := make(map[uuid.UUID]bool, len(deck))
		for _, c := range deck {
			assert.False(t, seen[c.ID], "duplicate card id")
			seen[c.ID] = true
		}
	}
}

func TestBuildDeckHoldsOneOpeningCardPerDeck(t *testing.T) {
	count := func(players int) int {
		n := 0
		for _, c := range BuildDeck(players) {
			if IsOpeningCard(c) {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 1, count(4))
	assert.Equal(t, 2, count(7))
}

func TestDealDeckEqualHands(t *testing.T) {
	for _, players := range []int{4, 5, 6, 7, 8} {
		deck := BuildDeck(players)
		hands := DealDeck(deck, players, rand.New(rand.NewSource(7)))
		require.Len(t, hands, players)

		want := len(deck) / players
		seen := make(map[uuid.UUID]bool)
		for _, h := range hands {
			assert.Len(t, h, want, "%d players", players)
			for _, c := range h {
				assert.False(t, seen[c.ID])
				seen[c.ID] = true
			}
		}
		// The remainder is dropped.
		assert.Equal(t, len(deck)-len(deck)%players, len(seen))
	}
}

func TestDealDeckIsDeterministicForASeed(t *testing.T) {
	deck := BuildDeck(4)
	orig := append([]models.Card(nil), deck...)
	a := DealDeck(deck, 4, rand.New(rand.NewSource(99)))
	b := DealDeck(deck, 4, rand.New(rand.NewSource(99)))
	assert.Equal(t, a, b)
	assert.Equal(t, orig, deck, "the source deck is not shuffled in place")
}

func TestSortHand(t *testing.T) {
	h := handOf(card(10, 0), card(0, 3), card(0, 0), card(5, 1))
	sorted := SortHand(h)

	require.Len(t, sorted, 4)
	assert.Equal(t, h[2].ID, sorted[0].ID)
	assert.Equal(t, h[1].ID, sorted[1].ID)
	assert.Equal(t, h[3].ID, sorted[2].ID)
	assert.Equal(t, h[0].ID, sorted[3].ID)
	assert.Equal(t, 10, h[0].Rank, "input is not reordered")
}
