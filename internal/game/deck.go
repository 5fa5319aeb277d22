// internal/game/deck.go
package game

import (
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/president-online/president/internal/models"
)

const (
	// WildcardRank is the highest rank (the 2). It clears the table and may only be played alone.
	WildcardRank = 12
	// OpeningRank is the lowest rank (the 3).
	OpeningRank = 0
	// OpeningSuit is the suit of the card that must start the first play of a round.
	OpeningSuit = "Clubs"

	// SingleDeckMaxPlayers is the largest room dealt from a single deck.
	SingleDeckMaxPlayers = 5

	MinPlayers = 4
	MaxPlayers = 8
)

var (
	deckLabels = []string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}
	deckSuits  = []struct {
		name  string
		color string
	}{
		{"Clubs", "black"},
		{"Spades", "black"},
		{"Diamonds", "cardRed"},
		{"Hearts", "cardRed"},
	}
)

// NumberOfDecks returns how many standard decks a room of playerCount uses.
func NumberOfDecks(playerCount int) int {
	if playerCount > SingleDeckMaxPlayers {
		return 2
	}
	return 1
}

// FullSetSize is the number of same-rank cards that make a complete set in a room.
func FullSetSize(playerCount int) int {
	return 4 * NumberOfDecks(playerCount)
}

// BuildDeck returns the unshuffled deck for a room of playerCount players. Every card gets
// a fresh id because two-deck rooms repeat every rank and suit.
func BuildDeck(playerCount int) []models.Card {
	decks := NumberOfDecks(playerCount)
	deck := make([]models.Card, 0, decks*len(deckSuits)*len(deckLabels))
	for d := 0; d < decks; d++ {
		for si, suit := range deckSuits {
			for rank, label := range deckLabels {
				deck = append(deck, models.Card{
					ID:           uuid.New(),
					Label:        label,
					Suit:         suit.name,
					Rank:         rank,
					SuitTiebreak: 0.1 * float64(si),
					Color:        suit.color,
				})
			}
		}
	}
	return deck
}

func newShuffleSource() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// DealDeck shuffles a copy of deck and splits it into playerCount equal hands. Cards left
// over after an even split are not dealt. A nil rng uses a time-seeded source.
func DealDeck(deck []models.Card, playerCount int, rng *rand.Rand) [][]models.Card {
	if playerCount <= 0 {
		return nil
	}
	if rng == nil {
		rng = newShuffleSource()
	}

	pile := make([]models.Card, len(deck))
	copy(pile, deck)
	for i := len(pile) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pile[i], pile[j] = pile[j], pile[i]
	}

	handSize := len(pile) / playerCount
	hands := make([][]models.Card, playerCount)
	for h := range hands {
		hands[h] = make([]models.Card, 0, handSize)
		for i := 0; i < handSize; i++ {
			last := len(pile) - 1
			hands[h] = append(hands[h], pile[last])
			pile = pile[:last]
		}
	}
	return hands
}

// SortHand returns a copy of hand ordered by rank, then suit tiebreak. Display only.
func SortHand(hand []models.Card) []models.Card {
	sorted := make([]models.Card, len(hand))
	copy(sorted, hand)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank < sorted[j].Rank
		}
		return sorted[i].SuitTiebreak < sorted[j].SuitTiebreak
	})
	return sorted
}

// IsOpeningCard reports whether c is the card that must open a round.
func IsOpeningCard(c models.Card) bool {
	return c.Rank == OpeningRank && c.Suit == OpeningSuit
}

func isSingleWildcard(hand []models.Card) bool {
	return len(hand) == 1 && hand[0].Rank == WildcardRank
}

func handTotal(hand []models.Card) float64 {
	total := 0.0
	for _, c := range hand {
		total += c.Value()
	}
	return total
}

// removeCards returns hand without the cards whose ids are in ids.
func removeCards(hand []models.Card, ids map[uuid.UUID]bool) []models.Card {
	kept := make([]models.Card, 0, len(hand))
	for _, c := range hand {
		if !ids[c.ID] {
			kept = append(kept, c)
		}
	}
	return kept
}

// pickCards resolves ids against hand. ok is false if an id is missing or repeated.
func pickCards(hand []models.Card, ids []uuid.UUID) (picked []models.Card, idSet map[uuid.UUID]bool, ok bool) {
	byID := make(map[uuid.UUID]models.Card, len(hand))
	for _, c := range hand {
		byID[c.ID] = c
	}
	idSet = make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		c, found := byID[id]
		if !found || idSet[id] {
			return nil, nil, false
		}
		idSet[id] = true
		picked = append(picked, c)
	}
	return picked, idSet, true
}
