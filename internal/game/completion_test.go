package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceOpportunity(t *testing.T) {
	full := FullSetSize(4)

	opp := AdvanceOpportunity(Neutral{}, nil, handOf(card(0, 0)), full)
	assert.Equal(t, Tracking{Rank: 0, Label: "3", Remaining: 3}, opp)

	opp = AdvanceOpportunity(opp, handOf(card(0, 0)), handOf(card(0, 1)), full)
	assert.Equal(t, Tracking{Rank: 0, Label: "3", Remaining: 2}, opp)

	// The rest of the set closes the opportunity.
	opp = AdvanceOpportunity(opp, handOf(card(0, 1)), handOf(card(0, 2), card(0, 3)), full)
	assert.Equal(t, Neutral{}, opp)

	// A new rank starts tracking from a full set.
	opp = AdvanceOpportunity(Tracking{Rank: 0, Label: "3", Remaining: 1}, handOf(card(0, 3)), handOf(card(5, 0), card(5, 1)), full)
	assert.Equal(t, Tracking{Rank: 5, Label: "8", Remaining: 2}, opp)

	// A full set played at once leaves nothing to track.
	four := handOf(card(6, 0), card(6, 1), card(6, 2), card(6, 3))
	assert.Equal(t, Neutral{}, AdvanceOpportunity(Neutral{}, nil, four, full))
}

func TestAdvanceOpportunityTwoDecks(t *testing.T) {
	full := FullSetSize(6)
	opp := AdvanceOpportunity(Neutral{}, nil, handOf(card(4, 0), card(4, 1), card(4, 2)), full)
	assert.Equal(t, Tracking{Rank: 4, Label: "7", Remaining: 5}, opp)
}

func TestIsCompletionValid(t *testing.T) {
	full := FullSetSize(4)
	tracking := Tracking{Rank: 0, Label: "3", Remaining: 3}

	assert.True(t, IsCompletionValid(handOf(card(0, 1), card(0, 2), card(0, 3)), tracking, full))
	assert.False(t, IsCompletionValid(handOf(card(0, 1), card(0, 2)), tracking, full), "too few")
	assert.False(t, IsCompletionValid(handOf(card(1, 1), card(1, 2), card(1, 3)), tracking, full), "wrong rank")
	assert.False(t, IsCompletionValid(handOf(card(0, 1), card(1, 2), card(0, 3)), tracking, full), "mixed")
	assert.False(t, IsCompletionValid(nil, tracking, full))

	fullSet := handOf(card(9, 0), card(9, 1), card(9, 2), card(9, 3))
	assert.True(t, IsCompletionValid(fullSet, Neutral{}, full), "a full set is always valid")
	assert.False(t, IsCompletionValid(handOf(card(9, 0)), Neutral{}, full))
}
