// internal/game/completion.go
package game

import "github.com/president-online/president/internal/models"

// Opportunity tracks the chance to "complete" a set of one rank that is being built up
// across non-consecutive plays. It is either Neutral or Tracking.
type Opportunity interface {
	isOpportunity()
}

// Neutral means no partial set is being tracked; any full set may be claimed.
type Neutral struct{}

// Tracking means Remaining more cards of Rank complete the set.
type Tracking struct {
	Rank      int
	Label     string
	Remaining int
}

func (Neutral) isOpportunity()  {}
func (Tracking) isOpportunity() {}

// AdvanceOpportunity returns the opportunity after play was accepted on top of prev.
func AdvanceOpportunity(opp Opportunity, prev, play []models.Card, fullSet int) Opportunity {
	if len(play) == 0 {
		return opp
	}
	rank, label, n := play[0].Rank, play[0].Label, len(play)

	if len(prev) > 0 && prev[0].Rank == rank {
		remaining := fullSet
		if t, ok := opp.(Tracking); ok && t.Rank == rank {
			remaining = t.Remaining
		}
		if remaining-n > 0 {
			return Tracking{Rank: rank, Label: label, Remaining: remaining - n}
		}
		return Neutral{}
	}
	if n < fullSet {
		return Tracking{Rank: rank, Label: label, Remaining: fullSet - n}
	}
	return Neutral{}
}

// IsCompletionValid reports whether claim completes a set: it must be a single rank and
// either a full set outright or exactly the tracked remainder of the tracked rank.
func IsCompletionValid(claim []models.Card, opp Opportunity, fullSet int) bool {
	if len(claim) == 0 || !sameRank(claim) {
		return false
	}
	if len(claim) == fullSet {
		return true
	}
	t, ok := opp.(Tracking)
	return ok && len(claim) == t.Remaining && claim[0].Rank == t.Rank
}
