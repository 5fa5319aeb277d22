// internal/game/rules.go
package game

import "github.com/president-online/president/internal/models"

// CheckPlay validates candidate against the previous accepted hand. The checks run in a
// fixed order and the first failure is returned.
func CheckPlay(candidate, previous []models.Card, isFirstPlay bool) *RuleError {
	if len(candidate) == 0 {
		return invalidHand(ReasonEmptyHand)
	}
	if !sameRank(candidate) {
		return invalidHand(ReasonMixedRanks)
	}
	if len(candidate) > 1 && candidate[0].Rank == WildcardRank {
		return invalidHand(ReasonMultiWildcard)
	}
	if isFirstPlay && !(len(candidate) == 1 && IsOpeningCard(candidate[0])) {
		return invalidHand(ReasonMustOpenWithLowest)
	}
	if !beatsPrevious(candidate, previous) {
		return invalidHand(ReasonDoesNotBeatPrevious)
	}
	return nil
}

// beatsPrevious compares hand totals so the suit tiebreak separates equal ranks. A single
// wildcard beats anything, and anything may follow a wildcard.
func beatsPrevious(candidate, previous []models.Card) bool {
	if len(previous) == 0 || isSingleWildcard(candidate) || isSingleWildcard(previous) {
		return true
	}
	return !(handTotal(candidate) < handTotal(previous) && len(candidate) <= len(previous))
}

func sameRank(cards []models.Card) bool {
	if len(cards) == 0 {
		return false
	}
	r := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank != r {
			return false
		}
	}
	return true
}

// isBestCards reports whether offered holds the highest ranks in hand (hand includes
// offered). Only ranks are compared; which suit of a tied rank is given does not matter.
func isBestCards(hand, offered []models.Card) bool {
	if len(offered) > len(hand) {
		return false
	}
	top := SortHand(hand)
	top = top[len(top)-len(offered):]
	give := SortHand(offered)
	for i := range give {
		if give[i].Rank != top[i].Rank {
			return false
		}
	}
	return true
}
