// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a rejected room operation.
type ErrorCode string

const (
	ErrOutOfTurn           ErrorCode = "OUT_OF_TURN"
	ErrInvalidHand         ErrorCode = "INVALID_HAND"
	ErrRoomFull            ErrorCode = "ROOM_FULL"
	ErrRoomNotFound        ErrorCode = "ROOM_NOT_FOUND"
	ErrPlayerNotFound      ErrorCode = "PLAYER_NOT_FOUND"
	ErrNotInTradeSet       ErrorCode = "NOT_IN_TRADE_SET"
	ErrWrongTradeCardCount ErrorCode = "WRONG_TRADE_CARD_COUNT"
	ErrMustTradeBestCards  ErrorCode = "MUST_TRADE_BEST_CARDS"
	ErrAlreadyTraded       ErrorCode = "ALREADY_TRADED"
	ErrCompletionInvalid   ErrorCode = "COMPLETION_INVALID"
	ErrInvalidRoomSize     ErrorCode = "INVALID_ROOM_SIZE"
	ErrWrongPhase          ErrorCode = "WRONG_PHASE"
	ErrRoundInProgress     ErrorCode = "ROUND_IN_PROGRESS"
	ErrCannotPassLead      ErrorCode = "CANNOT_PASS_LEAD"
	ErrInvalidSelection    ErrorCode = "INVALID_SELECTION"
)

// HandReason is the sub-reason attached to an INVALID_HAND rejection.
type HandReason string

const (
	ReasonMixedRanks          HandReason = "MIXED_RANKS"
	ReasonMultiWildcard       HandReason = "MULTI_WILDCARD"
	ReasonMustOpenWithLowest  HandReason = "MUST_OPEN_WITH_LOWEST"
	ReasonDoesNotBeatPrevious HandReason = "DOES_NOT_BEAT_PREVIOUS"
	ReasonCardsNotInHand      HandReason = "CARDS_NOT_IN_HAND"
	ReasonEmptyHand           HandReason = "EMPTY_HAND"
)

var handReasonMessages = map[HandReason]string{
	ReasonMixedRanks:          "All cards played must share the same rank.",
	ReasonMultiWildcard:       "A 2 can only be played on its own.",
	ReasonMustOpenWithLowest:  "The first play of the round must be the 3 of Clubs on its own.",
	ReasonDoesNotBeatPrevious: "Your hand does not beat the previous hand.",
	ReasonCardsNotInHand:      "You tried to play cards that are not in your hand.",
	ReasonEmptyHand:           "You must select at least one card.",
}

// RuleError is returned by every room operation that was rejected. The room state is
// left untouched when a RuleError is returned.
type RuleError struct {
	Code    ErrorCode  `json:"code"`
	Reason  HandReason `json:"reason,omitempty"`
	Message string     `json:"message"`
}

func (e *RuleError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newRuleError(code ErrorCode, format string, args ...interface{}) *RuleError {
	return &RuleError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func invalidHand(reason HandReason) *RuleError {
	return &RuleError{Code: ErrInvalidHand, Reason: reason, Message: handReasonMessages[reason]}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a RuleError.
func CodeOf(err error) ErrorCode {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// ReasonOf extracts the INVALID_HAND sub-reason from err, or "".
func ReasonOf(err error) HandReason {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}
