package domain

import "errors"

// RejectReason explains why an action was refused. Rejections never change game state.
type RejectReason string

func (r RejectReason) Error() string { return string(r) }

const (
	NotYourTurn         RejectReason = "not your turn"
	CardNotOwned        RejectReason = "card not in hand"
	EmptySelection      RejectReason = "no cards selected"
	TooManyCards        RejectReason = "cannot play more than 4 cards"
	MismatchedRanks     RejectReason = "all non-Joker cards must share a rank"
	ArityMismatch       RejectReason = "must play the same number of cards as the table"
	DoesNotBeatTop      RejectReason = "must beat the set on the table"
	JokerBusterRequired RejectReason = "only the 3 of Spades can answer a Joker"
)

var rejectCodes = map[RejectReason]string{
	NotYourTurn:         "not_your_turn",
	CardNotOwned:        "card_not_owned",
	EmptySelection:      "empty_selection",
	TooManyCards:        "too_many_cards",
	MismatchedRanks:     "mismatched_ranks",
	ArityMismatch:       "arity_mismatch",
	DoesNotBeatTop:      "does_not_beat_top",
	JokerBusterRequired: "joker_buster_required",
}

// Code returns a stable machine-readable name for the reason.
func (r RejectReason) Code() string {
	if code, ok := rejectCodes[r]; ok {
		return code
	}
	return "rejected"
}

// ErrNoActivePlayers means turn rotation found no player holding cards. The game
// should have ended before this point.
var ErrNoActivePlayers = errors.New("no player holds cards")

// AsReject extracts the RejectReason from err, if any.
func AsReject(err error) (RejectReason, bool) {
	var r RejectReason
	if errors.As(err, &r) {
		return r, true
	}
	return "", false
}
