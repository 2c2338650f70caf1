package domain

// MaxSetSize is the largest set a player may put down at once.
const MaxSetSize = 4

// ClearReason identifies what emptied the table after an action.
type ClearReason int

const (
	ClearNone ClearReason = iota
	ClearByEight
	ClearByJokerBuster
	ClearByPassCircle
)

func (r ClearReason) String() string {
	switch r {
	case ClearByEight:
		return "eight"
	case ClearByJokerBuster:
		return "joker_buster"
	case ClearByPassCircle:
		return "pass_circle"
	default:
		return "none"
	}
}

// ValidatePlay checks whether candidate may be played from hand on top of top
// (nil when the table is empty). It returns nil or a RejectReason.
func ValidatePlay(candidate []Card, hand Hand, top []Card, revolution bool) error {
	if len(candidate) == 0 {
		return EmptySelection
	}
	if len(candidate) > MaxSetSize {
		return TooManyCards
	}

	seen := make(map[CardID]bool, len(candidate))
	for _, c := range candidate {
		if seen[c.ID] || !hand.Contains(c) {
			return CardNotOwned
		}
		seen[c.ID] = true
	}

	if _, ok := baseRank(candidate); !ok {
		return MismatchedRanks
	}

	if len(top) == 0 {
		return nil
	}

	// A Joker-led set only falls to the lone 3 of Spades.
	if top[0].IsJoker() {
		if isJokerBuster(candidate) {
			return nil
		}
		return JokerBusterRequired
	}

	if len(candidate) != len(top) {
		return ArityMismatch
	}
	if setStrength(candidate, revolution) <= setStrength(top, revolution) {
		return DoesNotBeatTop
	}
	return nil
}

// baseRank returns the rank shared by every non-Joker card. ok is false when two
// non-Joker cards differ; an all-Joker set reports Joker.
func baseRank(cards []Card) (Rank, bool) {
	base := Joker
	for _, c := range cards {
		if c.IsJoker() {
			continue
		}
		if base == Joker {
			base = c.Rank
			continue
		}
		if c.Rank != base {
			return 0, false
		}
	}
	return base, true
}

func isJokerBuster(cards []Card) bool {
	return len(cards) == 1 && cards[0].IsJokerBuster()
}

// triggersRevolution reports whether a play of four matching cards (Jokers count
// as matching) flips the rank order.
func triggersRevolution(cards []Card) bool {
	if len(cards) != MaxSetSize {
		return false
	}
	base, ok := baseRank(cards)
	if !ok || base == Joker {
		return false
	}
	matching := 0
	for _, c := range cards {
		if c.Rank == base || c.IsJoker() {
			matching++
		}
	}
	return matching == MaxSetSize
}

// clearTrigger decides whether an accepted play empties the table. prevTop is the
// set that was on top before the play.
func clearTrigger(played, prevTop []Card) ClearReason {
	for _, c := range played {
		if c.Rank == ClearingRank {
			return ClearByEight
		}
	}
	if len(prevTop) > 0 && prevTop[0].IsJoker() && isJokerBuster(played) {
		return ClearByJokerBuster
	}
	return ClearNone
}
