package domain

// jokerValue is the strength of a Joker in either rank order.
const jokerValue = 20

// RankValue converts a nominal rank into a comparable strength.
//
// Under revolution the standard ranks invert ("2" becomes 1, 3 becomes 13). Jokers
// stay at the top in both orders.
func RankValue(r Rank, revolution bool) int {
	if r == Joker {
		return jokerValue
	}
	if revolution {
		return int(MaxRank) - int(r) + 1
	}
	return int(r)
}

// setStrength is the strength of the strongest non-Joker card in the set, or the
// Joker value when the set holds only Jokers.
func setStrength(cards []Card, revolution bool) int {
	best := -1
	for _, c := range cards {
		if c.IsJoker() {
			continue
		}
		if v := RankValue(c.Rank, revolution); v > best {
			best = v
		}
	}
	if best < 0 {
		return RankValue(Joker, revolution)
	}
	return best
}
