package domain

// Playable lists the cards in player's hand that can take part in at least one
// legal play against the current top set. Presentation helper only.
func (g *Game) Playable(player int) []Card {
	hand := g.HandOf(player)
	if len(hand) == 0 {
		return nil
	}
	top, _ := g.Table.TopSet()

	if len(top) > 0 && top[0].IsJoker() {
		for _, c := range hand {
			if c.IsJokerBuster() {
				return []Card{c}
			}
		}
		return nil
	}

	sizes := []int{len(top)}
	if len(top) == 0 {
		sizes = []int{1, 2, 3, 4}
	}

	var jokers []Card
	byRank := make(map[Rank][]Card)
	for _, c := range hand {
		if c.IsJoker() {
			jokers = append(jokers, c)
			continue
		}
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	playableRank := make(map[Rank]bool)
	jokersPlayable := false
	legal := func(candidate []Card) bool {
		return ValidatePlay(candidate, hand, top, g.Revolution) == nil
	}

	for _, k := range sizes {
		for rank, cards := range byRank {
			for n := 1; n <= len(cards) && n <= k; n++ {
				j := k - n
				if j > len(jokers) {
					continue
				}
				candidate := append(append([]Card(nil), cards[:n]...), jokers[:j]...)
				if legal(candidate) {
					playableRank[rank] = true
					if j > 0 {
						jokersPlayable = true
					}
				}
			}
		}
		if k <= len(jokers) && legal(jokers[:k]) {
			jokersPlayable = true
		}
	}

	var out []Card
	for _, c := range hand {
		if (c.IsJoker() && jokersPlayable) || playableRank[c.Rank] {
			out = append(out, c)
		}
	}
	return out
}
