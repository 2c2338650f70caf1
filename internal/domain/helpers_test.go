package domain

// card builds the standard-deck instance of rank r in suit s.
func card(r Rank, s Suit) Card {
	return Card{ID: CardID(int(s)*13 + int(r-MinRank)), Rank: r, Suit: s}
}

// joker returns one of the two Jokers (i is 0 or 1).
func joker(i int) Card {
	return Card{ID: CardID(52 + i), Rank: Joker, Suit: JokerMark}
}

func ids(cards ...Card) []CardID {
	out := make([]CardID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

// fixedShuffler leaves the deck in its built order.
type fixedShuffler struct{}

func (fixedShuffler) Shuffle(int, func(i, j int)) {}
