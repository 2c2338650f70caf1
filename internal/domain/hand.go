package domain

// Hand is the set of cards held by one player.
type Hand []Card

// Find returns the card with the given instance ID.
func (h Hand) Find(id CardID) (Card, bool) {
	for _, c := range h {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Match returns the first card in the hand with the same rank and suit as c,
// ignoring c's instance ID.
func (h Hand) Match(c Card) (Card, bool) {
	for _, held := range h {
		if held.Rank == c.Rank && held.Suit == c.Suit {
			return held, true
		}
	}
	return Card{}, false
}

// Contains reports whether this exact card instance is in the hand.
func (h Hand) Contains(card Card) bool {
	c, ok := h.Find(card.ID)
	return ok && c == card
}

// Remove returns a new hand without the given card instances. It fails with
// CardNotOwned if any card is absent or listed twice.
func (h Hand) Remove(cards []Card) (Hand, error) {
	remove := make(map[CardID]bool, len(cards))
	for _, c := range cards {
		if remove[c.ID] || !h.Contains(c) {
			return h, CardNotOwned
		}
		remove[c.ID] = true
	}

	out := make(Hand, 0, len(h)-len(cards))
	for _, c := range h {
		if !remove[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// Table is the ordered stack of sets played since the last clear.
type Table struct {
	Sets [][]Card `json:"sets"`
}

// PushSet places a completed play on top of the table.
func (t *Table) PushSet(cards []Card) {
	t.Sets = append(t.Sets, append([]Card(nil), cards...))
}

// TopSet returns the most recently played set.
func (t *Table) TopSet() ([]Card, bool) {
	if len(t.Sets) == 0 {
		return nil, false
	}
	return t.Sets[len(t.Sets)-1], true
}

// Clear empties the table.
func (t *Table) Clear() {
	t.Sets = nil
}
