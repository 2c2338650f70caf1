package domain

import (
	"errors"
	"sort"
)

// DeckSize is the number of cards in a standard Tycoon deck: 52 plus two Jokers.
const DeckSize = 54

// MinPlayers is the smallest table the engine can deal to.
const MinPlayers = 2

var ErrTooFewPlayers = errors.New("at least two players are required")

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// BuildStandardDeck returns the unshuffled 54-card deck. Card IDs equal their position.
func BuildStandardDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for s := Clubs; s <= Spades; s++ {
		for r := MinRank; r <= MaxRank; r++ {
			deck = append(deck, Card{ID: CardID(len(deck)), Rank: r, Suit: s})
		}
	}
	for i := 0; i < 2; i++ {
		deck = append(deck, Card{ID: CardID(len(deck)), Rank: Joker, Suit: JokerMark})
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
func ShuffleDeck(deck []Card, shuffler Shuffler) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	shuffler.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal distributes the deck round-robin starting at player 0 until it is exhausted.
// Earlier players receive the extra card when the deck does not divide evenly.
func Deal(deck []Card, playerCount int) ([]Hand, error) {
	if playerCount < MinPlayers {
		return nil, ErrTooFewPlayers
	}
	hands := make([]Hand, playerCount)
	for i, c := range deck {
		hands[i%playerCount] = append(hands[i%playerCount], c)
	}
	for _, h := range hands {
		SortHand(h)
	}
	return hands, nil
}

// SortHand orders cards by nominal rank, then suit. Display only.
func SortHand(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cardOrder(cards[i]) < cardOrder(cards[j])
	})
}

func cardOrder(c Card) int {
	return int(c.Rank)*8 + int(c.Suit)
}
