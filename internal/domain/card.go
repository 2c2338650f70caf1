package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is the suit of a card. Jokers carry JokerMark.
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
	JokerMark
)

// Rank is the nominal rank of a card (3..10, J=11, Q=12, K=13, A=14, "2"=15, Joker=16).
type Rank int

const (
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
	Two   Rank = 15
	Joker Rank = 16
)

const (
	// MinRank and MaxRank bound the standard (non-Joker) ranks.
	MinRank = Three
	MaxRank = Two

	// ClearingRank empties the table whenever a card of this rank is played.
	ClearingRank = Eight
)

// CardID identifies a physical card: its index in the unshuffled standard deck.
type CardID int

// Card is a single card instance.
type Card struct {
	ID   CardID `json:"id"`
	Rank Rank   `json:"rank"`
	Suit Suit   `json:"suit"`
}

// IsJoker reports whether the card is one of the two Jokers.
func (c Card) IsJoker() bool {
	return c.Rank == Joker
}

// IsJokerBuster reports whether the card is the 3 of Spades.
func (c Card) IsJokerBuster() bool {
	return c.Rank == Three && c.Suit == Spades
}

var suitSymbols = []string{"♣", "♦", "♥", "♠"}

func (s Suit) String() string {
	if s >= Clubs && s <= Spades {
		return suitSymbols[s]
	}
	if s == JokerMark {
		return "🃏"
	}
	return "?"
}

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	case Two:
		return "2"
	case Joker:
		return "Joker"
	default:
		return strconv.Itoa(int(r))
	}
}

// String renders the card as rank followed by suit symbol, e.g. "10♥" or "Joker".
func (c Card) String() string {
	if c.IsJoker() {
		return Joker.String()
	}
	return c.Rank.String() + c.Suit.String()
}

// ParseCard parses the notation produced by Card.String. The returned card has no
// instance ID; callers resolve it against a hand.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "joker") {
		return Card{Rank: Joker, Suit: JokerMark}, nil
	}
	for i, sym := range suitSymbols {
		if !strings.HasSuffix(s, sym) {
			continue
		}
		rank, err := parseRank(strings.TrimSuffix(s, sym))
		if err != nil {
			return Card{}, err
		}
		return Card{Rank: rank, Suit: Suit(i)}, nil
	}
	return Card{}, fmt.Errorf("unknown suit in card %q", s)
}

func parseRank(s string) (Rank, error) {
	switch strings.ToUpper(s) {
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	case "2":
		return Two, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < int(Three) || n > int(Ten) {
		return 0, fmt.Errorf("invalid rank %q", s)
	}
	return Rank(n), nil
}
