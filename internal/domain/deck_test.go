package domain

import (
	"math/rand"
	"testing"
)

func TestBuildStandardDeck(t *testing.T) {
	deck := BuildStandardDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}

	jokers := 0
	seen := make(map[[2]int]bool)
	for i, c := range deck {
		if c.ID != CardID(i) {
			t.Fatalf("card %d has ID %d", i, c.ID)
		}
		if c.IsJoker() {
			jokers++
			continue
		}
		if c.Rank < MinRank || c.Rank > MaxRank {
			t.Fatalf("rank out of range: %d", c.Rank)
		}
		key := [2]int{int(c.Rank), int(c.Suit)}
		if seen[key] {
			t.Fatalf("duplicate card found: %v", c)
		}
		seen[key] = true
	}
	if jokers != 2 {
		t.Fatalf("jokers = %d, want 2", jokers)
	}
	if len(seen) != 52 {
		t.Fatalf("distinct standard cards = %d, want 52", len(seen))
	}
}

func TestHelperCardMatchesDeck(t *testing.T) {
	deck := BuildStandardDeck()
	for _, c := range deck {
		var want Card
		if c.IsJoker() {
			want = joker(int(c.ID) - 52)
		} else {
			want = card(c.Rank, c.Suit)
		}
		if c != want {
			t.Fatalf("deck card %v, helper built %v", c, want)
		}
	}
}

func TestShuffleDeckIsPermutation(t *testing.T) {
	deck := BuildStandardDeck()
	shuffled := ShuffleDeck(deck, rand.New(rand.NewSource(7)))

	if len(shuffled) != len(deck) {
		t.Fatalf("shuffled size = %d, want %d", len(shuffled), len(deck))
	}
	seen := make(map[CardID]bool)
	for _, c := range shuffled {
		if seen[c.ID] {
			t.Fatalf("duplicate card %v after shuffle", c)
		}
		seen[c.ID] = true
	}
	for i, c := range deck {
		if c.ID != CardID(i) {
			t.Fatalf("ShuffleDeck mutated its input")
		}
	}
}

func TestDeal(t *testing.T) {
	for players := 2; players <= 6; players++ {
		deck := ShuffleDeck(BuildStandardDeck(), rand.New(rand.NewSource(int64(players))))
		hands, err := Deal(deck, players)
		if err != nil {
			t.Fatalf("Deal(%d) error: %v", players, err)
		}
		if len(hands) != players {
			t.Fatalf("Deal(%d) returned %d hands", players, len(hands))
		}

		seen := make(map[CardID]bool)
		minSize, maxSize := DeckSize, 0
		for _, h := range hands {
			minSize = min(minSize, len(h))
			maxSize = max(maxSize, len(h))
			for _, c := range h {
				if seen[c.ID] {
					t.Fatalf("card %v dealt twice", c)
				}
				seen[c.ID] = true
			}
			for i := 1; i < len(h); i++ {
				if h[i-1].Rank > h[i].Rank {
					t.Fatalf("hand not sorted by rank: %v", h)
				}
			}
		}
		if len(seen) != DeckSize {
			t.Fatalf("players=%d: dealt %d cards, want %d", players, len(seen), DeckSize)
		}
		if maxSize-minSize > 1 {
			t.Fatalf("players=%d: hand sizes range %d..%d", players, minSize, maxSize)
		}
		if len(hands[0]) != maxSize {
			t.Fatalf("players=%d: player 0 should hold the extra card", players)
		}
	}
}

func TestDealRejectsSinglePlayer(t *testing.T) {
	if _, err := Deal(BuildStandardDeck(), 1); err != ErrTooFewPlayers {
		t.Fatalf("Deal(1) error = %v, want ErrTooFewPlayers", err)
	}
}
