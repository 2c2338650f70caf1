package fairshuffle

import (
	"sort"
	"testing"

	"tycoon/internal/domain"
)

func TestShuffleIsPermutation(t *testing.T) {
	s := New()
	deck := domain.ShuffleDeck(domain.BuildStandardDeck(), s)
	if len(deck) != domain.DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), domain.DeckSize)
	}
	ids := make([]int, len(deck))
	for i, c := range deck {
		ids[i] = int(c.ID)
	}
	sort.Ints(ids)
	for i, id := range ids {
		if id != i {
			t.Fatalf("shuffled deck is not a permutation: %v", ids)
		}
	}
}

func TestSeededStreamsAreReproducible(t *testing.T) {
	a := domain.ShuffleDeck(domain.BuildStandardDeck(), NewSeeded(7))
	b := domain.ShuffleDeck(domain.BuildStandardDeck(), NewSeeded(7))
	c := domain.ShuffleDeck(domain.BuildStandardDeck(), NewSeeded(8))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different orders at %d: %v vs %v", i, a[i], b[i])
		}
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced the same order")
	}
}

func TestIntnCoversRange(t *testing.T) {
	s := NewSeeded(1)
	const n, draws = 6, 6000
	counts := make([]int, n)
	for i := 0; i < draws; i++ {
		v := s.intn(n)
		if v < 0 || v >= n {
			t.Fatalf("intn(%d) = %d out of range", n, v)
		}
		counts[v]++
	}
	for v, c := range counts {
		if c < draws/n/2 {
			t.Fatalf("value %d drawn only %d times out of %d: %v", v, c, draws, counts)
		}
	}
}

func TestSeededReplay(t *testing.T) {
	g, err := domain.NewGame(4, NewSeeded(99))
	if err != nil {
		t.Fatalf("NewGame error: %v", err)
	}
	lead := g.Hands[0][0]
	actions := []domain.Action{{Kind: domain.ActionPlay, Player: 0, Cards: []domain.CardID{lead.ID}}}
	if err := g.Apply(actions[0]); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	replayed, err := domain.Replay(4, NewSeeded(99), actions)
	if err != nil {
		t.Fatalf("Replay error: %v", err)
	}
	for p := range g.Hands {
		if len(replayed.Hands[p]) != len(g.Hands[p]) {
			t.Fatalf("player %d hand size differs after replay", p)
		}
		for i := range g.Hands[p] {
			if replayed.Hands[p][i] != g.Hands[p][i] {
				t.Fatalf("player %d hand differs after replay", p)
			}
		}
	}
}

func TestShuffleDealsAGame(t *testing.T) {
	g, err := domain.NewGame(5, New())
	if err != nil {
		t.Fatalf("NewGame error: %v", err)
	}
	total := 0
	for _, h := range g.Hands {
		total += len(h)
	}
	if total != domain.DeckSize {
		t.Fatalf("dealt %d cards, want %d", total, domain.DeckSize)
	}
}
