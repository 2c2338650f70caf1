package domain

import "testing"

func TestValidatePlay(t *testing.T) {
	hand := Hand{
		card(Three, Spades), card(Three, Hearts),
		card(Five, Clubs), card(Five, Diamonds), card(Five, Hearts),
		card(Seven, Hearts), card(Nine, Clubs),
		card(King, Spades), card(King, Hearts),
		card(Two, Clubs), joker(0), joker(1),
	}

	tests := []struct {
		name       string
		candidate  []Card
		top        []Card
		revolution bool
		want       error
	}{
		{name: "single on empty table", candidate: []Card{card(Five, Clubs)}},
		{name: "empty selection", candidate: nil, want: EmptySelection},
		{
			name:      "too many cards",
			candidate: []Card{card(Five, Clubs), card(Five, Diamonds), card(Five, Hearts), joker(0), joker(1)},
			want:      TooManyCards,
		},
		{name: "card not owned", candidate: []Card{card(Six, Clubs)}, want: CardNotOwned},
		{name: "same instance twice", candidate: []Card{card(Five, Clubs), card(Five, Clubs)}, want: CardNotOwned},
		{
			name:      "forged card with owned ID",
			candidate: []Card{{ID: card(Five, Clubs).ID, Rank: Two, Suit: Clubs}},
			want:      CardNotOwned,
		},
		{name: "mixed ranks", candidate: []Card{card(Five, Clubs), card(Seven, Hearts)}, want: MismatchedRanks},
		{name: "pair with joker", candidate: []Card{card(Nine, Clubs), joker(0)}},
		{name: "all jokers", candidate: []Card{joker(0), joker(1)}},
		{
			name:      "arity smaller than top",
			candidate: []Card{card(King, Spades)},
			top:       []Card{card(Four, Clubs), card(Four, Hearts)},
			want:      ArityMismatch,
		},
		{
			name:      "arity larger than top",
			candidate: []Card{card(Five, Clubs), card(Five, Diamonds), card(Five, Hearts)},
			top:       []Card{card(Four, Clubs), card(Four, Hearts)},
			want:      ArityMismatch,
		},
		{
			name:      "higher pair beats lower pair",
			candidate: []Card{card(King, Spades), card(King, Hearts)},
			top:       []Card{card(Four, Clubs), card(Four, Hearts)},
		},
		{
			name:      "equal strength does not beat",
			candidate: []Card{card(Nine, Clubs)},
			top:       []Card{card(Nine, Hearts)},
			want:      DoesNotBeatTop,
		},
		{
			name:      "lower single does not beat",
			candidate: []Card{card(Five, Clubs)},
			top:       []Card{card(Ten, Hearts)},
			want:      DoesNotBeatTop,
		},
		{
			name:       "lower single beats under revolution",
			candidate:  []Card{card(Five, Clubs)},
			top:        []Card{card(Ten, Hearts)},
			revolution: true,
		},
		{
			name:       "two loses under revolution",
			candidate:  []Card{card(Two, Clubs)},
			top:        []Card{card(Ten, Hearts)},
			revolution: true,
			want:       DoesNotBeatTop,
		},
		{
			name:      "single joker beats a two",
			candidate: []Card{joker(0)},
			top:       []Card{card(Two, Hearts)},
		},
		{
			name:      "jokers in top set are ignored for strength",
			candidate: []Card{card(Nine, Clubs), joker(0)},
			top:       []Card{card(Six, Clubs), joker(1)},
		},
		{
			name:      "joker-led top accepts only three of spades",
			candidate: []Card{card(Three, Spades)},
			top:       []Card{joker(0)},
		},
		{
			name:      "joker-led top rejects a joker",
			candidate: []Card{joker(1)},
			top:       []Card{joker(0)},
			want:      JokerBusterRequired,
		},
		{
			name:      "joker-led top rejects another three",
			candidate: []Card{card(Three, Hearts)},
			top:       []Card{joker(0)},
			want:      JokerBusterRequired,
		},
		{
			name:      "joker-led pair still answered by the lone three of spades",
			candidate: []Card{card(Three, Spades)},
			top:       []Card{joker(0), card(Six, Clubs)},
		},
		{
			name:      "joker-led pair rejects a stronger pair",
			candidate: []Card{card(King, Spades), card(King, Hearts)},
			top:       []Card{joker(0), card(Six, Clubs)},
			want:      JokerBusterRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePlay(tt.candidate, hand, tt.top, tt.revolution); got != tt.want {
				t.Fatalf("ValidatePlay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTriggersRevolution(t *testing.T) {
	tests := []struct {
		name  string
		cards []Card
		want  bool
	}{
		{name: "four of a kind", cards: []Card{card(Six, Clubs), card(Six, Diamonds), card(Six, Hearts), card(Six, Spades)}, want: true},
		{name: "three and a joker", cards: []Card{card(Six, Clubs), card(Six, Diamonds), joker(0), card(Six, Spades)}, want: true},
		{name: "two and two jokers", cards: []Card{joker(1), card(Six, Diamonds), joker(0), card(Six, Spades)}, want: true},
		{name: "triple", cards: []Card{card(Six, Clubs), card(Six, Diamonds), card(Six, Hearts)}, want: false},
		{name: "mixed four", cards: []Card{card(Six, Clubs), card(Seven, Diamonds), card(Six, Hearts), card(Six, Spades)}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := triggersRevolution(tt.cards); got != tt.want {
				t.Fatalf("triggersRevolution() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestClearTrigger(t *testing.T) {
	tests := []struct {
		name    string
		played  []Card
		prevTop []Card
		want    ClearReason
	}{
		{name: "eight on empty table", played: []Card{card(Eight, Clubs)}, want: ClearByEight},
		{name: "eight with joker", played: []Card{joker(0), card(Eight, Hearts)}, prevTop: []Card{card(Five, Clubs), card(Five, Hearts)}, want: ClearByEight},
		{name: "three of spades over joker", played: []Card{card(Three, Spades)}, prevTop: []Card{joker(0)}, want: ClearByJokerBuster},
		{name: "three of spades over a four", played: []Card{card(Three, Spades)}, prevTop: []Card{card(Four, Clubs)}, want: ClearNone},
		{name: "plain play", played: []Card{card(Nine, Clubs)}, prevTop: []Card{card(Four, Clubs)}, want: ClearNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clearTrigger(tt.played, tt.prevTop); got != tt.want {
				t.Fatalf("clearTrigger() = %v, want %v", got, tt.want)
			}
		})
	}
}
