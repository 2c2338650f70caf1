package domain

import (
	"reflect"
	"testing"
)

func TestHandRemove(t *testing.T) {
	hand := Hand{card(Three, Spades), card(Five, Clubs), joker(0), joker(1)}

	tests := []struct {
		name    string
		remove  []Card
		want    Hand
		wantErr error
	}{
		{name: "single", remove: []Card{card(Five, Clubs)}, want: Hand{card(Three, Spades), joker(0), joker(1)}},
		{name: "one joker of two", remove: []Card{joker(1)}, want: Hand{card(Three, Spades), card(Five, Clubs), joker(0)}},
		{name: "both jokers", remove: []Card{joker(0), joker(1)}, want: Hand{card(Three, Spades), card(Five, Clubs)}},
		{name: "duplicate instance", remove: []Card{joker(0), joker(0)}, wantErr: CardNotOwned},
		{name: "absent card", remove: []Card{card(Ace, Hearts)}, wantErr: CardNotOwned},
		{name: "wrong value for id", remove: []Card{{ID: card(Five, Clubs).ID, Rank: Two, Suit: Clubs}}, wantErr: CardNotOwned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hand.Remove(tt.remove)
			if err != tt.wantErr {
				t.Fatalf("Remove() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Remove() = %v, want %v", got, tt.want)
			}
		})
	}
	if len(hand) != 4 {
		t.Fatalf("Remove mutated the receiver: %v", hand)
	}
}

func TestHandMatch(t *testing.T) {
	hand := Hand{card(Five, Clubs), joker(1), joker(0)}
	got, ok := hand.Match(Card{Rank: Joker, Suit: JokerMark})
	if !ok || got != joker(1) {
		t.Fatalf("Match(Joker) = %v, %v", got, ok)
	}
	if _, ok := hand.Match(Card{Rank: Five, Suit: Hearts}); ok {
		t.Fatalf("Match should not find 5♥")
	}
}

func TestTable(t *testing.T) {
	var table Table
	if _, ok := table.TopSet(); ok {
		t.Fatalf("empty table has a top set")
	}

	played := []Card{card(Five, Clubs)}
	table.PushSet(played)
	table.PushSet([]Card{card(Nine, Hearts), joker(0)})
	played[0] = card(Two, Clubs)

	top, ok := table.TopSet()
	if !ok || len(top) != 2 || top[0] != card(Nine, Hearts) {
		t.Fatalf("TopSet() = %v, %v", top, ok)
	}
	if table.Sets[0][0] != card(Five, Clubs) {
		t.Fatalf("PushSet kept a reference to the caller's slice")
	}

	table.Clear()
	if len(table.Sets) != 0 {
		t.Fatalf("Clear left %d sets", len(table.Sets))
	}
}
