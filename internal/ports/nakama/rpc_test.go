package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"tycoon/internal/config"
	"tycoon/internal/ports"
)

func TestLoadGameRecord(t *testing.T) {
	archive := NewNakamaArchiveAdapter(&memoryStorage{})
	if err := archive.SaveGame(context.Background(), ports.GameRecord{GameID: "g-1", SessionID: "s-1", PlayerCount: 2, Seats: []string{"u1", "u2"}}); err != nil {
		t.Fatalf("SaveGame error: %v", err)
	}

	tests := []struct {
		name     string
		userID   string
		payload  string
		wantCode int
	}{
		{name: "player", userID: "u2", payload: `{"game_id":"g-1"}`},
		{name: "stranger", userID: "u9", payload: `{"game_id":"g-1"}`, wantCode: 7},
		{name: "missing", userID: "u1", payload: `{"game_id":"g-2"}`, wantCode: 5},
		{name: "session id only", userID: "u1", payload: `{"session_id":"s-1"}`, wantCode: 3},
		{name: "bad payload", userID: "u1", payload: `nope`, wantCode: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := loadGameRecord(context.Background(), noopLogger{}, archive, tt.userID, tt.payload)
			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("loadGameRecord error: %v", err)
				}
				var rec ports.GameRecord
				if err := json.Unmarshal([]byte(out), &rec); err != nil || rec.GameID != "g-1" {
					t.Fatalf("unexpected record %q: %v", out, err)
				}
				return
			}
			rerr, ok := err.(*runtime.Error)
			if !ok || rerr.Code != tt.wantCode {
				t.Fatalf("error = %v, want runtime error code %d", err, tt.wantCode)
			}
		})
	}
}

type fakeRegistry struct {
	matches []*api.Match
	query   string
	created map[string]interface{}
}

func (f *fakeRegistry) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.query = query
	return f.matches, nil
}

func (f *fakeRegistry) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = params
	return "new-match", nil
}

func TestQuickMatch(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		matches   []*api.Match
		wantID    string
		wantNew   bool
		wantQuery string
	}{
		{
			name:      "joins open lobby",
			payload:   "",
			matches:   []*api.Match{{MatchId: "lobby-1"}},
			wantID:    "lobby-1",
			wantQuery: "+label.game:tycoon +label.phase:lobby +label.open:>=1",
		},
		{
			name:      "creates sized table",
			payload:   `{"max_players":4}`,
			wantID:    "new-match",
			wantNew:   true,
			wantQuery: "+label.game:tycoon +label.phase:lobby +label.open:>=1 +label.seats:4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &fakeRegistry{matches: tt.matches}
			out, err := quickMatch(context.Background(), noopLogger{}, registry, tt.payload)
			if err != nil {
				t.Fatalf("quickMatch error: %v", err)
			}
			var resp QuickMatchResponse
			if err := json.Unmarshal([]byte(out), &resp); err != nil {
				t.Fatalf("bad response %q: %v", out, err)
			}
			if resp.MatchID != tt.wantID || resp.IsNew != tt.wantNew {
				t.Fatalf("response = %+v", resp)
			}
			if registry.query != tt.wantQuery {
				t.Fatalf("query = %q, want %q", registry.query, tt.wantQuery)
			}
			if tt.wantNew && registry.created[paramMaxPlayers] != 4 {
				t.Fatalf("create params = %v", registry.created)
			}
		})
	}

	if _, err := quickMatch(context.Background(), noopLogger{}, &fakeRegistry{}, `{"max_players":-1}`); err == nil {
		t.Fatalf("expected error for negative table size")
	}
}

func TestApplyMatchParams(t *testing.T) {
	cfg := applyMatchParams(config.Default(), map[string]interface{}{paramMaxPlayers: 4}, noopLogger{})
	if cfg.MaxPlayers != 4 {
		t.Fatalf("MaxPlayers = %d, want 4", cfg.MaxPlayers)
	}
	cfg = applyMatchParams(config.Default(), map[string]interface{}{paramMaxPlayers: 99}, noopLogger{})
	if cfg.MaxPlayers != config.Default().MaxPlayers {
		t.Fatalf("invalid table size should be ignored, got %d", cfg.MaxPlayers)
	}
	if cfg := applyMatchParams(config.Default(), nil, noopLogger{}); cfg != config.Default() {
		t.Fatalf("nil params should keep the config")
	}
}
