package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest optionally narrows the search to tables of one size.
type QuickMatchRequest struct {
	MaxPlayers int `json:"max_players,omitempty"`
}

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// matchRegistry is the subset of runtime.NakamaModule quick_match needs.
type matchRegistry interface {
	MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error)
	MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error)
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcGameRecord, rpcGameRecord)
}

// rpcQuickMatch joins the caller to an open lobby or creates a new one.
//
// Payload: {} or {"max_players": 4}
// Returns: {"match_id": "...", "is_new": bool}
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	return quickMatch(ctx, logger, nk, payload)
}

func quickMatch(ctx context.Context, logger runtime.Logger, registry matchRegistry, payload string) (string, error) {
	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MaxPlayers < 0 {
			return "", runtime.NewError("invalid quick match request", 3) // INVALID_ARGUMENT
		}
	}

	minSize := 1
	maxSize := 64 // open seats in the label is the real capacity filter
	matches, err := registry.MatchList(ctx, 10, true, "", &minSize, &maxSize, quickMatchQuery(req.MaxPlayers))
	if err != nil {
		logger.Error("RpcQuickMatch: MatchList error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{}
	if len(matches) > 0 {
		resp.MatchID = matches[0].MatchId
	} else {
		// Seats and ownership are assigned in MatchJoin.
		params := map[string]interface{}{}
		if req.MaxPlayers > 0 {
			params[paramMaxPlayers] = req.MaxPlayers
		}
		resp.MatchID, err = registry.MatchCreate(ctx, MatchNameTycoon, params)
		if err != nil {
			logger.Error("RpcQuickMatch: MatchCreate error: %v", err)
			return "", err
		}
		resp.IsNew = true
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal quick match response: %w", err)
	}
	return string(b), nil
}

// quickMatchQuery finds lobbies of this game with at least one open seat.
func quickMatchQuery(maxPlayers int) string {
	query := "+label.game:" + gameLabel + " +label.phase:lobby +label.open:>=1"
	if maxPlayers > 0 {
		query += fmt.Sprintf(" +label.seats:%d", maxPlayers)
	}
	return query
}
