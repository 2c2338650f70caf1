package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// GameRecordRequest selects an archived game.
type GameRecordRequest struct {
	GameID string `json:"game_id"`
}

// rpcGameRecord returns the stored record of a finished game. Only players who
// were seated in that game may read it.
//
// Payload: {"game_id": "..."}
// Returns: the ports.GameRecord as JSON.
func rpcGameRecord(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	return loadGameRecord(ctx, logger, NewNakamaArchiveAdapter(nk), userID, payload)
}

func loadGameRecord(ctx context.Context, logger runtime.Logger, archive *NakamaArchiveAdapter, userID, payload string) (string, error) {
	var req GameRecordRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.GameID == "" {
		return "", runtime.NewError("game_id is required", 3) // INVALID_ARGUMENT
	}

	record, err := archive.LoadGame(ctx, req.GameID)
	if errors.Is(err, ErrRecordNotFound) {
		return "", runtime.NewError("game record not found", 5) // NOT_FOUND
	}
	if err != nil {
		logger.Error("RpcGameRecord [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to load game record", 13) // INTERNAL
	}

	seated := false
	for _, seat := range record.Seats {
		if seat == userID {
			seated = true
			break
		}
	}
	if !seated {
		return "", runtime.NewError("not a player of this game", 7) // PERMISSION_DENIED
	}

	b, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal game record: %w", err)
	}
	logger.Info("RpcGameRecord [User:%s]: Returned game %s", userID, req.GameID)
	return string(b), nil
}
