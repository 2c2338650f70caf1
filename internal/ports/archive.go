package ports

import (
	"context"
	"time"

	"tycoon/internal/domain"
)

// GameRecord is everything needed to audit or replay a finished game.
type GameRecord struct {
	// GameID identifies one deal. A session that plays again gets a new one.
	GameID      string          `json:"game_id"`
	SessionID   string          `json:"session_id"`
	PlayerCount int             `json:"player_count"`
	Seats       []string        `json:"seats,omitempty"`
	Seed        *int64          `json:"seed,omitempty"`
	Hands       []domain.Hand   `json:"hands,omitempty"`
	Actions     []domain.Action `json:"actions"`
	FinishOrder []string        `json:"finish_order,omitempty"`
	EndedAt     time.Time       `json:"ended_at"`
}

// GameArchivePort stores finished games.
type GameArchivePort interface {
	// SaveGame persists a finished game. Implementations overwrite an existing
	// record with the same GameID.
	SaveGame(ctx context.Context, record GameRecord) error
}
