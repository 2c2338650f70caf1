package app

import (
	"time"

	"tycoon/internal/domain"
	"tycoon/internal/ports"
)

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// Session is one table: its seated users and the game in progress, if any.
// Seat i in Seats is player index i in Game.
type Session struct {
	ID           string
	GameID       string
	Phase        Phase
	Seats        []string
	Game         *domain.Game
	InitialHands []domain.Hand
	FinishOrder  []string
	Log          []domain.Action
	Seed         *int64
	EndedAt      time.Time
}

// SeatOf returns the seat of userID, or domain.NoPlayer.
func (s *Session) SeatOf(userID string) int {
	for i, id := range s.Seats {
		if id == userID {
			return i
		}
	}
	return domain.NoPlayer
}

// Owner returns the user in seat 0, who may start the game.
func (s *Session) Owner() string {
	if len(s.Seats) == 0 {
		return ""
	}
	return s.Seats[0]
}

func (s *Session) userAt(seat int) string {
	if seat < 0 || seat >= len(s.Seats) {
		return ""
	}
	return s.Seats[seat]
}

// resetEndedGame drops a finished game once the seats change, since seat i
// would no longer match hand i.
func (s *Session) resetEndedGame() {
	if s.Phase != PhaseEnded {
		return
	}
	s.Phase = PhaseLobby
	s.Game = nil
	s.GameID = ""
	s.InitialHands = nil
	s.Log = nil
	s.FinishOrder = nil
	s.Seed = nil
	s.EndedAt = time.Time{}
}

func (s *Session) finished(userID string) bool {
	for _, id := range s.FinishOrder {
		if id == userID {
			return true
		}
	}
	return false
}

// Record captures the finished game for archiving and replay.
func (s *Session) Record() ports.GameRecord {
	return ports.GameRecord{
		GameID:      s.GameID,
		SessionID:   s.ID,
		PlayerCount: len(s.Seats),
		Seats:       append([]string(nil), s.Seats...),
		Seed:        s.Seed,
		Hands:       s.InitialHands,
		Actions:     append([]domain.Action(nil), s.Log...),
		FinishOrder: append([]string(nil), s.FinishOrder...),
		EndedAt:     s.EndedAt,
	}
}

// SessionSnapshot is the state of a session as seen by one user.
type SessionSnapshot struct {
	SessionID   string           `json:"session_id"`
	GameID      string           `json:"game_id,omitempty"`
	Phase       Phase            `json:"phase"`
	Seats       []string         `json:"seats"`
	Seat        int              `json:"seat"`
	Game        *domain.Snapshot `json:"game,omitempty"`
	Playable    []domain.Card    `json:"playable,omitempty"`
	FinishOrder []string         `json:"finish_order,omitempty"`
}
