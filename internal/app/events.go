package app

import "tycoon/internal/domain"

// EventKind identifies emitted events for transport dispatch.
type EventKind string

const (
	EventPlayerJoined   EventKind = "player_joined"
	EventPlayerLeft     EventKind = "player_left"
	EventGameStarted    EventKind = "game_started"
	EventHandDealt      EventKind = "hand_dealt"
	EventCardPlayed     EventKind = "card_played"
	EventTurnPassed     EventKind = "turn_passed"
	EventPlayerFinished EventKind = "player_finished"
	EventGameEnded      EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Owner  bool   `json:"owner"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type GameStartedPayload struct {
	SessionID       string   `json:"session_id"`
	GameID          string   `json:"game_id"`
	Seats           []string `json:"seats"`
	FirstTurnUserID string   `json:"first_turn_user_id"`
}

type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Hand   []domain.Card `json:"hand"`
}

type CardPlayedPayload struct {
	UserID            string        `json:"user_id"`
	Cards             []domain.Card `json:"cards"`
	CardsLeft         int           `json:"cards_left"`
	Revolution        bool          `json:"revolution"`
	RevolutionToggled bool          `json:"revolution_toggled"`
	// TableCleared is "" when the table still holds the play.
	TableCleared   string `json:"table_cleared,omitempty"`
	NextTurnUserID string `json:"next_turn_user_id"`
}

type TurnPassedPayload struct {
	UserID         string `json:"user_id"`
	TableCleared   string `json:"table_cleared,omitempty"`
	NextTurnUserID string `json:"next_turn_user_id"`
}

type PlayerFinishedPayload struct {
	UserID string `json:"user_id"`
	Place  int    `json:"place"`
}

type GameEndedPayload struct {
	FinishOrder []string `json:"finish_order"`
}
