package wire

import (
	"encoding/json"
	"fmt"

	"tycoon/internal/app"
	"tycoon/internal/domain"
)

// MessageType tags WebSocket messages between client and server.
type MessageType string

const (
	MsgTypeJoin     MessageType = "join"     // Client takes or reclaims a seat
	MsgTypeLeave    MessageType = "leave"    // Client gives up its seat in the lobby
	MsgTypeStart    MessageType = "start"    // Owner deals a new game
	MsgTypePlay     MessageType = "play"     // Client plays a set of cards
	MsgTypePass     MessageType = "pass"     // Client passes its turn
	MsgTypeSnapshot MessageType = "snapshot" // Client asks for its view of the table
	MsgTypeJoined   MessageType = "joined"   // Server confirms a seat and hands out a token
	MsgTypeState    MessageType = "state"    // Server sends the viewer's snapshot
	MsgTypeEvent    MessageType = "event"    // Server forwards a game event
	MsgTypeError    MessageType = "error"    // Server rejects a request
)

// Message is the envelope of every WebSocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a Message with a marshaled payload.
func NewMessage(msgType MessageType, payload any) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return Message{Type: msgType, Payload: payloadBytes}, nil
}

// Parse unmarshals the payload into the struct matching m.Type.
func (m *Message) Parse() (any, error) {
	var target any
	switch m.Type {
	case MsgTypeJoin:
		target = &JoinMessage{}
	case MsgTypeLeave:
		target = &LeaveMessage{}
	case MsgTypeStart:
		target = &StartMessage{}
	case MsgTypePlay:
		target = &PlayMessage{}
	case MsgTypePass:
		target = &PassMessage{}
	case MsgTypeSnapshot:
		target = &SnapshotMessage{}
	case MsgTypeJoined:
		target = &JoinedMessage{}
	case MsgTypeState:
		target = &StateMessage{}
	case MsgTypeEvent:
		target = &EventMessage{}
	case MsgTypeError:
		target = &ErrorMessage{}
	default:
		return nil, fmt.Errorf("unknown message type: %s", m.Type)
	}

	if len(m.Payload) == 0 {
		return target, nil
	}

	err := json.Unmarshal(m.Payload, target)
	return target, err
}

// JoinMessage is the payload for MsgTypeJoin. An empty TableID opens a new
// table. Token reclaims a seat after a reconnect.
type JoinMessage struct {
	TableID string `json:"table_id,omitempty"`
	UserID  string `json:"user_id"`
	Token   string `json:"token,omitempty"`
}

// LeaveMessage is the payload for MsgTypeLeave.
type LeaveMessage struct{}

// StartMessage is the payload for MsgTypeStart.
type StartMessage struct{}

// PlayMessage is the payload for MsgTypePlay.
type PlayMessage struct {
	CardIDs []domain.CardID `json:"card_ids"`
}

// PassMessage is the payload for MsgTypePass.
type PassMessage struct{}

// SnapshotMessage is the payload for MsgTypeSnapshot.
type SnapshotMessage struct{}

// JoinedMessage is the payload for MsgTypeJoined.
type JoinedMessage struct {
	TableID string `json:"table_id"`
	UserID  string `json:"user_id"`
	Seat    int    `json:"seat"`
	Token   string `json:"token"`
}

// StateMessage is the payload for MsgTypeState.
type StateMessage struct {
	app.SessionSnapshot
}

// EventMessage is the payload for MsgTypeEvent.
type EventMessage struct {
	Kind    app.EventKind   `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorMessage is the payload for MsgTypeError.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEventMessage wraps an app event for the wire.
func NewEventMessage(e app.Event) (Message, error) {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal %s event: %w", e.Kind, err)
	}
	return NewMessage(MsgTypeEvent, EventMessage{Kind: e.Kind, Payload: payload})
}

// NewErrorMessage builds an error reply. code is the machine-readable reason.
func NewErrorMessage(code, text string) Message {
	msg, _ := NewMessage(MsgTypeError, ErrorMessage{Code: code, Message: text})
	return msg
}
