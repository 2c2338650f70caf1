package app

import (
	"errors"

	"tycoon/internal/domain"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrNotOwner, "not_owner"},
	{ErrNotInLobby, "not_in_lobby"},
	{ErrNotPlaying, "not_playing"},
	{ErrTableFull, "table_full"},
	{ErrTooFewPlayers, "too_few_players"},
	{ErrUnknownPlayer, "unknown_player"},
	{ErrPlayerFinished, "player_finished"},
	{ErrInvalidSeatToken, "invalid_seat_token"},
}

// ErrorCode maps an error returned by the Service to a stable client-facing
// code. Errors the client cannot have caused map to "internal".
func ErrorCode(err error) string {
	if reason, ok := domain.AsReject(err); ok {
		return reason.Code()
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

// IsClientError reports whether err was caused by the request rather than the server.
func IsClientError(err error) bool {
	return ErrorCode(err) != "internal"
}
