package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcGameRecord returns the archived record of a finished game for replay.
	RpcGameRecord = "game_record"

	// MatchNameTycoon is the authoritative match handler name registered with Nakama.
	MatchNameTycoon = "tycoon_match"

	// gameLabel tags Tycoon matches in the match listing.
	gameLabel = "tycoon"

	// gameRecordCollection is the storage collection holding finished games.
	gameRecordCollection = "tycoon_games"

	// paramMaxPlayers is the match create parameter carrying the requested table size.
	paramMaxPlayers = "max_players"

	// configPath is read once per process on the first MatchInit.
	configPath = "data/tycoon_config.json"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame       int64 = 1
	OpPlayCards       int64 = 2
	OpPassTurn        int64 = 3
	OpRequestSnapshot int64 = 4

	// Server -> Client events
	OpPlayerJoined   int64 = 101
	OpPlayerLeft     int64 = 102
	OpGameStarted    int64 = 103
	OpHandDealt      int64 = 104 // send privately
	OpCardPlayed     int64 = 105
	OpTurnPassed     int64 = 106
	OpGameEnded      int64 = 107
	OpPlayerFinished int64 = 108
	OpSnapshot       int64 = 109 // send privately
	OpGameError      int64 = 110 // send privately
)

// Error codes carried by OpGameError.
const (
	errCodeRejected = 400
	errCodeInternal = 500
)
