package app

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a game.
const MinPlayersToStartGame = 2

// DefaultMaxPlayers caps a table when the caller does not configure a limit.
const DefaultMaxPlayers = 6
