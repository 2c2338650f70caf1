package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"tycoon/internal/domain"
	"tycoon/internal/fairshuffle"
)

const (
	ShuffleCrypto = "crypto"
	ShuffleSeeded = "seeded"
)

type GameConfig struct {
	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`
	// ShuffleMode is "crypto" for live tables or "seeded" for reproducible deals.
	ShuffleMode         string `json:"shuffle_mode"`
	Seed                int64  `json:"seed"`
	SeatTokenSecret     string `json:"seat_token_secret"`
	SeatTokenTTLSeconds int    `json:"seat_token_ttl_seconds"`
}

// Default returns the configuration used when no file has been loaded.
func Default() GameConfig {
	return GameConfig{
		MinPlayers:          domain.MinPlayers,
		MaxPlayers:          6,
		ShuffleMode:         ShuffleCrypto,
		SeatTokenTTLSeconds: 3600,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. Only the
// first call reads the file.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = &c
	})
	return loadErr
}

// Parse decodes a JSON config over the defaults and validates it.
func Parse(data []byte) (GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}

// GetGameConfig returns the global game configuration, or the defaults if
// nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

func (c GameConfig) Validate() error {
	if c.MinPlayers < domain.MinPlayers {
		return fmt.Errorf("min_players must be at least %d, got %d", domain.MinPlayers, c.MinPlayers)
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("max_players (%d) is below min_players (%d)", c.MaxPlayers, c.MinPlayers)
	}
	if c.MaxPlayers > domain.DeckSize {
		return fmt.Errorf("max_players (%d) exceeds the deck size", c.MaxPlayers)
	}
	switch c.ShuffleMode {
	case ShuffleCrypto, ShuffleSeeded:
	default:
		return fmt.Errorf("unknown shuffle_mode %q", c.ShuffleMode)
	}
	if c.SeatTokenTTLSeconds <= 0 {
		return fmt.Errorf("seat_token_ttl_seconds must be positive")
	}
	return nil
}

// NewShuffler returns the deck shuffler selected by ShuffleMode. In seeded mode
// every call starts from the same seed, so each deal can be replayed.
func (c GameConfig) NewShuffler() domain.Shuffler {
	if c.ShuffleMode == ShuffleSeeded {
		return fairshuffle.NewSeeded(c.Seed)
	}
	return fairshuffle.New()
}
