package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"tycoon/internal/ports"
)

// ErrRecordNotFound is returned when no record is stored under a game ID.
var ErrRecordNotFound = errors.New("game record not found")

var validGameID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Archive stores each finished game as <dir>/<game_id>.json.
type Archive struct {
	dir string
}

// NewArchive creates dir if needed and returns an archive writing into it.
func NewArchive(dir string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive dir: %w", err)
	}
	return &Archive{dir: dir}, nil
}

// SaveGame writes the record atomically, replacing an earlier one.
func (a *Archive) SaveGame(ctx context.Context, record ports.GameRecord) error {
	path, err := a.path(record.GameID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	tmp, err := os.CreateTemp(a.dir, record.GameID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write game record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write game record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to store game record: %w", err)
	}
	return nil
}

// LoadGame reads the record stored for gameID.
func (a *Archive) LoadGame(gameID string) (ports.GameRecord, error) {
	path, err := a.path(gameID)
	if err != nil {
		return ports.GameRecord{}, err
	}
	return ReadRecord(path)
}

// ReadRecord decodes a record file written by SaveGame.
func ReadRecord(path string) (ports.GameRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ports.GameRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return ports.GameRecord{}, fmt.Errorf("failed to read game record: %w", err)
	}
	var record ports.GameRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return ports.GameRecord{}, fmt.Errorf("failed to decode game record: %w", err)
	}
	return record, nil
}

func (a *Archive) path(gameID string) (string, error) {
	if !validGameID.MatchString(gameID) {
		return "", fmt.Errorf("invalid game id %q", gameID)
	}
	return filepath.Join(a.dir, gameID+".json"), nil
}
