package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"tycoon/internal/ports"
)

// ErrRecordNotFound is returned when no finished game is stored under a game ID.
var ErrRecordNotFound = errors.New("game record not found")

// recordStorage is the subset of runtime.NakamaModule the archive needs.
type recordStorage interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
}

// NakamaArchiveAdapter stores finished games as system-owned storage objects.
type NakamaArchiveAdapter struct {
	store recordStorage
}

// NewNakamaArchiveAdapter creates a new archive adapter.
func NewNakamaArchiveAdapter(store recordStorage) *NakamaArchiveAdapter {
	return &NakamaArchiveAdapter{store: store}
}

// SaveGame writes the record keyed by its game ID.
func (a *NakamaArchiveAdapter) SaveGame(ctx context.Context, record ports.GameRecord) error {
	if record.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	_, err = a.store.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      gameRecordCollection,
			Key:             record.GameID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to store game record %s: %w", record.GameID, err)
	}
	return nil
}

// LoadGame reads a stored record.
func (a *NakamaArchiveAdapter) LoadGame(ctx context.Context, gameID string) (ports.GameRecord, error) {
	objects, err := a.store.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: gameRecordCollection, Key: gameID},
	})
	if err != nil {
		return ports.GameRecord{}, fmt.Errorf("failed to read game record %s: %w", gameID, err)
	}
	if len(objects) == 0 {
		return ports.GameRecord{}, ErrRecordNotFound
	}

	var record ports.GameRecord
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &record); err != nil {
		return ports.GameRecord{}, fmt.Errorf("failed to unmarshal game record: %w", err)
	}
	return record, nil
}

var _ ports.GameArchivePort = (*NakamaArchiveAdapter)(nil)
