package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/example/vocabsync/pkg/models"
)

// Keys used in the sync_state table.
const (
	keyLastSyncedAt = "last_synced_at"
	keyClockOffset  = "clock_offset"
	keyDeviceID     = "device_id"
)

// SyncStateRepository stores scalar sync state as key-value rows so the
// watermark, clock offset and device identity survive restarts. The auth
// layer reuses it for the persisted session.
type SyncStateRepository struct {
	db *DB
}

// NewSyncStateRepository creates a new repository instance.
func NewSyncStateRepository(db *DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

// Get returns the value for a key, or the empty string when absent.
func (r *SyncStateRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM sync_state WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get sync state %s: %v", key, err)
	}
	return value, nil
}

// Set upserts a key-value pair.
func (r *SyncStateRepository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO sync_state (key, value) VALUES ($1, $2)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set sync state %s: %v", key, err)
	}
	return nil
}

// LoadCursor restores the persisted sync cursor, generating and persisting
// a device ID on first use.
func (r *SyncStateRepository) LoadCursor() (*models.SyncCursor, error) {
	lastSynced, err := r.getInt(keyLastSyncedAt)
	if err != nil {
		return nil, err
	}
	offset, err := r.getInt(keyClockOffset)
	if err != nil {
		return nil, err
	}

	deviceID, err := r.Get(keyDeviceID)
	if err != nil {
		return nil, err
	}
	if deviceID == "" {
		deviceID = uuid.NewString()
		if err := r.Set(keyDeviceID, deviceID); err != nil {
			return nil, err
		}
	}

	return &models.SyncCursor{
		LastSyncedAt: lastSynced,
		ClockOffset:  offset,
		DeviceID:     deviceID,
	}, nil
}

// SaveLastSyncedAt persists the watermark.
func (r *SyncStateRepository) SaveLastSyncedAt(ts int64) error {
	return r.Set(keyLastSyncedAt, strconv.FormatInt(ts, 10))
}

// SaveClockOffset persists the estimated clock offset.
func (r *SyncStateRepository) SaveClockOffset(offset int64) error {
	return r.Set(keyClockOffset, strconv.FormatInt(offset, 10))
}

func (r *SyncStateRepository) getInt(key string) (int64, error) {
	raw, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sync state %s: %v", key, err)
	}
	return v, nil
}
