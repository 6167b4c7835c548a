// Package sync implements the offline-first synchronization engine: push
// and pull against the remote sync endpoints, last-writer-wins conflict
// resolution, clock reconciliation, and the automatic trigger layer.
package sync

import (
	"context"

	"github.com/example/vocabsync/pkg/models"
)

// WordStore is the local store for word entries. Get returns nil without an
// error when the entry is absent. Add inserts and may reject overwrites;
// Put upserts.
type WordStore interface {
	Get(id string) (*models.WordEntry, error)
	Add(word *models.WordEntry) error
	Put(word *models.WordEntry) error
	All() ([]*models.WordEntry, error)
}

// ReviewStore is the local store for review states, keyed by word ID.
type ReviewStore interface {
	Get(wordID string) (*models.ReviewState, error)
	Add(state *models.ReviewState) error
	Put(state *models.ReviewState) error
	All() ([]*models.ReviewState, error)
}

// CursorStore persists the scalar sync state across restarts. LoadCursor is
// responsible for generating and persisting the device ID the first time it
// is called.
type CursorStore interface {
	LoadCursor() (*models.SyncCursor, error)
	SaveLastSyncedAt(ts int64) error
	SaveClockOffset(offset int64) error
}

// Authenticator supplies the current identity and bearer token. A nil user
// and an empty token are both treated as not authenticated.
type Authenticator interface {
	CurrentUser() *models.User
	AccessToken() string
}

// Remote is the server side of the sync protocol.
type Remote interface {
	Push(ctx context.Context, token string, req *PushRequest) (*PushResponse, error)
	Pull(ctx context.Context, token string, since int64) (*PullResponse, error)
}

// Syncer is the part of the engine the auto-sync trigger layer needs.
type Syncer interface {
	Sync(ctx context.Context) (*SyncResult, error)
}
