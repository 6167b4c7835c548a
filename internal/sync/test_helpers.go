package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/vocabsync/pkg/models"
)

// In-memory store implementations shared by the package tests.

type memWordStore struct {
	mu    sync.Mutex
	items map[string]*models.WordEntry
}

func newMemWordStore() *memWordStore {
	return &memWordStore{items: make(map[string]*models.WordEntry)}
}

func (s *memWordStore) Get(id string) (*models.WordEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id], nil
}

func (s *memWordStore) Add(word *models.WordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[word.ID]; ok {
		return fmt.Errorf("word %s already exists", word.ID)
	}
	s.items[word.ID] = word
	return nil
}

func (s *memWordStore) Put(word *models.WordEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[word.ID] = word
	return nil
}

func (s *memWordStore) All() ([]*models.WordEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.WordEntry, 0, len(s.items))
	for _, w := range s.items {
		out = append(out, w)
	}
	return out, nil
}

type memReviewStore struct {
	mu    sync.Mutex
	items map[string]*models.ReviewState
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{items: make(map[string]*models.ReviewState)}
}

func (s *memReviewStore) Get(wordID string) (*models.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[wordID], nil
}

func (s *memReviewStore) Add(state *models.ReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[state.WordID]; ok {
		return fmt.Errorf("review state %s already exists", state.WordID)
	}
	s.items[state.WordID] = state
	return nil
}

func (s *memReviewStore) Put(state *models.ReviewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[state.WordID] = state
	return nil
}

func (s *memReviewStore) All() ([]*models.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ReviewState, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	return out, nil
}

type memCursorStore struct {
	mu     sync.Mutex
	cursor models.SyncCursor
}

func newMemCursorStore() *memCursorStore {
	return &memCursorStore{cursor: models.SyncCursor{DeviceID: "device-test"}}
}

func (s *memCursorStore) LoadCursor() (*models.SyncCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cursor
	return &c, nil
}

func (s *memCursorStore) SaveLastSyncedAt(ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.LastSyncedAt = ts
	return nil
}

func (s *memCursorStore) SaveClockOffset(offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.ClockOffset = offset
	return nil
}

func (s *memCursorStore) saved() models.SyncCursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

type fakeAuth struct {
	user  *models.User
	token string
}

func (a *fakeAuth) CurrentUser() *models.User { return a.user }
func (a *fakeAuth) AccessToken() string       { return a.token }

func authedUser() *fakeAuth {
	return &fakeAuth{
		user:  &models.User{ID: "user-1", Email: "user@example.com"},
		token: "token-1",
	}
}

// fakeRemote is an in-process Remote with scriptable responses.
type fakeRemote struct {
	mu     sync.Mutex
	pushes []*PushRequest
	pulls  []int64
	pushFn func(req *PushRequest) (*PushResponse, error)
	pullFn func(since int64) (*PullResponse, error)
}

func (r *fakeRemote) Push(_ context.Context, _ string, req *PushRequest) (*PushResponse, error) {
	r.mu.Lock()
	r.pushes = append(r.pushes, req)
	fn := r.pushFn
	r.mu.Unlock()
	if fn == nil {
		return &PushResponse{}, nil
	}
	return fn(req)
}

func (r *fakeRemote) Pull(_ context.Context, _ string, since int64) (*PullResponse, error) {
	r.mu.Lock()
	r.pulls = append(r.pulls, since)
	fn := r.pullFn
	r.mu.Unlock()
	if fn == nil {
		return &PullResponse{}, nil
	}
	return fn(since)
}

func (r *fakeRemote) pushCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pushes)
}

func (r *fakeRemote) pullCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pulls)
}
