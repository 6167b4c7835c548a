package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabsync/pkg/models"
)

// ReviewRepository handles database operations for review states.
type ReviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new repository instance.
func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Get returns the review state for a word, or nil when the word has no
// review state yet.
func (r *ReviewRepository) Get(wordID string) (*models.ReviewState, error) {
	var state models.ReviewState
	err := r.db.Get(&state, "SELECT * FROM review_states WHERE word_id = $1", wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review state: %v", err)
	}
	return &state, nil
}

// Add inserts a new review state; it fails if one already exists.
func (r *ReviewRepository) Add(state *models.ReviewState) error {
	_, err := r.db.NamedExec(`
		INSERT INTO review_states (
			word_id, next_review_at, interval_days, ease_factor, repetitions, history
		) VALUES (
			:word_id, :next_review_at, :interval_days, :ease_factor, :repetitions, :history
		)
	`, state)
	if err != nil {
		return fmt.Errorf("failed to insert review state: %v", err)
	}
	return nil
}

// Put upserts a review state, replacing every column on conflict.
func (r *ReviewRepository) Put(state *models.ReviewState) error {
	_, err := r.db.NamedExec(`
		INSERT INTO review_states (
			word_id, next_review_at, interval_days, ease_factor, repetitions, history
		) VALUES (
			:word_id, :next_review_at, :interval_days, :ease_factor, :repetitions, :history
		)
		ON CONFLICT(word_id) DO UPDATE SET
			next_review_at = excluded.next_review_at,
			interval_days = excluded.interval_days,
			ease_factor = excluded.ease_factor,
			repetitions = excluded.repetitions,
			history = excluded.history
	`, state)
	if err != nil {
		return fmt.Errorf("failed to upsert review state: %v", err)
	}
	return nil
}

// All returns every review state.
func (r *ReviewRepository) All() ([]*models.ReviewState, error) {
	var states []*models.ReviewState
	err := r.db.Select(&states, "SELECT * FROM review_states")
	if err != nil {
		return nil, fmt.Errorf("failed to get review states: %v", err)
	}
	return states, nil
}
