package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabsync/pkg/models"
)

// WordRepository handles database operations for word entries.
type WordRepository struct {
	db *DB
}

// NewWordRepository creates a new repository instance.
func NewWordRepository(db *DB) *WordRepository {
	return &WordRepository{db: db}
}

// Get returns a word entry by ID, or nil when it does not exist.
func (r *WordRepository) Get(id string) (*models.WordEntry, error) {
	var word models.WordEntry
	err := r.db.Get(&word, "SELECT * FROM words WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %v", err)
	}
	return &word, nil
}

// Add inserts a new word entry; it fails if the ID already exists.
func (r *WordRepository) Add(word *models.WordEntry) error {
	_, err := r.db.NamedExec(`
		INSERT INTO words (
			id, word, normalized, definitions, phonetic, audio_url,
			source_text, source_url, source_title, tags, favorite, note,
			view_count, created_at, updated_at, deleted_at
		) VALUES (
			:id, :word, :normalized, :definitions, :phonetic, :audio_url,
			:source_text, :source_url, :source_title, :tags, :favorite, :note,
			:view_count, :created_at, :updated_at, :deleted_at
		)
	`, word)
	if err != nil {
		return fmt.Errorf("failed to insert word: %v", err)
	}
	return nil
}

// Put upserts a word entry, replacing every column on conflict. Merges are
// whole-entity, so a partial update path is deliberately absent.
func (r *WordRepository) Put(word *models.WordEntry) error {
	_, err := r.db.NamedExec(`
		INSERT INTO words (
			id, word, normalized, definitions, phonetic, audio_url,
			source_text, source_url, source_title, tags, favorite, note,
			view_count, created_at, updated_at, deleted_at
		) VALUES (
			:id, :word, :normalized, :definitions, :phonetic, :audio_url,
			:source_text, :source_url, :source_title, :tags, :favorite, :note,
			:view_count, :created_at, :updated_at, :deleted_at
		)
		ON CONFLICT(id) DO UPDATE SET
			word = excluded.word,
			normalized = excluded.normalized,
			definitions = excluded.definitions,
			phonetic = excluded.phonetic,
			audio_url = excluded.audio_url,
			source_text = excluded.source_text,
			source_url = excluded.source_url,
			source_title = excluded.source_title,
			tags = excluded.tags,
			favorite = excluded.favorite,
			note = excluded.note,
			view_count = excluded.view_count,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at
	`, word)
	if err != nil {
		return fmt.Errorf("failed to upsert word: %v", err)
	}
	return nil
}

// All returns every word entry, tombstoned ones included. The change set
// selector needs the full scan; callers showing words to the user should
// filter on Deleted.
func (r *WordRepository) All() ([]*models.WordEntry, error) {
	var words []*models.WordEntry
	err := r.db.Select(&words, "SELECT * FROM words ORDER BY normalized")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}
