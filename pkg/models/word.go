package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// WordEntry represents a vocabulary item captured while browsing.
// All timestamps are Unix milliseconds so they compare directly against
// the sync watermark and the server's wire format.
type WordEntry struct {
	ID          string   `json:"id" db:"id"`
	Word        string   `json:"word" db:"word"`
	Normalized  string   `json:"normalized" db:"normalized"`
	Definitions JSONList `json:"definitions" db:"definitions"`
	Phonetic    string   `json:"phonetic" db:"phonetic"`
	AudioURL    string   `json:"audioUrl" db:"audio_url"`
	SourceText  string   `json:"sourceText" db:"source_text"`
	SourceURL   string   `json:"sourceUrl" db:"source_url"`
	SourceTitle string   `json:"sourceTitle" db:"source_title"`
	Tags        JSONList `json:"tags" db:"tags"`
	Favorite    bool     `json:"favorite" db:"favorite"`
	Note        string   `json:"note" db:"note"`
	ViewCount   int      `json:"viewCount" db:"view_count"`
	CreatedAt   int64    `json:"createdAt" db:"created_at"`
	UpdatedAt   int64    `json:"updatedAt" db:"updated_at"`
	DeletedAt   int64    `json:"deletedAt,omitempty" db:"deleted_at"` // 0 = not deleted
}

// NormalizeWord returns the canonical lowercased form used for identity.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// NewWordID derives a stable entry ID from the normalized word and the page
// it was captured on. Re-capturing the same word on the same page always
// produces the same ID, so duplicates collapse into a view-count bump.
func NewWordID(word, sourceURL string) string {
	sum := sha256.Sum256([]byte(NormalizeWord(word) + "|" + sourceURL))
	return hex.EncodeToString(sum[:])[:16]
}

// Deleted reports whether the entry carries a tombstone.
func (w *WordEntry) Deleted() bool {
	return w.DeletedAt != 0
}

// Touch bumps UpdatedAt to now, keeping it monotonically non-decreasing
// even if the local clock stepped backwards.
func (w *WordEntry) Touch(now int64) {
	if now <= w.UpdatedAt {
		now = w.UpdatedAt + 1
	}
	w.UpdatedAt = now
}
