package models

// ReviewLogEntry is one element of a ReviewState history. History is
// append-only; entries are never edited or removed locally.
type ReviewLogEntry struct {
	ReviewedAt int64 `json:"reviewedAt"`
	Rating     int   `json:"rating"`
	Interval   int   `json:"interval"`
}

// ReviewState tracks the SM-2 scheduling state for one word.
//
// ReviewState has no separate updated-at column: the ReviewedAt of the last
// history entry is the authoritative "last modified" signal for sync.
type ReviewState struct {
	WordID       string    `json:"wordId" db:"word_id"`
	NextReviewAt int64     `json:"nextReviewAt" db:"next_review_at"`
	Interval     int       `json:"interval" db:"interval_days"` // days
	EaseFactor   float64   `json:"easeFactor" db:"ease_factor"`
	Repetitions  int       `json:"repetitions" db:"repetitions"`
	History      ReviewLog `json:"history" db:"history"`
}

// NewReviewState returns the default state a word starts from the first
// time it becomes reviewable.
func NewReviewState(wordID string, now int64) *ReviewState {
	const day = int64(24 * 60 * 60 * 1000)
	return &ReviewState{
		WordID:       wordID,
		NextReviewAt: now + day,
		Interval:     1,
		EaseFactor:   2.5,
		Repetitions:  0,
		History:      ReviewLog{},
	}
}

// LastReviewedAt returns the ReviewedAt of the most recent history entry,
// or 0 when the word has never been reviewed.
func (s *ReviewState) LastReviewedAt() int64 {
	if len(s.History) == 0 {
		return 0
	}
	return s.History[len(s.History)-1].ReviewedAt
}
