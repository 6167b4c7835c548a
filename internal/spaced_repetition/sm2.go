package spaced_repetition

import (
	"math"
	"sort"
	"time"

	"github.com/example/vocabsync/pkg/models"
)

// Rating is the ordinal review rating submitted by the user.
type Rating int

const (
	// RatingAgain means the word was not recalled at all.
	RatingAgain Rating = 1
	// RatingHard means recall failed but the answer felt familiar.
	RatingHard Rating = 2
	// RatingGood means correct recall with some effort.
	RatingGood Rating = 3
	// RatingEasy means correct recall with little hesitation.
	RatingEasy Rating = 4
	// RatingVeryEasy means perfect, instant recall.
	RatingVeryEasy Rating = 5
)

// quality maps a rating onto the 0-5 SM-2 quality scale. Failing ratings
// land below 3 so the ease factor decays faster the worse the lapse.
func (r Rating) quality() float64 {
	switch r {
	case RatingAgain:
		return 0
	case RatingHard:
		return 2
	case RatingGood:
		return 3
	case RatingEasy:
		return 4
	default:
		return 5
	}
}

// SM2 implements the SuperMemo-2 algorithm for spaced repetition.
type SM2 struct {
	// Ratings at or above this threshold count as a pass.
	PassThreshold Rating
	// Ease factor bounds; the factor is clamped on every update.
	MinEaseFactor float64
	MaxEaseFactor float64
	// Maximum repetition interval in days.
	MaxInterval int
}

// NewSM2 creates an SM2 instance with the default settings.
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold: RatingGood,
		MinEaseFactor: 1.3,
		MaxEaseFactor: 2.5,
		MaxInterval:   365,
	}
}

// State is the scheduling state a review computation starts from.
type State struct {
	Interval    int // days
	EaseFactor  float64
	Repetitions int
}

// Result is the state after applying one rating.
type Result struct {
	Interval     int // days
	EaseFactor   float64
	Repetitions  int
	NextReviewAt int64 // Unix milliseconds
}

const dayMillis = int64(24 * time.Hour / time.Millisecond)

// CalculateNextReview applies one rating to the prior state and returns the
// new state. It is pure: now is injected, nothing is read or written.
//
// A failing rating always restarts spacing from a one-day interval with the
// repetition count cleared, no matter how long the prior interval was. The
// ease factor decays gradually instead, so a single lapse does not erase
// the accumulated difficulty estimate.
//
// Passing ratings walk the fixed learning steps (1 day, then 6 days) before
// switching to multiplicative growth. The ease factor is recomputed when the
// multiplicative phase is entered; during the fixed steps it is carried
// unchanged, which keeps the canonical 1, 6, 14 progression.
func (sm *SM2) CalculateNextReview(state State, rating Rating, now time.Time) Result {
	newEF := sm.clamp(state.EaseFactor + easeDelta(rating.quality()))

	if rating < sm.PassThreshold {
		return Result{
			Interval:     1,
			EaseFactor:   newEF,
			Repetitions:  0,
			NextReviewAt: now.UnixMilli() + dayMillis,
		}
	}

	reps := state.Repetitions + 1
	var interval int
	ef := sm.clamp(state.EaseFactor)

	switch reps {
	case 1:
		interval = 1
	case 2:
		interval = 6
	default:
		ef = newEF
		interval = int(math.Round(float64(state.Interval) * ef))
	}

	if interval < 1 {
		interval = 1
	}
	if interval > sm.MaxInterval {
		interval = sm.MaxInterval
	}

	return Result{
		Interval:     interval,
		EaseFactor:   ef,
		Repetitions:  reps,
		NextReviewAt: now.UnixMilli() + int64(interval)*dayMillis,
	}
}

// easeDelta is the SM-2 ease factor adjustment for a quality response q.
func easeDelta(q float64) float64 {
	return 0.1 - (5-q)*(0.08+(5-q)*0.02)
}

func (sm *SM2) clamp(ef float64) float64 {
	if ef < sm.MinEaseFactor {
		return sm.MinEaseFactor
	}
	if ef > sm.MaxEaseFactor {
		return sm.MaxEaseFactor
	}
	return ef
}

// PrioritizeDue filters states due at or before now and orders them for
// review: never-reviewed words first, then the hardest (lowest ease factor),
// then the most overdue. At most limit items are returned; limit <= 0 means
// no cap.
func (sm *SM2) PrioritizeDue(states []*models.ReviewState, now time.Time, limit int) []*models.ReviewState {
	nowMs := now.UnixMilli()
	var due []*models.ReviewState
	for _, s := range states {
		if s.NextReviewAt <= nowMs {
			due = append(due, s)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if (due[i].Repetitions == 0) != (due[j].Repetitions == 0) {
			return due[i].Repetitions == 0
		}
		if due[i].EaseFactor != due[j].EaseFactor {
			return due[i].EaseFactor < due[j].EaseFactor
		}
		return due[i].NextReviewAt < due[j].NextReviewAt
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due
}
