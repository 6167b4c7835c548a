package spaced_repetition

import (
	"math"
	"testing"
	"time"

	"github.com/example/vocabsync/pkg/models"
)

var testNow = time.UnixMilli(1_700_000_000_000)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFailingRatingResetsProgress(t *testing.T) {
	sm := NewSM2()

	states := []State{
		{Interval: 1, EaseFactor: 2.5, Repetitions: 0},
		{Interval: 6, EaseFactor: 2.5, Repetitions: 2},
		{Interval: 120, EaseFactor: 1.7, Repetitions: 9},
		{Interval: 365, EaseFactor: 1.3, Repetitions: 30},
	}

	for _, rating := range []Rating{RatingAgain, RatingHard} {
		for _, state := range states {
			res := sm.CalculateNextReview(state, rating, testNow)
			if res.Interval != 1 {
				t.Errorf("rating %d from %+v: interval = %d, want 1", rating, state, res.Interval)
			}
			if res.Repetitions != 0 {
				t.Errorf("rating %d from %+v: repetitions = %d, want 0", rating, state, res.Repetitions)
			}
			if res.EaseFactor > state.EaseFactor {
				t.Errorf("rating %d from %+v: ease factor rose to %v", rating, state, res.EaseFactor)
			}
			if res.EaseFactor < sm.MinEaseFactor {
				t.Errorf("rating %d from %+v: ease factor %v below minimum", rating, state, res.EaseFactor)
			}
			if want := testNow.UnixMilli() + dayMillis; res.NextReviewAt != want {
				t.Errorf("rating %d from %+v: nextReviewAt = %d, want %d", rating, state, res.NextReviewAt, want)
			}
		}
	}
}

func TestLearningProgression(t *testing.T) {
	sm := NewSM2()
	state := State{Interval: 1, EaseFactor: 2.5, Repetitions: 0}

	wantIntervals := []int{1, 6, 14}
	for i, want := range wantIntervals {
		res := sm.CalculateNextReview(state, RatingGood, testNow)
		if res.Interval != want {
			t.Fatalf("Good #%d: interval = %d, want %d", i+1, res.Interval, want)
		}
		if res.Repetitions != i+1 {
			t.Fatalf("Good #%d: repetitions = %d, want %d", i+1, res.Repetitions, i+1)
		}
		state = State{Interval: res.Interval, EaseFactor: res.EaseFactor, Repetitions: res.Repetitions}
	}

	if !almostEqual(state.EaseFactor, 2.36) {
		t.Errorf("ease factor after three Good ratings = %v, want 2.36", state.EaseFactor)
	}
}

func TestIntervalRoundsToNearestDay(t *testing.T) {
	sm := NewSM2()

	// 6 × 2.36 = 14.16 rounds down to 14.
	res := sm.CalculateNextReview(State{Interval: 6, EaseFactor: 2.5, Repetitions: 2}, RatingGood, testNow)
	if res.Interval != 14 {
		t.Errorf("interval = %d, want 14 (14.16 rounded)", res.Interval)
	}

	// 5 × 2.36 = 11.8 rounds up to 12; truncation would give 11.
	res = sm.CalculateNextReview(State{Interval: 5, EaseFactor: 2.5, Repetitions: 2}, RatingGood, testNow)
	if res.Interval != 12 {
		t.Errorf("interval = %d, want 12 (11.8 rounded)", res.Interval)
	}
}

func TestEaseFactorStaysBounded(t *testing.T) {
	sm := NewSM2()

	t.Run("repeated best ratings never exceed max", func(t *testing.T) {
		state := State{Interval: 1, EaseFactor: 2.5, Repetitions: 0}
		for i := 0; i < 100; i++ {
			res := sm.CalculateNextReview(state, RatingVeryEasy, testNow)
			if res.EaseFactor > sm.MaxEaseFactor {
				t.Fatalf("iteration %d: ease factor %v above maximum", i, res.EaseFactor)
			}
			state = State{Interval: res.Interval, EaseFactor: res.EaseFactor, Repetitions: res.Repetitions}
		}
	})

	t.Run("repeated failures never drop below min", func(t *testing.T) {
		state := State{Interval: 30, EaseFactor: 2.5, Repetitions: 5}
		for i := 0; i < 100; i++ {
			res := sm.CalculateNextReview(state, RatingAgain, testNow)
			if res.EaseFactor < sm.MinEaseFactor {
				t.Fatalf("iteration %d: ease factor %v below minimum", i, res.EaseFactor)
			}
			state = State{Interval: res.Interval, EaseFactor: res.EaseFactor, Repetitions: res.Repetitions}
		}
		if !almostEqual(state.EaseFactor, sm.MinEaseFactor) {
			t.Errorf("ease factor = %v, want converged to %v", state.EaseFactor, sm.MinEaseFactor)
		}
	})
}

func TestAgainIsIdempotentOnSchedule(t *testing.T) {
	sm := NewSM2()

	states := []State{
		{Interval: 1, EaseFactor: 2.5, Repetitions: 0},
		{Interval: 14, EaseFactor: 2.36, Repetitions: 3},
		{Interval: 200, EaseFactor: 1.3, Repetitions: 12},
	}
	for _, state := range states {
		res := sm.CalculateNextReview(state, RatingAgain, testNow)
		if res.Interval != 1 || res.Repetitions != 0 {
			t.Errorf("Again from %+v: got interval %d, repetitions %d; want 1, 0",
				state, res.Interval, res.Repetitions)
		}
	}
}

func TestIntervalNeverExceedsMax(t *testing.T) {
	sm := NewSM2()
	res := sm.CalculateNextReview(State{Interval: 300, EaseFactor: 2.5, Repetitions: 8}, RatingEasy, testNow)
	if res.Interval != sm.MaxInterval {
		t.Errorf("interval = %d, want capped at %d", res.Interval, sm.MaxInterval)
	}
}

func TestPrioritizeDue(t *testing.T) {
	sm := NewSM2()
	nowMs := testNow.UnixMilli()

	fresh := &models.ReviewState{WordID: "fresh", NextReviewAt: nowMs - 10, Repetitions: 0, EaseFactor: 2.5}
	hard := &models.ReviewState{WordID: "hard", NextReviewAt: nowMs - 5, Repetitions: 4, EaseFactor: 1.4}
	easy := &models.ReviewState{WordID: "easy", NextReviewAt: nowMs - 20, Repetitions: 4, EaseFactor: 2.3}
	future := &models.ReviewState{WordID: "future", NextReviewAt: nowMs + 1000, Repetitions: 1, EaseFactor: 2.5}

	due := sm.PrioritizeDue([]*models.ReviewState{easy, future, hard, fresh}, testNow, 0)

	want := []string{"fresh", "hard", "easy"}
	if len(due) != len(want) {
		t.Fatalf("got %d due states, want %d", len(due), len(want))
	}
	for i, id := range want {
		if due[i].WordID != id {
			t.Errorf("position %d: got %s, want %s", i, due[i].WordID, id)
		}
	}

	limited := sm.PrioritizeDue([]*models.ReviewState{easy, future, hard, fresh}, testNow, 2)
	if len(limited) != 2 {
		t.Errorf("limit 2: got %d states", len(limited))
	}
}
