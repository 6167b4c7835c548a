// Package vocabulary implements the local mutation layer: capturing words,
// editing them, recording review ratings, and listing what is due. Every
// mutation bumps the entity's modification signal and fires the local-write
// notification that feeds the debounced auto-sync trigger.
package vocabulary

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/vocabsync/internal/lookup"
	"github.com/example/vocabsync/internal/spaced_repetition"
	"github.com/example/vocabsync/pkg/models"
)

// WordStore is the word persistence the service needs.
type WordStore interface {
	Get(id string) (*models.WordEntry, error)
	Add(word *models.WordEntry) error
	Put(word *models.WordEntry) error
	All() ([]*models.WordEntry, error)
}

// ReviewStore is the review state persistence the service needs.
type ReviewStore interface {
	Get(wordID string) (*models.ReviewState, error)
	Add(state *models.ReviewState) error
	Put(state *models.ReviewState) error
	All() ([]*models.ReviewState, error)
}

// Service owns local vocabulary mutations and review submission.
type Service struct {
	words    WordStore
	reviews  ReviewStore
	lookup   lookup.Provider
	sm2      *spaced_repetition.SM2
	logger   *log.Logger
	now      func() time.Time
	onChange func()
}

// NewService creates the service. lookup may be nil to skip dictionary
// enrichment entirely.
func NewService(words WordStore, reviews ReviewStore, provider lookup.Provider, sm2 *spaced_repetition.SM2, logger *log.Logger) *Service {
	if sm2 == nil {
		sm2 = spaced_repetition.NewSM2()
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[vocab] ", log.LstdFlags)
	}
	return &Service{
		words:   words,
		reviews: reviews,
		lookup:  provider,
		sm2:     sm2,
		logger:  logger,
		now:     time.Now,
	}
}

// OnLocalWrite registers a callback fired after every successful local
// mutation. The auto-sync debouncer hangs off this.
func (s *Service) OnLocalWrite(fn func()) {
	s.onChange = fn
}

// CaptureInput is one word capture from a page.
type CaptureInput struct {
	Word        string
	SourceText  string
	SourceURL   string
	SourceTitle string
	// Pre-resolved dictionary data, e.g. from an import file. When empty,
	// the lookup provider is consulted.
	Definitions []string
	Phonetic    string
	AudioURL    string
	Tags        []string
}

// Capture stores a captured word. The entry ID is derived from the
// normalized word and source URL, so capturing the same word on the same
// page again just bumps its view count. Capturing over a tombstone revives
// the entry locally.
func (s *Service) Capture(ctx context.Context, in CaptureInput) (*models.WordEntry, error) {
	if models.NormalizeWord(in.Word) == "" {
		return nil, fmt.Errorf("cannot capture an empty word")
	}

	id := models.NewWordID(in.Word, in.SourceURL)
	existing, err := s.words.Get(id)
	if err != nil {
		return nil, err
	}

	nowMs := s.now().UnixMilli()

	if existing != nil && !existing.Deleted() {
		existing.ViewCount++
		existing.Touch(nowMs)
		if err := s.words.Put(existing); err != nil {
			return nil, err
		}
		s.notify()
		return existing, nil
	}

	entry := &models.WordEntry{
		ID:          id,
		Word:        in.Word,
		Normalized:  models.NormalizeWord(in.Word),
		Definitions: in.Definitions,
		Phonetic:    in.Phonetic,
		AudioURL:    in.AudioURL,
		SourceText:  in.SourceText,
		SourceURL:   in.SourceURL,
		SourceTitle: in.SourceTitle,
		Tags:        in.Tags,
		ViewCount:   1,
		CreatedAt:   nowMs,
	}

	if len(entry.Definitions) == 0 && s.lookup != nil {
		if res, err := s.lookup.Lookup(ctx, entry.Normalized); err != nil {
			// Lookup failure never blocks a capture.
			s.logger.Printf("lookup failed for %q: %v", entry.Normalized, err)
		} else {
			entry.Definitions = res.Definitions
			if entry.Phonetic == "" {
				entry.Phonetic = res.Phonetic
			}
			if entry.AudioURL == "" {
				entry.AudioURL = res.AudioURL
			}
		}
	}

	if existing != nil {
		// Revived tombstone: keep the original creation time and keep
		// UpdatedAt moving forward past the deleted copy.
		entry.CreatedAt = existing.CreatedAt
		entry.UpdatedAt = existing.UpdatedAt
		entry.Touch(nowMs)
		if err := s.words.Put(entry); err != nil {
			return nil, err
		}
	} else {
		entry.UpdatedAt = nowMs
		if err := s.words.Add(entry); err != nil {
			return nil, err
		}
	}

	s.notify()
	return entry, nil
}

// UpdateNote replaces the free-form note on a word.
func (s *Service) UpdateNote(id, note string) (*models.WordEntry, error) {
	return s.mutate(id, func(w *models.WordEntry) {
		w.Note = note
	})
}

// SetFavorite sets the favorite flag.
func (s *Service) SetFavorite(id string, favorite bool) (*models.WordEntry, error) {
	return s.mutate(id, func(w *models.WordEntry) {
		w.Favorite = favorite
	})
}

// SetTags replaces the tag list.
func (s *Service) SetTags(id string, tags []string) (*models.WordEntry, error) {
	return s.mutate(id, func(w *models.WordEntry) {
		w.Tags = tags
	})
}

// Delete writes a tombstone. Content is retained and the entry keeps
// syncing so the deletion reaches other devices; nothing is hard-deleted.
func (s *Service) Delete(id string) error {
	_, err := s.mutate(id, func(w *models.WordEntry) {
		w.DeletedAt = s.now().UnixMilli()
	})
	return err
}

// SubmitReview records a rating for a word, creating the default review
// state the first time. The scheduler runs synchronously; sync is not
// involved.
func (s *Service) SubmitReview(id string, rating spaced_repetition.Rating) (*models.ReviewState, error) {
	word, err := s.words.Get(id)
	if err != nil {
		return nil, err
	}
	if word == nil || word.Deleted() {
		return nil, fmt.Errorf("word %s not found", id)
	}

	state, err := s.reviews.Get(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	isNew := state == nil
	if isNew {
		state = models.NewReviewState(id, now.UnixMilli())
	}

	res := s.sm2.CalculateNextReview(spaced_repetition.State{
		Interval:    state.Interval,
		EaseFactor:  state.EaseFactor,
		Repetitions: state.Repetitions,
	}, rating, now)

	state.Interval = res.Interval
	state.EaseFactor = res.EaseFactor
	state.Repetitions = res.Repetitions
	state.NextReviewAt = res.NextReviewAt

	// History is append-only and its last entry is the sync modification
	// signal, so keep ReviewedAt strictly increasing even if the clock
	// stepped backwards.
	reviewedAt := now.UnixMilli()
	if last := state.LastReviewedAt(); reviewedAt <= last {
		reviewedAt = last + 1
	}
	state.History = append(state.History, models.ReviewLogEntry{
		ReviewedAt: reviewedAt,
		Rating:     int(rating),
		Interval:   res.Interval,
	})

	if isNew {
		err = s.reviews.Add(state)
	} else {
		err = s.reviews.Put(state)
	}
	if err != nil {
		return nil, err
	}

	s.notify()
	return state, nil
}

// DueWords returns the words due for review, hardest and most overdue
// first, capped at limit (limit <= 0 means no cap). The cap applies after
// tombstoned words are filtered out, so deleted entries never consume a
// slot.
func (s *Service) DueWords(limit int) ([]*models.WordEntry, error) {
	states, err := s.reviews.All()
	if err != nil {
		return nil, err
	}

	due := s.sm2.PrioritizeDue(states, s.now(), 0)
	words := make([]*models.WordEntry, 0, len(due))
	for _, st := range due {
		w, err := s.words.Get(st.WordID)
		if err != nil {
			return nil, err
		}
		if w == nil || w.Deleted() {
			continue
		}
		words = append(words, w)
		if limit > 0 && len(words) == limit {
			break
		}
	}
	return words, nil
}

// DueCount reports how many words are currently due.
func (s *Service) DueCount() (int, error) {
	due, err := s.DueWords(0)
	if err != nil {
		return 0, err
	}
	return len(due), nil
}

// Words returns all live (non-tombstoned) entries.
func (s *Service) Words() ([]*models.WordEntry, error) {
	all, err := s.words.All()
	if err != nil {
		return nil, err
	}
	live := make([]*models.WordEntry, 0, len(all))
	for _, w := range all {
		if !w.Deleted() {
			live = append(live, w)
		}
	}
	return live, nil
}

func (s *Service) mutate(id string, fn func(*models.WordEntry)) (*models.WordEntry, error) {
	w, err := s.words.Get(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("word %s not found", id)
	}

	fn(w)
	w.Touch(s.now().UnixMilli())
	if err := s.words.Put(w); err != nil {
		return nil, err
	}
	s.notify()
	return w, nil
}

func (s *Service) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
