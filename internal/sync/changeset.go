package sync

import "github.com/example/vocabsync/pkg/models"

// ChangeSet is the set of locally modified entities eligible for upload.
type ChangeSet struct {
	Words   []*models.WordEntry
	Reviews []*models.ReviewState
}

// Empty reports whether there is nothing to push.
func (cs ChangeSet) Empty() bool {
	return len(cs.Words) == 0 && len(cs.Reviews) == 0
}

// SelectChanges picks the entities modified after the watermark. A zero
// watermark means this device has never synced, so everything is selected
// for a full initial upload.
//
// The two entity types carry different modification signals: words use
// UpdatedAt, review states use the ReviewedAt of their last history entry.
// A review state with an empty history has never been reviewed and is never
// selected past the initial sync. The boundary is exclusive: an entity whose
// signal equals the watermark has already been pushed.
func SelectChanges(words []*models.WordEntry, reviews []*models.ReviewState, watermark int64) ChangeSet {
	var cs ChangeSet
	if watermark == 0 {
		cs.Words = append(cs.Words, words...)
		cs.Reviews = append(cs.Reviews, reviews...)
		return cs
	}

	for _, w := range words {
		if w.UpdatedAt > watermark {
			cs.Words = append(cs.Words, w)
		}
	}
	for _, r := range reviews {
		if last := r.LastReviewedAt(); last > watermark {
			cs.Reviews = append(cs.Reviews, r)
		}
	}
	return cs
}
