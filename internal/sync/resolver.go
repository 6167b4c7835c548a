package sync

import (
	"github.com/example/vocabsync/pkg/models"
)

// MergeAction is the outcome of merging one remote entity against the
// local copy.
type MergeAction int

const (
	// MergeSkip means the local copy is same-or-newer and wins silently.
	MergeSkip MergeAction = iota
	// MergeInsert means the entity was absent locally and was inserted.
	MergeInsert
	// MergeUpdate means the remote copy replaced the local one in full.
	MergeUpdate
)

func (a MergeAction) String() string {
	switch a {
	case MergeInsert:
		return "insert"
	case MergeUpdate:
		return "update"
	default:
		return "skip"
	}
}

// Resolver merges remote entities into the local stores using whole-entity
// last-writer-wins. There is no field-level merging: the copy with the later
// modification signal replaces the other completely.
type Resolver struct {
	words   WordStore
	reviews ReviewStore
}

// NewResolver creates a resolver over the given local stores.
func NewResolver(words WordStore, reviews ReviewStore) *Resolver {
	return &Resolver{words: words, reviews: reviews}
}

// MergeWord applies one remote word entry to the local store.
func (r *Resolver) MergeWord(remote *models.WordEntry) (MergeAction, error) {
	local, err := r.words.Get(remote.ID)
	if err != nil {
		return MergeSkip, err
	}

	action := decideWord(local, remote)
	switch action {
	case MergeInsert:
		return action, r.words.Add(remote)
	case MergeUpdate:
		return action, r.words.Put(remote)
	default:
		return MergeSkip, nil
	}
}

// decideWord is the pure merge decision for word entries.
//
// Tombstones take precedence over content updates: once a side carries a
// deletion marker, content edits on the other side never resurrect the
// entry through sync. Between two tombstones the newer one wins. For live
// entries it is plain last-writer-wins on UpdatedAt, exclusive on ties.
func decideWord(local, remote *models.WordEntry) MergeAction {
	if local == nil {
		return MergeInsert
	}

	if remote.Deleted() {
		if !local.Deleted() {
			return MergeUpdate
		}
		if remote.DeletedAt > local.DeletedAt {
			return MergeUpdate
		}
		return MergeSkip
	}

	if local.Deleted() {
		return MergeSkip
	}
	if remote.UpdatedAt > local.UpdatedAt {
		return MergeUpdate
	}
	return MergeSkip
}

// MergeReview applies one remote review state to the local store.
func (r *Resolver) MergeReview(remote *models.ReviewState) (MergeAction, error) {
	local, err := r.reviews.Get(remote.WordID)
	if err != nil {
		return MergeSkip, err
	}

	action := decideReview(local, remote)
	switch action {
	case MergeInsert:
		return action, r.reviews.Add(remote)
	case MergeUpdate:
		return action, r.reviews.Put(remote)
	default:
		return MergeSkip, nil
	}
}

// decideReview compares the ReviewedAt of each side's last history entry.
// The whole object follows the winner, history included: review events
// recorded on the losing side are discarded. That is last-writer-wins at
// object granularity, not history-entry granularity.
func decideReview(local, remote *models.ReviewState) MergeAction {
	if local == nil {
		return MergeInsert
	}

	remoteLast := remote.LastReviewedAt()
	localLast := local.LastReviewedAt()

	if remoteLast == 0 {
		return MergeSkip
	}
	if localLast == 0 {
		// Remote has been reviewed, local never was.
		return MergeUpdate
	}
	if remoteLast > localLast {
		return MergeUpdate
	}
	return MergeSkip
}
