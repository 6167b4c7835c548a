package sync

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync/atomic"
	"time"
)

// Config configures the sync engine.
type Config struct {
	// RetryAttempts is how many times each phase of Sync is tried before
	// giving up. Push and Pull called directly are not retried.
	RetryAttempts int
	// RetryBaseDelay is the wait before the second attempt; it doubles on
	// every further attempt.
	RetryBaseDelay time.Duration
	// OnSyncComplete, when set, is invoked after a pull that actually
	// applied at least one entity. Entities received but rejected by
	// conflict resolution do not count.
	OnSyncComplete func(applied SyncedCounts)
	// Logger receives per-entity merge failures and watermark updates.
	// Defaults to a stderr logger when nil.
	Logger *log.Logger
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		RetryAttempts:  3,
		RetryBaseDelay: 500 * time.Millisecond,
	}
}

// Engine orchestrates push and pull against the remote sync endpoints.
//
// All three public operations share a single-flight guard: invoking one
// while another is unresolved fails immediately with ErrSyncInProgress
// instead of queuing. That keeps pushes from being double-counted and
// watermark updates from racing. The watermark and clock offset are only
// written after the owning operation fully succeeds.
type Engine struct {
	words    WordStore
	reviews  ReviewStore
	cursor   CursorStore
	auth     Authenticator
	remote   Remote
	resolver *Resolver
	clock    *ClockReconciler
	cfg      *Config
	logger   *log.Logger

	deviceID  string
	watermark atomic.Int64
	inFlight  atomic.Bool
}

// NewEngine builds an engine over the given collaborators and restores the
// persisted cursor (watermark, clock offset, device ID).
func NewEngine(words WordStore, reviews ReviewStore, cursor CursorStore, auth Authenticator, remote Remote, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}

	cur, err := cursor.LoadCursor()
	if err != nil {
		return nil, fmt.Errorf("failed to load sync cursor: %v", err)
	}

	e := &Engine{
		words:    words,
		reviews:  reviews,
		cursor:   cursor,
		auth:     auth,
		remote:   remote,
		resolver: NewResolver(words, reviews),
		clock:    NewClockReconciler(cur.ClockOffset, cursor, logger),
		cfg:      cfg,
		logger:   logger,
		deviceID: cur.DeviceID,
	}
	e.watermark.Store(cur.LastSyncedAt)
	return e, nil
}

// LastSyncedAt returns the current watermark in Unix milliseconds.
func (e *Engine) LastSyncedAt() int64 {
	return e.watermark.Load()
}

// Clock exposes the reconciler so local writes can be stamped with the
// estimated server time.
func (e *Engine) Clock() *ClockReconciler {
	return e.clock
}

// Push uploads the local change set. It fails fast with ErrSyncInProgress
// when another operation holds the single-flight guard and with
// ErrNotAuthenticated when no user or token is available. The watermark is
// advanced only after the server acknowledged the batch; on failure it is
// untouched, so a retry resends the same change set. Resending is harmless
// because the server applies entities last-writer-wins.
func (e *Engine) Push(ctx context.Context) (*PushResult, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer e.inFlight.Store(false)
	return e.push(ctx)
}

func (e *Engine) push(ctx context.Context) (*PushResult, error) {
	token, err := e.token()
	if err != nil {
		return nil, err
	}

	words, err := e.words.All()
	if err != nil {
		return nil, fmt.Errorf("failed to scan words: %v", err)
	}
	reviews, err := e.reviews.All()
	if err != nil {
		return nil, fmt.Errorf("failed to scan reviews: %v", err)
	}

	cs := SelectChanges(words, reviews, e.watermark.Load())
	req := &PushRequest{
		Words:     cs.Words,
		Reviews:   cs.Reviews,
		DeviceID:  e.deviceID,
		Timestamp: e.clock.ServerNow(time.Now()),
	}

	resp, err := e.remote.Push(ctx, token, req)
	if err != nil {
		return nil, err
	}

	e.clock.Observe(resp.Timestamp, time.Now().UnixMilli())
	e.advanceWatermark(resp.Timestamp)
	e.logger.Printf("pushed %d words, %d reviews", resp.Synced.Words, resp.Synced.Reviews)

	return &PushResult{Synced: resp.Synced, Timestamp: resp.Timestamp}, nil
}

// Pull downloads remote changes since the watermark and merges each entity
// through the conflict resolver. A malformed or unmergeable record is
// logged and skipped; it never aborts the rest of the batch. The watermark
// advances only when at least one entity was received, so an empty remote
// does not stamp the window forward.
func (e *Engine) Pull(ctx context.Context) (*PullResult, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer e.inFlight.Store(false)
	return e.pull(ctx)
}

func (e *Engine) pull(ctx context.Context) (*PullResult, error) {
	token, err := e.token()
	if err != nil {
		return nil, err
	}

	resp, err := e.remote.Pull(ctx, token, e.watermark.Load())
	if err != nil {
		return nil, err
	}

	var applied SyncedCounts
	for _, w := range resp.Data.Words {
		action, err := e.resolver.MergeWord(w)
		if err != nil {
			e.logger.Printf("failed to merge word %s: %v", w.ID, err)
			continue
		}
		if action == MergeSkip {
			e.logger.Printf("skipped remote word %s: local copy wins", w.ID)
			continue
		}
		applied.Words++
	}
	for _, r := range resp.Data.Reviews {
		action, err := e.resolver.MergeReview(r)
		if err != nil {
			e.logger.Printf("failed to merge review %s: %v", r.WordID, err)
			continue
		}
		if action == MergeSkip {
			e.logger.Printf("skipped remote review %s: local copy wins", r.WordID)
			continue
		}
		applied.Reviews++
	}

	received := len(resp.Data.Words) + len(resp.Data.Reviews)
	e.clock.Observe(resp.Timestamp, time.Now().UnixMilli())
	if received > 0 {
		e.advanceWatermark(resp.Timestamp)
	}

	if applied.Total() > 0 {
		e.logger.Printf("applied %d words, %d reviews from remote", applied.Words, applied.Reviews)
		if e.cfg.OnSyncComplete != nil {
			e.cfg.OnSyncComplete(applied)
		}
	}

	return &PullResult{Applied: applied, Received: received, Timestamp: resp.Timestamp}, nil
}

// Sync runs a full round: pull first, then push. Pulling before pushing
// means an edit from another device is observed before this device's
// changes are computed, which narrows the window for spurious overwrites.
// Each phase is retried with exponential backoff; when a phase exhausts its
// attempts Sync returns a RetryError naming the phase, together with
// whatever partial result was already achieved.
func (e *Engine) Sync(ctx context.Context) (*SyncResult, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer e.inFlight.Store(false)

	result := &SyncResult{}

	err := e.withRetry(ctx, "pull", func() error {
		res, err := e.pull(ctx)
		if err == nil {
			result.Pull = res
		}
		return err
	})
	if err != nil {
		return result, err
	}

	err = e.withRetry(ctx, "push", func() error {
		res, err := e.push(ctx)
		if err == nil {
			result.Push = res
		}
		return err
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// withRetry runs fn up to RetryAttempts times, doubling the delay between
// attempts. The policy is deliberately uniform: even errors that will never
// succeed on retry, like a rejected token, exhaust their attempts.
func (e *Engine) withRetry(ctx context.Context, phase string, fn func() error) error {
	attempts := e.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := e.cfg.RetryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		e.logger.Printf("%s attempt %d/%d failed: %v", phase, attempt, attempts, lastErr)
		select {
		case <-ctx.Done():
			return &RetryError{Phase: phase, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(delay):
		}
		delay *= 2
	}
	return &RetryError{Phase: phase, Attempts: attempts, Err: lastErr}
}

// token resolves the bearer token, treating a missing user and a missing
// token identically.
func (e *Engine) token() (string, error) {
	if e.auth.CurrentUser() == nil {
		return "", ErrNotAuthenticated
	}
	token := e.auth.AccessToken()
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (e *Engine) advanceWatermark(ts int64) {
	e.watermark.Store(ts)
	if err := e.cursor.SaveLastSyncedAt(ts); err != nil {
		e.logger.Printf("failed to persist watermark: %v", err)
	}
}
