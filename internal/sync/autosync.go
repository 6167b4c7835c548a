package sync

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	// DefaultSyncInterval is the periodic trigger interval.
	DefaultSyncInterval = 5 * time.Minute
	// DefaultDebounceDelay is how long local writes must stay quiet before
	// a debounced sync fires.
	DefaultDebounceDelay = 3 * time.Second
)

// AutoSync drives the engine from two triggers: a fixed periodic timer and
// a debounced local-write notification that coalesces bursts of edits into
// one sync round. Both triggers go through the engine's single-flight
// guard, so overlapping fires collapse into "already in progress".
//
// Failures are logged, never propagated: a missed background sync is
// recovered by the next trigger.
type AutoSync struct {
	syncer   Syncer
	interval time.Duration
	debounce time.Duration
	logger   *log.Logger

	mu        sync.Mutex
	scheduler *gocron.Scheduler
	timer     *time.Timer
	stopped   bool
}

// NewAutoSync creates the trigger layer around a sync engine. Non-positive
// durations fall back to the defaults.
func NewAutoSync(syncer Syncer, interval, debounce time.Duration, logger *log.Logger) *AutoSync {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[autosync] ", log.LstdFlags)
	}
	return &AutoSync{
		syncer:   syncer,
		interval: interval,
		debounce: debounce,
		logger:   logger,
	}
}

// Start launches the periodic trigger. Calling Start while already running
// is a no-op.
func (a *AutoSync) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = false
	if a.scheduler != nil {
		return
	}

	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(a.interval).Do(a.run); err != nil {
		a.logger.Printf("failed to schedule periodic sync: %v", err)
		return
	}
	s.StartAsync()
	a.scheduler = s
}

// Stop cancels the periodic trigger and any pending debounced fire. It is
// safe to call when not running, and Start may be called again afterwards.
func (a *AutoSync) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Notify records a local write. The debounce timer restarts on every call;
// a sync fires only once writes stop arriving for the debounce duration.
// After Stop, notifications are dropped until Start runs again.
func (a *AutoSync) Notify() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, a.run)
}

func (a *AutoSync) run() {
	if _, err := a.syncer.Sync(context.Background()); err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			a.logger.Printf("sync already running, skipping trigger")
			return
		}
		a.logger.Printf("background sync failed: %v", err)
	}
}
