package sync

import (
	"log"
	"sync/atomic"
	"time"
)

// offsetJitterMillis is how far a freshly observed offset must drift from
// the current estimate before we bother updating it. Normal network jitter
// moves the observation by well under a second on every round trip; writing
// each wobble to disk would churn the cursor store for nothing.
const offsetJitterMillis = 1000

// ClockReconciler maintains the estimated offset between the local clock
// and the server clock, so outgoing writes can be timestamped consistently
// with server time: serverTime ≈ localTime + offset.
type ClockReconciler struct {
	offset atomic.Int64 // milliseconds, server minus local
	store  CursorStore
	logger *log.Logger
}

// NewClockReconciler starts from a previously persisted offset. store may
// be nil, in which case offset changes are kept in memory only.
func NewClockReconciler(initial int64, store CursorStore, logger *log.Logger) *ClockReconciler {
	c := &ClockReconciler{store: store, logger: logger}
	c.offset.Store(initial)
	return c
}

// Observe records a server timestamp and the local time it was received at.
// The stored offset is only replaced when the new estimate differs by more
// than the jitter threshold. Persistence failures are tolerated: the offset
// simply stays stale until the next observation.
func (c *ClockReconciler) Observe(serverTimestamp, localAtReceipt int64) {
	newOffset := serverTimestamp - localAtReceipt
	current := c.offset.Load()

	diff := newOffset - current
	if diff < 0 {
		diff = -diff
	}
	if diff <= offsetJitterMillis {
		return
	}

	c.offset.Store(newOffset)
	if c.store != nil {
		if err := c.store.SaveClockOffset(newOffset); err != nil && c.logger != nil {
			c.logger.Printf("failed to persist clock offset: %v", err)
		}
	}
}

// Offset returns the current estimate in milliseconds.
func (c *ClockReconciler) Offset() int64 {
	return c.offset.Load()
}

// ServerNow returns the estimated server time for the given local time,
// in Unix milliseconds.
func (c *ClockReconciler) ServerNow(local time.Time) int64 {
	return local.UnixMilli() + c.offset.Load()
}
