package sync

import (
	"context"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"
)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (s *countingSyncer) Sync(context.Context) (*SyncResult, error) {
	s.calls.Add(1)
	return &SyncResult{}, s.err
}

func waitForCalls(t *testing.T, s *countingSyncer, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.calls.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("syncer reached %d calls, want at least %d", s.calls.Load(), want)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestNotifyDebouncesBursts(t *testing.T) {
	syncer := &countingSyncer{}
	a := NewAutoSync(syncer, time.Hour, 40*time.Millisecond, quietLogger())
	defer a.Stop()

	// A burst of writes inside the debounce window collapses into one sync.
	for i := 0; i < 5; i++ {
		a.Notify()
		time.Sleep(10 * time.Millisecond)
	}
	waitForCalls(t, syncer, 1)

	time.Sleep(100 * time.Millisecond)
	if got := syncer.calls.Load(); got != 1 {
		t.Errorf("burst of 5 writes produced %d syncs, want 1", got)
	}

	// A fresh write after the quiet period fires again.
	a.Notify()
	waitForCalls(t, syncer, 2)
}

func TestStopCancelsPendingDebounce(t *testing.T) {
	syncer := &countingSyncer{}
	a := NewAutoSync(syncer, time.Hour, 30*time.Millisecond, quietLogger())

	a.Notify()
	a.Stop()

	time.Sleep(80 * time.Millisecond)
	if got := syncer.calls.Load(); got != 0 {
		t.Errorf("stopped trigger still fired %d syncs", got)
	}
}

func TestNotifyAfterStopIsDropped(t *testing.T) {
	syncer := &countingSyncer{}
	a := NewAutoSync(syncer, time.Hour, 10*time.Millisecond, quietLogger())

	a.Stop()
	a.Notify()

	time.Sleep(50 * time.Millisecond)
	if got := syncer.calls.Load(); got != 0 {
		t.Errorf("write after Stop still fired %d syncs", got)
	}

	// Start re-enables the debounce trigger.
	a.Start()
	defer a.Stop()
	a.Notify()
	waitForCalls(t, syncer, 1)
}

func TestPeriodicTrigger(t *testing.T) {
	syncer := &countingSyncer{}
	a := NewAutoSync(syncer, 30*time.Millisecond, time.Hour, quietLogger())

	a.Start()
	defer a.Stop()

	waitForCalls(t, syncer, 1)
}

func TestStartIsIdempotent(t *testing.T) {
	syncer := &countingSyncer{}
	a := NewAutoSync(syncer, time.Hour, time.Hour, quietLogger())
	defer a.Stop()

	a.Start()
	a.Start()
	a.Start()
	// A single scheduler means Stop fully tears the trigger down.
	a.Stop()
	a.Start()
	a.Stop()

	if got := syncer.calls.Load(); got != 0 {
		t.Errorf("hour-long interval fired %d times during the test", got)
	}
}

func TestBusyEngineSkipsTrigger(t *testing.T) {
	syncer := &countingSyncer{err: ErrSyncInProgress}
	a := NewAutoSync(syncer, time.Hour, 10*time.Millisecond, quietLogger())
	defer a.Stop()

	a.Notify()
	waitForCalls(t, syncer, 1)
	// The skipped trigger is not retried; no second call shows up.
	time.Sleep(50 * time.Millisecond)
	if got := syncer.calls.Load(); got != 1 {
		t.Errorf("busy trigger was retried: %d calls", got)
	}
}
