package scheduler

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"testing"
	"time"
)

type stubCounter struct {
	count int
	err   error
}

func (c *stubCounter) DueCount() (int, error) { return c.count, c.err }

type recordingNotifier struct {
	counts []int
	err    error
}

func (n *recordingNotifier) SendReminder(count int) error {
	n.counts = append(n.counts, count)
	return n.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// openWindow makes the notification window cover the whole day; closedWindow
// excludes the current hour.
func openWindow(t *testing.T) {
	t.Setenv("NOTIFICATION_START_HOUR", "0")
	t.Setenv("NOTIFICATION_END_HOUR", "23")
}

func closedWindow(t *testing.T) {
	h := time.Now().Hour()
	if h == 0 {
		t.Setenv("NOTIFICATION_START_HOUR", "1")
		t.Setenv("NOTIFICATION_END_HOUR", "23")
		return
	}
	t.Setenv("NOTIFICATION_START_HOUR", "0")
	t.Setenv("NOTIFICATION_END_HOUR", strconv.Itoa(h-1))
}

func TestReminderSentWhenWordsAreDue(t *testing.T) {
	openWindow(t)
	notifier := &recordingNotifier{}
	s := New(&stubCounter{count: 7}, notifier, quietLogger())

	s.checkAndSendReminder()

	if len(notifier.counts) != 1 || notifier.counts[0] != 7 {
		t.Errorf("reminders = %v, want one with count 7", notifier.counts)
	}
}

func TestNoReminderWhenNothingIsDue(t *testing.T) {
	openWindow(t)
	notifier := &recordingNotifier{}
	s := New(&stubCounter{count: 0}, notifier, quietLogger())

	s.checkAndSendReminder()

	if len(notifier.counts) != 0 {
		t.Errorf("reminder sent with nothing due: %v", notifier.counts)
	}
}

func TestNoReminderOutsideWindow(t *testing.T) {
	closedWindow(t)
	notifier := &recordingNotifier{}
	s := New(&stubCounter{count: 5}, notifier, quietLogger())

	s.checkAndSendReminder()

	if len(notifier.counts) != 0 {
		t.Errorf("reminder sent outside the window: %v", notifier.counts)
	}
}

func TestCounterFailureSuppressesReminder(t *testing.T) {
	openWindow(t)
	notifier := &recordingNotifier{}
	s := New(&stubCounter{err: fmt.Errorf("database closed")}, notifier, quietLogger())

	s.checkAndSendReminder()

	if len(notifier.counts) != 0 {
		t.Errorf("reminder sent despite counter failure: %v", notifier.counts)
	}
}

func TestEnvHourFallsBackOnGarbage(t *testing.T) {
	t.Setenv("NOTIFICATION_START_HOUR", "not-a-number")
	if got := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour); got != DefaultNotificationStartHour {
		t.Errorf("envHour = %d, want default %d", got, DefaultNotificationStartHour)
	}

	t.Setenv("NOTIFICATION_START_HOUR", "25")
	if got := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour); got != DefaultNotificationStartHour {
		t.Errorf("envHour = %d for out-of-range value, want default", got)
	}
}
