// Package scheduler sends periodic reminders when reviews are due.
package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
)

// Default notification window (local hours).
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Notifier sends a due-review reminder.
type Notifier interface {
	SendReminder(count int) error
}

// DueCounter reports how many words are currently due for review.
type DueCounter interface {
	DueCount() (int, error)
}

// Scheduler checks hourly for due reviews and pings the notifier inside
// the configured notification window.
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	due       DueCounter
	logger    *log.Logger
}

// New creates a new scheduler instance.
func New(due DueCounter, notifier Notifier, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(os.Stderr, "[reminder] ", log.LstdFlags)
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		due:       due,
		logger:    logger,
	}
}

// Start begins running the hourly reminder check.
func (s *Scheduler) Start() {
	if _, err := s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder); err != nil {
		s.logger.Printf("failed to schedule reminder check: %v", err)
		return
	}
	s.scheduler.StartAsync()
}

// Stop terminates the scheduled checks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) checkAndSendReminder() {
	currentHour := time.Now().Hour()
	startHour := envHour("NOTIFICATION_START_HOUR", DefaultNotificationStartHour)
	endHour := envHour("NOTIFICATION_END_HOUR", DefaultNotificationEndHour)

	if currentHour < startHour || currentHour > endHour {
		return
	}

	count, err := s.due.DueCount()
	if err != nil {
		s.logger.Printf("failed to count due words: %v", err)
		return
	}
	if count == 0 {
		return
	}

	if err := s.notifier.SendReminder(count); err != nil {
		s.logger.Printf("failed to send reminder: %v", err)
	}
}

func envHour(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			return h
		}
	}
	return fallback
}
