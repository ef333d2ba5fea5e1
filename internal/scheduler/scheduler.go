package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/example/moodtracker/pkg/models"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Job tags
const (
	BackfillTag = "backfill"
	ReminderTag = "reminder"
)

// Ledger is the part of the mood ledger the jobs use
type Ledger interface {
	Today() string
	Yesterday() string
	HasRecordForDay(ctx context.Context, day string) (bool, error)
	BackfillDay(ctx context.Context, day string, mood models.Mood) (bool, error)
}

// Notifier interface for sending reminders
type Notifier interface {
	SendReminder(ctx context.Context, day string) error
}

// Config sets the wall-clock times of the daily jobs ("HH:MM")
type Config struct {
	Location   *time.Location
	BackfillAt string
	ReminderAt string
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	ledger    Ledger
	notifier  Notifier
	logger    *zap.Logger
	config    Config
}

// New creates a new scheduler instance. notifier may be nil, in which case
// no reminder job is registered.
func New(cfg Config, ledger Ledger, notifier Notifier, logger *zap.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	s := gocron.NewScheduler(cfg.Location)
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
		ledger:    ledger,
		notifier:  notifier,
		logger:    logger,
		config:    cfg,
	}
}

// Start registers the daily jobs and runs the scheduler in the background
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(1).Day().At(s.config.BackfillAt).Tag(BackfillTag).Do(func() {
		s.RunBackfill(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backfill job: %w", err)
	}

	if s.notifier != nil {
		_, err = s.scheduler.Every(1).Day().At(s.config.ReminderAt).Tag(ReminderTag).Do(func() {
			s.RunReminder(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule reminder job: %w", err)
		}
	}

	s.scheduler.StartAsync()
	s.logger.Info("Scheduler started",
		zap.String("backfill_at", s.config.BackfillAt),
		zap.Bool("reminders", s.notifier != nil),
		zap.String("location", s.config.Location.String()),
	)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Tags lists the tags of registered jobs
func (s *Scheduler) Tags() []string {
	var tags []string
	for _, job := range s.scheduler.Jobs() {
		tags = append(tags, job.Tags()...)
	}
	return tags
}

// RunBackfill records the default mood for yesterday if it was never set.
// Failures are logged; the next tick tries again.
func (s *Scheduler) RunBackfill(ctx context.Context) {
	day := s.ledger.Yesterday()

	created, err := s.ledger.BackfillDay(ctx, day, models.DefaultMood)
	if err != nil {
		s.logger.Error("Backfill failed", zap.String("day", day), zap.Error(err))
		return
	}
	s.logger.Debug("Backfill finished", zap.String("day", day), zap.Bool("created", created))
}

// RunReminder sends a reminder when today has no mood yet
func (s *Scheduler) RunReminder(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	day := s.ledger.Today()

	exists, err := s.ledger.HasRecordForDay(ctx, day)
	if err != nil {
		s.logger.Error("Error checking today's mood", zap.String("day", day), zap.Error(err))
		return
	}
	if exists {
		s.logger.Debug("Mood already set, skipping reminder", zap.String("day", day))
		return
	}

	if err := s.notifier.SendReminder(ctx, day); err != nil {
		s.logger.Error("Error sending reminder", zap.String("day", day), zap.Error(err))
	}
}
