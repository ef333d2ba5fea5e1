// Package ledger owns reading, setting and backfilling the daily mood.
// Every calendar day has at most one record.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/example/moodtracker/pkg/models"
	"go.uber.org/zap"
)

// Store is the persistence the ledger needs
type Store interface {
	Latest(ctx context.Context) (*models.MoodRecord, error)
	ExistsForDay(ctx context.Context, day string) (bool, error)
	GetByDay(ctx context.Context, day string) (*models.MoodRecord, error)
	Upsert(ctx context.Context, day string, mood models.Mood) error
	InsertIfAbsent(ctx context.Context, day string, mood models.Mood) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]models.MoodRecord, error)
}

// StorageError wraps a failure of the underlying store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Ledger maintains one mood record per day on top of a Store
type Ledger struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLocation sets the timezone that decides where a day starts
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) { l.loc = loc }
}

// New creates a ledger over store
func New(store Store, logger *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: logger,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Today returns the current calendar day
func (l *Ledger) Today() string {
	return models.DayOf(l.now().In(l.loc))
}

// Yesterday returns the calendar day before Today
func (l *Ledger) Yesterday() string {
	return models.DayOf(l.now().In(l.loc).AddDate(0, 0, -1))
}

// GetLatestMood returns the mood of the most recently created record the
// user set; a backfill never hides a newer user action. An empty store yields
// the default mood.
func (l *Ledger) GetLatestMood(ctx context.Context) (models.Mood, error) {
	record, err := l.store.Latest(ctx)
	if err != nil {
		return models.DefaultMood, &StorageError{Op: "get latest mood", Err: err}
	}
	if record == nil {
		return models.DefaultMood, nil
	}
	return record.Mood, nil
}

// HasRecordForDay reports whether day has a record
func (l *Ledger) HasRecordForDay(ctx context.Context, day string) (bool, error) {
	if _, err := models.ParseDay(day); err != nil {
		return false, err
	}
	exists, err := l.store.ExistsForDay(ctx, day)
	if err != nil {
		return false, &StorageError{Op: "check day", Err: err}
	}
	return exists, nil
}

// SetMood records mood for day, overwriting an existing record in place
func (l *Ledger) SetMood(ctx context.Context, day string, mood models.Mood) error {
	if err := validate(day, mood); err != nil {
		return err
	}
	if err := l.store.Upsert(ctx, day, mood); err != nil {
		return &StorageError{Op: "set mood", Err: err}
	}

	l.logger.Info("Mood set", zap.String("day", day), zap.Stringer("mood", mood))
	return nil
}

// BackfillDay records mood for day only if day has no record yet.
// It reports whether a record was created.
func (l *Ledger) BackfillDay(ctx context.Context, day string, mood models.Mood) (bool, error) {
	if err := validate(day, mood); err != nil {
		return false, err
	}
	created, err := l.store.InsertIfAbsent(ctx, day, mood)
	if err != nil {
		return false, &StorageError{Op: "backfill", Err: err}
	}

	if created {
		l.logger.Info("Backfilled missing day", zap.String("day", day), zap.Stringer("mood", mood))
	} else {
		l.logger.Info("Day already recorded, skipping backfill", zap.String("day", day))
	}
	return created, nil
}

func validate(day string, mood models.Mood) error {
	if _, err := models.ParseDay(day); err != nil {
		return err
	}
	if !mood.Valid() {
		return &models.ValidationError{Field: "mood", Value: fmt.Sprint(int(mood))}
	}
	return nil
}
