package ledger

import (
	"context"
	"time"

	"github.com/example/moodtracker/pkg/models"
)

// Status is what the home page shows. TodayMood is only meaningful when
// EntryExists is set.
type Status struct {
	Mood        models.Mood `json:"mood"`
	Today       string      `json:"today"`
	EntryExists bool        `json:"entry_exists"`
	TodayMood   models.Mood `json:"today_mood"`
}

// Stats summarizes a window of recent records
type Stats struct {
	Days          int    `json:"days"`
	Motivated     int    `json:"motivated"`
	Unmotivated   int    `json:"unmotivated"`
	CurrentStreak int    `json:"current_streak"`
	LatestDay     string `json:"latest_day,omitempty"`
}

// Status returns the latest mood and whether today has been recorded
func (l *Ledger) Status(ctx context.Context) (Status, error) {
	mood, err := l.GetLatestMood(ctx)
	if err != nil {
		return Status{}, err
	}

	status := Status{Mood: mood, Today: l.Today()}
	record, err := l.store.GetByDay(ctx, status.Today)
	if err != nil {
		return Status{}, &StorageError{Op: "get today", Err: err}
	}
	if record != nil {
		status.EntryExists = true
		status.TodayMood = record.Mood
	}
	return status, nil
}

// History returns up to limit records, newest day first
func (l *Ledger) History(ctx context.Context, limit int) ([]models.MoodRecord, error) {
	records, err := l.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, &StorageError{Op: "list history", Err: err}
	}
	return records, nil
}

// Stats counts moods over the newest limit days. CurrentStreak is the number
// of consecutive calendar days of Motivated ending at the newest record.
func (l *Ledger) Stats(ctx context.Context, limit int) (Stats, error) {
	records, err := l.History(ctx, limit)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	stats.Days = len(records)
	for _, r := range records {
		if r.Mood == models.Motivated {
			stats.Motivated++
		} else {
			stats.Unmotivated++
		}
	}
	if len(records) == 0 {
		return stats, nil
	}

	stats.LatestDay = records[0].Day
	var expected time.Time
	for i, r := range records {
		day, err := models.ParseDay(r.Day)
		if err != nil || r.Mood != models.Motivated {
			break
		}
		if i > 0 && !day.Equal(expected) {
			break
		}
		stats.CurrentStreak++
		expected = day.AddDate(0, 0, -1)
	}
	return stats, nil
}
