package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/moodtracker/pkg/models"
	"github.com/jmoiron/sqlx"
)

// MoodRepository handles database operations for mood records
type MoodRepository struct {
	db *sqlx.DB
}

// NewMoodRepository creates a new repository instance
func NewMoodRepository(db *sqlx.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

const moodColumns = "id, mood, day, backfilled, created_at, updated_at"

// Latest returns the most recently created record the user set. Backfilled
// records only count when nothing else exists. nil means the table is empty.
func (r *MoodRepository) Latest(ctx context.Context) (*models.MoodRecord, error) {
	query := "SELECT " + moodColumns + " FROM moods ORDER BY backfilled ASC, id DESC LIMIT 1"

	var record models.MoodRecord
	err := r.db.GetContext(ctx, &record, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest mood: %w", err)
	}
	return &record, nil
}

// ExistsForDay reports whether day already has a record
func (r *MoodRepository) ExistsForDay(ctx context.Context, day string) (bool, error) {
	query := r.db.Rebind("SELECT COUNT(*) FROM moods WHERE day = ?")

	var count int
	if err := r.db.GetContext(ctx, &count, query, day); err != nil {
		return false, fmt.Errorf("failed to check mood for %s: %w", day, err)
	}
	return count > 0, nil
}

// GetByDay returns the record for day, or nil if there is none
func (r *MoodRepository) GetByDay(ctx context.Context, day string) (*models.MoodRecord, error) {
	query := r.db.Rebind("SELECT " + moodColumns + " FROM moods WHERE day = ?")

	var record models.MoodRecord
	err := r.db.GetContext(ctx, &record, query, day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mood for %s: %w", day, err)
	}
	return &record, nil
}

// Upsert inserts a record for day or overwrites the mood of the existing one.
// An updated record keeps its id and is no longer marked backfilled.
func (r *MoodRepository) Upsert(ctx context.Context, day string, mood models.Mood) error {
	query := r.db.Rebind(`
		INSERT INTO moods (mood, day, backfilled) VALUES (?, ?, FALSE)
		ON CONFLICT (day) DO UPDATE SET
			mood = excluded.mood,
			backfilled = FALSE,
			updated_at = CURRENT_TIMESTAMP
	`)
	if _, err := r.db.ExecContext(ctx, query, mood, day); err != nil {
		return fmt.Errorf("failed to upsert mood for %s: %w", day, err)
	}
	return nil
}

// InsertIfAbsent creates a backfilled record for day unless one exists.
// It reports whether a row was created.
func (r *MoodRepository) InsertIfAbsent(ctx context.Context, day string, mood models.Mood) (bool, error) {
	query := r.db.Rebind(`
		INSERT INTO moods (mood, day, backfilled) VALUES (?, ?, TRUE)
		ON CONFLICT (day) DO NOTHING
	`)
	result, err := r.db.ExecContext(ctx, query, mood, day)
	if err != nil {
		return false, fmt.Errorf("failed to insert mood for %s: %w", day, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListRecent returns up to limit records, newest day first
func (r *MoodRepository) ListRecent(ctx context.Context, limit int) ([]models.MoodRecord, error) {
	query := r.db.Rebind("SELECT " + moodColumns + " FROM moods ORDER BY day DESC LIMIT ?")

	records := []models.MoodRecord{}
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list moods: %w", err)
	}
	return records, nil
}
