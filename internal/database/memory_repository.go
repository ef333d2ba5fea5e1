package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/moodtracker/pkg/models"
)

// MemoryRepository keeps mood records in process memory. Records are lost on
// restart.
type MemoryRepository struct {
	mu      sync.Mutex
	records []models.MoodRecord
	nextID  int64
}

// NewMemoryRepository creates an empty in-memory store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) Latest(ctx context.Context) (*models.MoodRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.records) == 0 {
		return nil, nil
	}
	for i := len(r.records) - 1; i >= 0; i-- {
		if !r.records[i].Backfilled {
			record := r.records[i]
			return &record, nil
		}
	}
	record := r.records[len(r.records)-1]
	return &record, nil
}

func (r *MemoryRepository) GetByDay(ctx context.Context, day string) (*models.MoodRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(day); i >= 0 {
		record := r.records[i]
		return &record, nil
	}
	return nil, nil
}

func (r *MemoryRepository) ExistsForDay(ctx context.Context, day string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.indexOf(day) >= 0, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, day string, mood models.Mood) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(day); i >= 0 {
		r.records[i].Mood = mood
		r.records[i].Backfilled = false
		r.records[i].UpdatedAt = time.Now().UTC()
		return nil
	}
	r.insert(day, mood, false)
	return nil
}

func (r *MemoryRepository) InsertIfAbsent(ctx context.Context, day string, mood models.Mood) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(day) >= 0 {
		return false, nil
	}
	r.insert(day, mood, true)
	return true, nil
}

func (r *MemoryRepository) ListRecent(ctx context.Context, limit int) ([]models.MoodRecord, error) {
	r.mu.Lock()
	records := make([]models.MoodRecord, len(r.records))
	copy(records, r.records)
	r.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Day > records[j].Day
	})
	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// insert appends a record; records stay ordered by id. Caller holds mu.
func (r *MemoryRepository) insert(day string, mood models.Mood, backfilled bool) {
	now := time.Now().UTC()
	r.records = append(r.records, models.MoodRecord{
		ID:         r.nextID,
		Mood:       mood,
		Day:        day,
		Backfilled: backfilled,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	r.nextID++
}

func (r *MemoryRepository) indexOf(day string) int {
	for i := range r.records {
		if r.records[i].Day == day {
			return i
		}
	}
	return -1
}
