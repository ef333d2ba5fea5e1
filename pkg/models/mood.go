package models

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the calendar date format used for MoodRecord.Day
const DayLayout = "2006-01-02"

// Mood is the binary daily status
type Mood int

const (
	Unmotivated Mood = 0
	Motivated   Mood = 1
)

// DefaultMood is used when nothing has been recorded yet and for backfills
const DefaultMood = Unmotivated

// MoodRecord is one stored mood entry, at most one per day.
// Backfilled records were written by the daily job, not by the user.
type MoodRecord struct {
	ID         int64     `json:"id" db:"id"`
	Mood       Mood      `json:"mood" db:"mood"`
	Day        string    `json:"day" db:"day"`
	Backfilled bool      `json:"backfilled" db:"backfilled"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ValidationError reports a value rejected at an input boundary
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// Valid reports whether m is one of the known moods
func (m Mood) Valid() bool {
	return m == Unmotivated || m == Motivated
}

func (m Mood) String() string {
	switch m {
	case Motivated:
		return "Motivated"
	case Unmotivated:
		return "Unmotivated"
	default:
		return fmt.Sprintf("Mood(%d)", int(m))
	}
}

// MarshalText encodes the mood by name
func (m Mood) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &ValidationError{Field: "mood", Value: fmt.Sprint(int(m))}
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts a mood name or its numeric value
func (m *Mood) UnmarshalText(text []byte) error {
	parsed, err := ParseMoodName(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMood parses the wire encoding {0: Unmotivated, 1: Motivated}.
// Anything but exactly "0" or "1" is rejected.
func ParseMood(value string) (Mood, error) {
	switch value {
	case "0":
		return Unmotivated, nil
	case "1":
		return Motivated, nil
	}
	return 0, &ValidationError{Field: "mood", Value: value}
}

// ParseMoodName parses a mood name case-insensitively, falling back to ParseMood
func ParseMoodName(value string) (Mood, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "motivated":
		return Motivated, nil
	case "unmotivated":
		return Unmotivated, nil
	}
	return ParseMood(value)
}

// DayOf formats t as a calendar day in t's location
func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay validates a YYYY-MM-DD day string
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "day", Value: day}
	}
	return t, nil
}
