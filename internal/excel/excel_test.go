package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/moodtracker/internal/database"
	"github.com/example/moodtracker/internal/ledger"
	"github.com/example/moodtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestWriteHistory(t *testing.T) {
	records := []models.MoodRecord{
		{ID: 2, Mood: models.Motivated, Day: "2024-03-10", UpdatedAt: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
		{ID: 1, Mood: models.Unmotivated, Day: "2024-03-09"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Day", "Mood", "Value", "Updated"}, rows[0])
	assert.Equal(t, []string{"2024-03-10", "Motivated", "1", "2024-03-10 09:00:00"}, rows[1])
	assert.Equal(t, []string{"2024-03-09", "Unmotivated", "0"}, rows[2])
}

func newLedger() *ledger.Ledger {
	return ledger.New(database.NewMemoryRepository(), zap.NewNop(), ledger.WithLocation(time.UTC))
}

func TestImportHistory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "moods.xlsx")

	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, []models.MoodRecord{
		{Mood: models.Motivated, Day: "2024-03-10"},
		{Mood: models.Unmotivated, Day: "2024-03-09"},
	}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	l := newLedger()
	result, err := ImportHistory(ctx, DefaultImportConfig(path), l)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)

	records, err := l.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.Motivated, records[0].Mood)
}

func TestImportHistory_CSV(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "moods.csv")
	content := "day,mood\n2024-03-01,1\n2024-03-02, unmotivated\n\n2024-03-03,7\nnot-a-day,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l := newLedger()
	result, err := ImportHistory(ctx, DefaultImportConfig(path), l)
	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalProcessed)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 2)

	records, err := l.History(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestImportHistory_MissingFile(t *testing.T) {
	_, err := ImportHistory(context.Background(), DefaultImportConfig("nope.xlsx"), newLedger())
	assert.Error(t, err)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 1, columnToIndex("b"))
	assert.Equal(t, 26, columnToIndex("AA"))
}
