package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/moodtracker/internal/database"
	"github.com/example/moodtracker/internal/ledger"
	"github.com/example/moodtracker/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, *ledger.Ledger, *database.MemoryRepository) {
	t.Helper()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store := database.NewMemoryRepository()
	l := ledger.New(store, zap.NewNop(),
		ledger.WithClock(func() time.Time { return now }),
		ledger.WithLocation(time.UTC),
	)
	s := New(Config{Mode: gin.TestMode, HistoryLimit: 30}, l, zap.NewNop())
	return s, l, store
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestSetMoodThenIndex(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Unmotivated</h1>")
	assert.Contains(t, rec.Body.String(), "No mood recorded for today yet.")

	rec = do(t, s, http.MethodPost, "/api/1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Motivated": true}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Motivated</h1>")
	assert.Contains(t, rec.Body.String(), "Today: 2024-03-10")
	assert.Contains(t, rec.Body.String(), "Today's mood is recorded.")

	rec = do(t, s, http.MethodGet, "/api")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Motivated": true}`, rec.Body.String())
}

func TestSetMood_InvalidValue(t *testing.T) {
	s, _, store := newTestServer(t)

	for _, value := range []string{"7", "-1", "motivated", "01x", "%201", "1%20"} {
		rec := do(t, s, http.MethodPost, "/api/"+value)
		assert.Equal(t, http.StatusBadRequest, rec.Code, value)
		assert.JSONEq(t, `{"error": false}`, rec.Body.String())
	}

	records, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBackfillDoesNotReplaceLatestMood(t *testing.T) {
	s, l, _ := newTestServer(t)
	ctx := context.Background()

	rec := do(t, s, http.MethodPost, "/api/1")
	require.Equal(t, http.StatusOK, rec.Code)

	created, err := l.BackfillDay(ctx, l.Yesterday(), models.Unmotivated)
	require.NoError(t, err)
	require.True(t, created)

	rec = do(t, s, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Motivated</h1>")
	assert.Contains(t, rec.Body.String(), "Today's mood is recorded.")

	rec = do(t, s, http.MethodGet, "/api")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Motivated": true}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	s, _, _ := newTestServer(t)

	id := "3f1c2a9e-6f4b-4d2e-9a55-0c8f7f0f6b1d"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	for _, bad := range []string{"<script>alert(1)</script>", strings.Repeat("a", 500)} {
		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(requestIDHeader, bad)
		rec = httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		got := rec.Header().Get(requestIDHeader)
		assert.NotEqual(t, bad, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	}
}

func TestSetMood_TwiceKeepsOneRecord(t *testing.T) {
	s, _, store := newTestServer(t)

	do(t, s, http.MethodPost, "/api/1")
	rec := do(t, s, http.MethodPost, "/api/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Unmotivated": true}`, rec.Body.String())

	records, err := store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.Unmotivated, records[0].Mood)
}

func TestHistoryAndStats(t *testing.T) {
	s, l, _ := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, l.SetMood(ctx, "2024-03-09", models.Motivated))
	require.NoError(t, l.SetMood(ctx, "2024-03-10", models.Motivated))
	_, err := l.BackfillDay(ctx, "2024-03-08", models.Unmotivated)
	require.NoError(t, err)

	rec := do(t, s, http.MethodGet, "/api/history?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []struct {
		Day  string `json:"day"`
		Mood string `json:"mood"`
	}
	decode(t, rec, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-03-10", history[0].Day)
	assert.Equal(t, "Motivated", history[0].Mood)

	rec = do(t, s, http.MethodGet, "/api/history?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats ledger.Stats
	decode(t, rec, &stats)
	assert.Equal(t, 3, stats.Days)
	assert.Equal(t, 2, stats.Motivated)
	assert.Equal(t, 2, stats.CurrentStreak)
}

func TestExport(t *testing.T) {
	s, l, _ := newTestServer(t)
	require.NoError(t, l.SetMood(context.Background(), "2024-03-10", models.Motivated))

	rec := do(t, s, http.MethodGet, "/api/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "moods.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

// brokenService fails every storage call
type brokenService struct {
	*ledger.Ledger
}

var errDown = &ledger.StorageError{Op: "test", Err: errors.New("unable to open database file")}

func (brokenService) Status(context.Context) (ledger.Status, error)    { return ledger.Status{}, errDown }
func (brokenService) GetLatestMood(context.Context) (models.Mood, error) { return 0, errDown }
func (brokenService) SetMood(context.Context, string, models.Mood) error { return errDown }
func (brokenService) History(context.Context, int) ([]models.MoodRecord, error) {
	return nil, errDown
}
func (brokenService) Stats(context.Context, int) (ledger.Stats, error) { return ledger.Stats{}, errDown }

func TestStorageFailuresReturn500(t *testing.T) {
	_, l, _ := newTestServer(t)
	s := New(Config{Mode: gin.TestMode, HistoryLimit: 30}, brokenService{l}, zap.NewNop())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/api"},
		{http.MethodPost, "/api/1"},
		{http.MethodGet, "/api/history"},
		{http.MethodGet, "/api/stats"},
		{http.MethodGet, "/api/export.xlsx"},
	}
	for _, tt := range tests {
		rec := do(t, s, tt.method, tt.path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, tt.path)
	}

	rec := do(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
}
