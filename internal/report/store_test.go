package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"pollpulse/internal/model"
)

func newTestFileStore(t *testing.T) (*FileStore, *time.Time) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	now := time.Date(2026, 5, 26, 13, 3, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func sampleReport(summary string) *model.TrendReport {
	return &model.TrendReport{
		TrendSummary:   summary,
		CandidateStats: model.NewCandidateStats([]string{"Kim"}),
		TotalArticles:  3,
		TimeRange:      "2026-05-26",
		NewsList:       []model.ProcessedArticle{{Title: "t", URL: "u1", Sentiment: model.SentimentNeutral}},
		Status:         model.StatusOK,
	}
}

func TestFileStore_SaveAndLatest(t *testing.T) {
	store, _ := newTestFileStore(t)

	err := store.Save(sampleReport("first run"))
	assert.Equal(t, nil, err)

	got, err := store.Latest()
	assert.Equal(t, nil, err)
	assert.Equal(t, "first run", got.TrendSummary)
	assert.Equal(t, 3, got.TotalArticles)
	assert.Equal(t, 1, len(got.NewsList))
}

func TestFileStore_LatestAliasTracksNewestSave(t *testing.T) {
	store, now := newTestFileStore(t)

	assert.Equal(t, nil, store.Save(sampleReport("first run")))
	*now = now.Add(time.Minute)
	assert.Equal(t, nil, store.Save(sampleReport("second run")))

	got, err := store.Latest()
	assert.Equal(t, nil, err)
	assert.Equal(t, "second run", got.TrendSummary)
}

func TestFileStore_LatestFallsBackToTimestampScan(t *testing.T) {
	store, now := newTestFileStore(t)

	assert.Equal(t, nil, store.Save(sampleReport("older")))
	*now = now.Add(time.Minute)
	assert.Equal(t, nil, store.Save(sampleReport("newer")))

	// simulate a lost alias
	assert.Equal(t, nil, os.Remove(filepath.Join(store.dir, latestFilename)))

	got, err := store.Latest()
	assert.Equal(t, nil, err)
	assert.Equal(t, "newer", got.TrendSummary)
}

func TestFileStore_LatestNilWhenEmpty(t *testing.T) {
	store, _ := newTestFileStore(t)

	got, err := store.Latest()
	assert.Equal(t, nil, err)
	assert.Equal(t, true, got == nil)
}

func TestFileStore_TimestampedFilesAccumulate(t *testing.T) {
	store, now := newTestFileStore(t)

	assert.Equal(t, nil, store.Save(sampleReport("first run")))
	*now = now.Add(time.Minute)
	assert.Equal(t, nil, store.Save(sampleReport("second run")))

	entries, err := os.ReadDir(store.dir)
	assert.Equal(t, nil, err)
	// two timestamped files plus the alias
	assert.Equal(t, 3, len(entries))
}
