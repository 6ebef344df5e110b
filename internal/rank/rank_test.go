package rank

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"pollpulse/internal/model"
)

var (
	testCandidates = []string{"Kim", "Lee"}
	testKeywords   = []string{"election", "poll"}
)

func newTestRanker() *Ranker {
	r := New(testCandidates, testKeywords, DefaultWeights())
	r.now = func() time.Time { return time.Date(2026, 5, 26, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestRank_TitleMentionOutranksSummaryMention(t *testing.T) {
	r := newTestRanker()
	articles := []model.ProcessedArticle{
		{Title: "Campaign schedules announced", Summary: "Kim visited the region today.", URL: "u1"},
		{Title: "Kim campaign schedule announced", Summary: "A visit to the region today.", URL: "u2"},
	}

	ranked := r.Rank(articles, 0)

	assert.Equal(t, "u2", ranked[0].URL)
	assert.Equal(t, "u1", ranked[1].URL)
	// 15 vs 8 for the candidate mention itself
	assert.Equal(t, true, ranked[0].ImportanceScore > ranked[1].ImportanceScore)
}

func TestRank_Deterministic(t *testing.T) {
	r := newTestRanker()
	articles := []model.ProcessedArticle{
		{Title: "Kim leads election poll", Summary: "poll results", Sentiment: model.SentimentPositive, URL: "u1"},
		{Title: "Lee disputes election result", Summary: "Kim responded", Sentiment: model.SentimentNegative, URL: "u2"},
		{Title: "Turnout expected to rise", Summary: "", Sentiment: model.SentimentNeutral, URL: "u3"},
	}

	first := r.Rank(articles, 0)
	second := r.Rank(articles, 0)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].URL, second[i].URL)
		assert.Equal(t, first[i].ImportanceScore, second[i].ImportanceScore)
	}
}

func TestRank_TiesKeepOriginalOrder(t *testing.T) {
	r := newTestRanker()
	articles := []model.ProcessedArticle{
		{Title: "Morning briefing for the day", URL: "u1"},
		{Title: "Evening briefing for the day", URL: "u2"},
	}

	ranked := r.Rank(articles, 0)

	assert.Equal(t, ranked[0].ImportanceScore, ranked[1].ImportanceScore)
	assert.Equal(t, "u1", ranked[0].URL)
	assert.Equal(t, "u2", ranked[1].URL)
}

func TestRank_NegativeOutscoresPositive(t *testing.T) {
	r := newTestRanker()
	articles := []model.ProcessedArticle{
		{Title: "Supporters rally in the capital", Sentiment: model.SentimentPositive, URL: "u1"},
		{Title: "Supporters clash in the capital", Sentiment: model.SentimentNegative, URL: "u2"},
	}

	ranked := r.Rank(articles, 0)

	assert.Equal(t, "u2", ranked[0].URL)
}

func TestRank_LimitBoundsResult(t *testing.T) {
	r := newTestRanker()
	articles := []model.ProcessedArticle{
		{Title: "Kim leads election poll", URL: "u1"},
		{Title: "Lee trails in election poll", URL: "u2"},
		{Title: "Turnout projections released", URL: "u3"},
	}

	ranked := r.Rank(articles, 2)

	assert.Equal(t, 2, len(ranked))
	// input is untouched
	assert.Equal(t, 0, articles[0].ImportanceScore)
}

func TestRank_RecencyBonus(t *testing.T) {
	r := newTestRanker()
	current := model.ProcessedArticle{Title: "Turnout projections released", PublishedDate: "2026-05-25T10:00:00Z", URL: "u1"}
	stale := model.ProcessedArticle{Title: "Turnout projections released", PublishedDate: "2025-05-25T10:00:00Z", URL: "u2"}

	ranked := r.Rank([]model.ProcessedArticle{stale, current}, 0)

	assert.Equal(t, "u1", ranked[0].URL)
	assert.Equal(t, 5, ranked[0].ImportanceScore-ranked[1].ImportanceScore)
}

func TestPublishedInYear(t *testing.T) {
	tests := []struct {
		published string
		want      bool
	}{
		{"2026-05-26T09:00:00Z", true},
		{"Mon, 25 May 2026 10:00:00 GMT", true},
		{"2025-12-31", false},
		{"collected 2026-05-26", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := publishedInYear(tt.published, 2026); got != tt.want {
			t.Errorf("publishedInYear(%q) = %v, want %v", tt.published, got, tt.want)
		}
	}
}
