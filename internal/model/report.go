package model

import "time"

// SentimentTally counts articles mentioning a candidate, bucketed by the
// sentiment of the mentioning article.
type SentimentTally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

func (t *SentimentTally) Add(s Sentiment) {
	switch s {
	case SentimentPositive:
		t.Positive++
	case SentimentNegative:
		t.Negative++
	default:
		t.Neutral++
	}
}

func (t *SentimentTally) Total() int {
	return t.Positive + t.Negative + t.Neutral
}

// CandidateStats maps a tracked candidate name to its sentiment tally.
type CandidateStats map[string]*SentimentTally

// NewCandidateStats returns zeroed tallies for every tracked name, so the
// persisted artifact always carries all candidates even with no mentions.
func NewCandidateStats(names []string) CandidateStats {
	stats := make(CandidateStats, len(names))
	for _, name := range names {
		stats[name] = &SentimentTally{}
	}
	return stats
}

type ReportStatus string

const (
	StatusOK         ReportStatus = "ok"
	StatusEmpty      ReportStatus = "empty"
	StatusDegraded   ReportStatus = "degraded"
	StatusError      ReportStatus = "error"
	StatusCollecting ReportStatus = "collecting"
)

// TrendReport is the single durable artifact of a pipeline run.
type TrendReport struct {
	TrendSummary   string             `json:"trend_summary"`
	CandidateStats CandidateStats     `json:"candidate_stats"`
	TotalArticles  int                `json:"total_articles"`
	TimeRange      string             `json:"time_range"`
	NewsList       []ProcessedArticle `json:"news_list"`
	Status         ReportStatus       `json:"status"`
	GeneratedAt    time.Time          `json:"generated_at"`
}
