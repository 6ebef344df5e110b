package report

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"pollpulse/internal/model"
)

// PostgresStore is the record-backed report store. Schema:
//
//	CREATE TABLE trend_report (
//	    id              BIGSERIAL PRIMARY KEY,
//	    trend_summary   TEXT NOT NULL,
//	    candidate_stats JSONB NOT NULL,
//	    total_articles  INT NOT NULL,
//	    time_range      TEXT NOT NULL,
//	    news_list       JSONB NOT NULL,
//	    status          TEXT NOT NULL,
//	    generated_at    TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(report *model.TrendReport) error {
	stats, err := json.Marshal(report.CandidateStats)
	if err != nil {
		return fmt.Errorf("marshaling candidate stats: %w", err)
	}
	newsList, err := json.Marshal(report.NewsList)
	if err != nil {
		return fmt.Errorf("marshaling news list: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO trend_report(trend_summary, candidate_stats, total_articles, time_range, news_list, status, generated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)
	`, report.TrendSummary, stats, report.TotalArticles, report.TimeRange, newsList, report.Status, report.GeneratedAt)
	return err
}

func (s *PostgresStore) Latest() (*model.TrendReport, error) {
	var r model.TrendReport
	var stats, newsList []byte

	err := s.db.QueryRow(`
		SELECT trend_summary, candidate_stats, total_articles, time_range, news_list, status, generated_at
		FROM trend_report
		ORDER BY generated_at DESC
		LIMIT 1
	`).Scan(&r.TrendSummary, &stats, &r.TotalArticles, &r.TimeRange, &newsList, &r.Status, &r.GeneratedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(stats, &r.CandidateStats); err != nil {
		return nil, fmt.Errorf("decoding candidate stats: %w", err)
	}
	if err := json.Unmarshal(newsList, &r.NewsList); err != nil {
		return nil, fmt.Errorf("decoding news list: %w", err)
	}
	return &r, nil
}
