package trend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pollpulse/internal/model"
	"pollpulse/internal/rank"
	"pollpulse/pkg/llm"
)

type Config struct {
	// BatchSize articles per map-step batch.
	BatchSize int
	// MaxBatches caps how many batches get an analyzer call, bounding
	// the cost of one aggregation pass.
	MaxBatches int
	// MinArticles below which batching is skipped entirely.
	MinArticles int
	// TopLimit bounds the ranked article list in the report.
	TopLimit int

	Candidates []string
}

func (c *Config) applyDefaults() {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxBatches <= 0 {
		c.MaxBatches = 5
	}
	if c.MinArticles <= 0 {
		c.MinArticles = 10
	}
	if c.TopLimit <= 0 {
		c.TopLimit = 30
	}
}

// Aggregator turns a set of processed articles into a TrendReport:
// per-candidate sentiment tallies, a batched map-reduce narrative, and the
// ranked article list.
type Aggregator struct {
	llm    llm.Client
	ranker *rank.Ranker
	cfg    Config
}

func New(client llm.Client, ranker *rank.Ranker, cfg Config) *Aggregator {
	cfg.applyDefaults()
	return &Aggregator{llm: client, ranker: ranker, cfg: cfg}
}

// Aggregate never fails: analyzer errors degrade individual narratives,
// and the degenerate inputs produce explicit placeholder reports with no
// analyzer calls.
func (g *Aggregator) Aggregate(ctx context.Context, articles []model.ProcessedArticle, timeRange string) model.TrendReport {
	report := model.TrendReport{
		CandidateStats: g.candidateStats(articles),
		TotalArticles:  len(articles),
		TimeRange:      timeRange,
		NewsList:       []model.ProcessedArticle{},
		Status:         model.StatusOK,
	}

	if len(articles) == 0 {
		report.TrendSummary = "No articles were collected for this period; insufficient data for trend analysis."
		report.Status = model.StatusEmpty
		return report
	}

	report.NewsList = g.ranker.Rank(articles, g.cfg.TopLimit)

	if len(articles) < g.cfg.MinArticles {
		report.TrendSummary = fmt.Sprintf("Only %d articles were collected for %s; more data is needed for a reliable trend analysis.", len(articles), timeRange)
		return report
	}

	batchSummaries := g.mapBatches(ctx, articles)
	report.TrendSummary = g.reduce(ctx, batchSummaries, len(articles), timeRange)
	return report
}

// candidateStats tallies, for every tracked candidate, the articles that
// mention the name in title or summary, bucketed by article sentiment.
func (g *Aggregator) candidateStats(articles []model.ProcessedArticle) model.CandidateStats {
	stats := model.NewCandidateStats(g.cfg.Candidates)
	for _, a := range articles {
		title := strings.ToLower(a.Title)
		summary := strings.ToLower(a.Summary)
		for _, candidate := range g.cfg.Candidates {
			name := strings.ToLower(candidate)
			if strings.Contains(title, name) || strings.Contains(summary, name) {
				stats[candidate].Add(a.Sentiment)
			}
		}
	}
	return stats
}

func (g *Aggregator) mapBatches(ctx context.Context, articles []model.ProcessedArticle) []string {
	batches := partition(articles, g.cfg.BatchSize)

	var summaries []string
	for i, batch := range batches {
		if len(summaries) >= g.cfg.MaxBatches {
			slog.Info("batch cap reached, skipping remaining batches", "processed", len(summaries), "total", len(batches))
			break
		}

		items := make([]llm.BatchItem, len(batch))
		for j, a := range batch {
			items[j] = llm.BatchItem{Title: a.Title, Sentiment: string(a.Sentiment)}
		}

		narrative, err := g.llm.BatchNarrative(ctx, items, i+1, len(batches))
		if err != nil || narrative == "" {
			slog.Error("batch narrative failed, using placeholder", "batch", i+1, "error", err)
			narrative = fmt.Sprintf("Batch %d: %d articles were collected and analyzed.", i+1, len(batch))
		}
		summaries = append(summaries, narrative)
	}
	return summaries
}

func (g *Aggregator) reduce(ctx context.Context, batchSummaries []string, total int, timeRange string) string {
	narrative, err := g.llm.ReduceNarrative(ctx, batchSummaries, timeRange)
	if err != nil || narrative == "" {
		slog.Error("trend reduce failed, using placeholder", "error", err)
		return fmt.Sprintf("Analyzed %d election news articles for %s.", total, timeRange)
	}
	return narrative
}

// partition splits articles into ceil(len/size) consecutive batches; the
// union of the batches is exactly the input.
func partition(articles []model.ProcessedArticle, size int) [][]model.ProcessedArticle {
	var batches [][]model.ProcessedArticle
	for start := 0; start < len(articles); start += size {
		end := start + size
		if end > len(articles) {
			end = len(articles)
		}
		batches = append(batches, articles[start:end])
	}
	return batches
}
