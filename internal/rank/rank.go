package rank

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"pollpulse/internal/model"
)

// Weights are the scoring constants. Relative ordering intent: a candidate
// name in the title dominates a summary-only mention, negative coverage
// draws slightly more attention than positive, title keyword hits beat
// summary hits.
type Weights struct {
	CandidateTitle    int
	CandidateSummary  int
	SentimentPositive int
	SentimentNegative int
	KeywordTitle      int
	KeywordSummary    int
	HeadlineBand      int
	Recency           int
	HeadlineMinRunes  int
	HeadlineMaxRunes  int
}

func DefaultWeights() Weights {
	return Weights{
		CandidateTitle:    15,
		CandidateSummary:  8,
		SentimentPositive: 10,
		SentimentNegative: 12,
		KeywordTitle:      8,
		KeywordSummary:    4,
		HeadlineBand:      5,
		Recency:           5,
		HeadlineMinRunes:  10,
		HeadlineMaxRunes:  50,
	}
}

// Ranker orders processed articles by heuristic importance.
type Ranker struct {
	weights    Weights
	candidates []string
	keywords   []string
	now        func() time.Time
}

func New(candidates, keywords []string, weights Weights) *Ranker {
	return &Ranker{
		weights:    weights,
		candidates: candidates,
		keywords:   keywords,
		now:        time.Now,
	}
}

// Rank scores every article once, then returns at most limit articles in
// descending score order. Ties keep original order, so the result is
// deterministic for fixed inputs.
func (r *Ranker) Rank(articles []model.ProcessedArticle, limit int) []model.ProcessedArticle {
	ranked := make([]model.ProcessedArticle, len(articles))
	copy(ranked, articles)

	for i := range ranked {
		ranked[i].ImportanceScore = r.score(ranked[i])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ImportanceScore > ranked[j].ImportanceScore
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (r *Ranker) score(a model.ProcessedArticle) int {
	title := strings.ToLower(a.Title)
	summary := strings.ToLower(a.Summary)
	score := 0

	for _, candidate := range r.candidates {
		name := strings.ToLower(candidate)
		switch {
		case strings.Contains(title, name):
			score += r.weights.CandidateTitle
		case strings.Contains(summary, name):
			score += r.weights.CandidateSummary
		}
	}

	switch a.Sentiment {
	case model.SentimentPositive:
		score += r.weights.SentimentPositive
	case model.SentimentNegative:
		score += r.weights.SentimentNegative
	}

	for _, keyword := range r.keywords {
		kw := strings.ToLower(keyword)
		if strings.Contains(title, kw) {
			score += r.weights.KeywordTitle
		}
		if strings.Contains(summary, kw) {
			score += r.weights.KeywordSummary
		}
	}

	titleLen := utf8.RuneCountInString(a.Title)
	if titleLen >= r.weights.HeadlineMinRunes && titleLen <= r.weights.HeadlineMaxRunes {
		score += r.weights.HeadlineBand
	}

	if publishedInYear(a.PublishedDate, r.now().Year()) {
		score += r.weights.Recency
	}

	return score
}

var publishedLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// publishedInYear checks whether the provider-supplied date text falls in
// the reporting year. Providers disagree on formats, so an unparseable
// date is matched on the year substring as a last resort.
func publishedInYear(published string, year int) bool {
	published = strings.TrimSpace(published)
	if published == "" {
		return false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, published); err == nil {
			return t.Year() == year
		}
	}
	return strings.Contains(published, strconv.Itoa(year))
}
