package analyzer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pollpulse/internal/cache"
	"pollpulse/internal/model"
	"pollpulse/pkg/llm"
)

type Config struct {
	// DailyLimit caps external analysis calls per calendar day.
	DailyLimit int
	// MinContentLen is the combined title+description length (in runes)
	// below which a trivial deterministic result is synthesized without
	// consuming quota.
	MinContentLen int
	// MaxAttempts bounds retries of a single external call.
	MaxAttempts uint64
	// MaxElapsed bounds the cumulative backoff time of a single call.
	MaxElapsed time.Duration
	// InitialInterval is the first backoff delay between retries.
	InitialInterval time.Duration
	// SummaryMaxLen is the truncation length of fallback summaries.
	SummaryMaxLen int

	PositiveWords []string
	NegativeWords []string
}

func (c *Config) applyDefaults() {
	if c.DailyLimit <= 0 {
		c.DailyLimit = 100
	}
	if c.MinContentLen <= 0 {
		c.MinContentLen = 20
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.MaxElapsed <= 0 {
		c.MaxElapsed = 30 * time.Second
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = backoff.DefaultInitialInterval
	}
	if c.SummaryMaxLen <= 0 {
		c.SummaryMaxLen = 200
	}
}

// Usage is a snapshot of the daily quota counter.
type Usage struct {
	Calls      int    `json:"calls"`
	DailyLimit int    `json:"daily_limit"`
	ResetDate  string `json:"reset_date"`
}

// Analyzer wraps an llm.Client with cache lookup, a daily call quota,
// exponential backoff retry and a deterministic rule-based fallback. Its
// methods never fail: every error path degrades to a fallback value.
type Analyzer struct {
	llm   llm.Client
	cache cache.Store
	cfg   Config
	now   func() time.Time

	mu        sync.Mutex
	callCount int
	resetDate string
}

func New(client llm.Client, store cache.Store, cfg Config) *Analyzer {
	cfg.applyDefaults()
	return &Analyzer{
		llm:   client,
		cache: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Summarize returns a 2-3 sentence summary for the article, from cache
// when fresh, otherwise from the external service, otherwise truncated
// from the description.
func (a *Analyzer) Summarize(ctx context.Context, articleID, title, description string) string {
	if result, ok := a.cache.Get(articleID, cache.KindSummary); ok {
		return result
	}

	if tooShort(title, description, a.cfg.MinContentLen) {
		result := truncate(description, a.cfg.SummaryMaxLen)
		a.cache.Put(articleID, cache.KindSummary, result)
		return result
	}

	if !a.tryConsumeQuota() {
		slog.Info("daily analysis quota reached, summarizing by truncation", "article_id", articleID)
		return truncate(description, a.cfg.SummaryMaxLen)
	}

	result, err := a.call(ctx, func() (string, error) {
		return a.llm.Summarize(ctx, title, description)
	})
	if err != nil || result == "" {
		slog.Error("summarize failed, falling back to truncation", "article_id", articleID, "error", err)
		return truncate(description, a.cfg.SummaryMaxLen)
	}

	a.cache.Put(articleID, cache.KindSummary, result)
	return result
}

// Sentiment classifies the article as positive, negative or neutral. A
// response outside that domain, a failed call and an exhausted quota all
// degrade to the keyword-based fallback.
func (a *Analyzer) Sentiment(ctx context.Context, articleID, title, description string) model.Sentiment {
	if result, ok := a.cache.Get(articleID, cache.KindSentiment); ok {
		if s, valid := model.ParseSentiment(result); valid {
			return s
		}
	}

	if tooShort(title, description, a.cfg.MinContentLen) {
		a.cache.Put(articleID, cache.KindSentiment, string(model.SentimentNeutral))
		return model.SentimentNeutral
	}

	if !a.tryConsumeQuota() {
		slog.Info("daily analysis quota reached, using keyword sentiment", "article_id", articleID)
		return a.keywordSentiment(title, description)
	}

	label, err := a.call(ctx, func() (string, error) {
		return a.llm.Sentiment(ctx, title, description)
	})
	if err != nil {
		slog.Error("sentiment analysis failed, using keyword sentiment", "article_id", articleID, "error", err)
		return a.keywordSentiment(title, description)
	}

	sentiment, valid := model.ParseSentiment(label)
	if !valid {
		slog.Warn("sentiment label outside expected domain, using keyword sentiment", "article_id", articleID, "label", label)
		return a.keywordSentiment(title, description)
	}

	a.cache.Put(articleID, cache.KindSentiment, string(sentiment))
	return sentiment
}

// Usage reports the current quota state.
func (a *Analyzer) Usage() Usage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Usage{Calls: a.callCount, DailyLimit: a.cfg.DailyLimit, ResetDate: a.resetDate}
}

// tryConsumeQuota reserves one external call, resetting the counter when
// the wall-clock date has advanced. One pipeline-level call consumes one
// unit regardless of how many retries it takes.
func (a *Analyzer) tryConsumeQuota() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	today := a.now().Format("2006-01-02")
	if today != a.resetDate {
		a.resetDate = today
		a.callCount = 0
	}

	if a.callCount >= a.cfg.DailyLimit {
		return false
	}
	a.callCount++
	return true
}

// call runs op with exponential backoff on transient failures, bounded by
// both an attempt count and a maximum cumulative elapsed time. Fatal
// failures abort immediately.
func (a *Analyzer) call(ctx context.Context, op func() (string, error)) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.cfg.InitialInterval
	bo.MaxElapsedTime = a.cfg.MaxElapsed

	var result string
	err := backoff.Retry(func() error {
		r, err := op()
		if err != nil {
			if llm.IsTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = r
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, a.cfg.MaxAttempts-1), ctx))

	return result, err
}
