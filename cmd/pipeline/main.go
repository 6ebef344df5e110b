package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"pollpulse/db"
	"pollpulse/internal/analyzer"
	"pollpulse/internal/cache"
	"pollpulse/internal/config"
	"pollpulse/internal/pipeline"
	"pollpulse/internal/rank"
	"pollpulse/internal/report"
	"pollpulse/internal/trend"
	"pollpulse/pkg/llm"
	"pollpulse/pkg/news"
)

// One-shot pipeline run for external schedulers like cron. The serving
// process stays untouched; it picks up the new report from the shared
// store on its next read.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	// a one-shot invocation is always allowed to run
	cfg.Pipeline.Mode = string(pipeline.ModeSchedule)

	searchClient, err := newSearchClient(cfg.News)
	if err != nil {
		log.Fatalf("error creating news client: %v", err)
	}

	llmClient, err := newLLMClient(cfg.Analyzer)
	if err != nil {
		log.Fatalf("error creating llm client: %v", err)
	}

	var cacheStore cache.Store
	if cfg.Cache.Backend == "redis" {
		if err := db.ConnectRedis(); err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()
		cacheStore = cache.NewRedisStore(db.Redis, cfg.Cache.TTL.Std())
	} else {
		cacheStore, err = cache.NewFileStore(cfg.Cache.Dir, cfg.Cache.TTL.Std())
		if err != nil {
			log.Fatalf("error creating cache: %v", err)
		}
	}

	var reportStore report.Store
	if cfg.Report.Backend == "postgres" {
		if err := db.Connect(); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()
		reportStore = report.NewPostgresStore(db.DB)
	} else {
		reportStore, err = report.NewFileStore(cfg.Report.Dir)
		if err != nil {
			log.Fatalf("error creating report store: %v", err)
		}
	}

	an := analyzer.New(llmClient, cacheStore, analyzer.Config{
		DailyLimit:    cfg.Analyzer.DailyLimit,
		MaxAttempts:   uint64(cfg.Analyzer.MaxAttempts),
		MaxElapsed:    cfg.Analyzer.MaxElapsed.Std(),
		SummaryMaxLen: cfg.Analyzer.SummaryMaxLen,
		PositiveWords: cfg.Analyzer.PositiveWords,
		NegativeWords: cfg.Analyzer.NegativeWords,
	})

	ranker := rank.New(cfg.Trend.Candidates, cfg.Trend.Keywords, rank.DefaultWeights())

	agg := trend.New(llmClient, ranker, trend.Config{
		BatchSize:   cfg.Trend.BatchSize,
		MaxBatches:  cfg.Trend.MaxBatches,
		MinArticles: cfg.Trend.MinArticles,
		TopLimit:    cfg.Trend.TopLimit,
		Candidates:  cfg.Trend.Candidates,
	})

	pipe := pipeline.New(
		news.NewCollector(searchClient, cfg.News.MaxResults),
		an, agg, reportStore,
		pipeline.Config{
			Mode:        pipeline.ModeSchedule,
			Queries:     cfg.News.Queries,
			RunTimeout:  cfg.Pipeline.RunTimeout.Std(),
			Concurrency: cfg.Pipeline.Concurrency,
		})

	if err := pipe.Run(context.Background()); err != nil {
		log.Fatalf("pipeline run failed: %v", err)
	}
}

func newSearchClient(cfg config.NewsConfig) (news.SearchClient, error) {
	switch cfg.Provider {
	case "googlerss":
		return news.NewGoogleRSSClient(cfg.Lang, cfg.Country), nil
	case "gnews":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GNEWS_API_KEY environment variable is not set")
		}
		return news.NewGNewsClient(cfg.APIKey, cfg.Lang, cfg.Country), nil
	default:
		return nil, fmt.Errorf("unknown news provider %q", cfg.Provider)
	}
}

func newLLMClient(cfg config.AnalyzerConfig) (llm.Client, error) {
	switch cfg.Provider {
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		return llm.NewAnthropicClient(key, cfg.Model), nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return llm.NewOpenAIClient(key, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
