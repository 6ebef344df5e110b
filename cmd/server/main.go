package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"pollpulse/db"
	"pollpulse/internal/analyzer"
	"pollpulse/internal/cache"
	"pollpulse/internal/config"
	"pollpulse/internal/handler"
	"pollpulse/internal/pipeline"
	"pollpulse/internal/rank"
	"pollpulse/internal/report"
	"pollpulse/internal/trend"
	"pollpulse/pkg/llm"
	"pollpulse/pkg/news"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	pipe, cleanup, err := buildPipeline(cfg)
	if err != nil {
		log.Fatalf("error wiring pipeline: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pipeline.NewTrigger(pipe).Start(ctx)

	h := handler.NewReportHandler(pipe, pipe, cfg.Trend.Candidates)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.Server.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.Server.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/news", h.GetNews)
	r.GET("/status", h.GetStatus)
	r.GET("/prediction", h.GetPrediction)
	r.POST("/refresh", h.Refresh)
	r.GET("/health", h.Health)

	err = r.Run(":" + cfg.Server.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func buildPipeline(cfg config.Config) (*pipeline.Pipeline, func(), error) {
	cleanup := func() {}

	searchClient, err := newSearchClient(cfg.News)
	if err != nil {
		return nil, cleanup, err
	}

	llmClient, err := newLLMClient(cfg.Analyzer)
	if err != nil {
		return nil, cleanup, err
	}

	var cacheStore cache.Store
	switch cfg.Cache.Backend {
	case "redis":
		if err := db.ConnectRedis(); err != nil {
			return nil, cleanup, fmt.Errorf("connecting to Redis: %w", err)
		}
		cleanup = db.CloseRedis
		cacheStore = cache.NewRedisStore(db.Redis, cfg.Cache.TTL.Std())
	default:
		cacheStore, err = cache.NewFileStore(cfg.Cache.Dir, cfg.Cache.TTL.Std())
		if err != nil {
			return nil, cleanup, err
		}
	}

	var reportStore report.Store
	switch cfg.Report.Backend {
	case "postgres":
		if err := db.Connect(); err != nil {
			return nil, cleanup, fmt.Errorf("connecting to DB: %w", err)
		}
		prev := cleanup
		cleanup = func() { db.Close(); prev() }
		reportStore = report.NewPostgresStore(db.DB)
	default:
		reportStore, err = report.NewFileStore(cfg.Report.Dir)
		if err != nil {
			return nil, cleanup, err
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

	collector := news.NewCollector(searchClient, cfg.News.MaxResults)

	pipe := pipeline.New(collector, an, agg, reportStore, pipeline.Config{
		Mode:        pipeline.Mode(cfg.Pipeline.Mode),
		Queries:     cfg.News.Queries,
		RunTimeout:  cfg.Pipeline.RunTimeout.Std(),
		Concurrency: cfg.Pipeline.Concurrency,
	})
	return pipe, cleanup, nil
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
