package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses human-readable values like "30s" or "24h" from yaml.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type NewsConfig struct {
	Provider   string   `yaml:"provider"`
	Queries    []string `yaml:"queries"`
	MaxResults int      `yaml:"max_results"`
	Lang       string   `yaml:"lang"`
	Country    string   `yaml:"country"`
	APIKey     string   `yaml:"-"`
}

type AnalyzerConfig struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model"`
	DailyLimit    int      `yaml:"daily_limit"`
	MaxAttempts   int      `yaml:"max_attempts"`
	MaxElapsed    Duration `yaml:"max_elapsed"`
	SummaryMaxLen int      `yaml:"summary_max_len"`
	PositiveWords []string `yaml:"positive_words"`
	NegativeWords []string `yaml:"negative_words"`
}

type CacheConfig struct {
	Backend string   `yaml:"backend"`
	Dir     string   `yaml:"dir"`
	TTL     Duration `yaml:"ttl"`
}

type TrendConfig struct {
	Candidates  []string `yaml:"candidates"`
	Keywords    []string `yaml:"keywords"`
	BatchSize   int      `yaml:"batch_size"`
	MaxBatches  int      `yaml:"max_batches"`
	MinArticles int      `yaml:"min_articles"`
	TopLimit    int      `yaml:"top_limit"`
}

type PipelineConfig struct {
	Mode        string   `yaml:"mode"`
	RunTimeout  Duration `yaml:"run_timeout"`
	Concurrency int      `yaml:"concurrency"`
}

type ReportConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

type ServerConfig struct {
	Port        string `yaml:"port"`
	FrontendURL string `yaml:"frontend_url"`
}

type Config struct {
	News     NewsConfig     `yaml:"news"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Cache    CacheConfig    `yaml:"cache"`
	Trend    TrendConfig    `yaml:"trend"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Report   ReportConfig   `yaml:"report"`
	Server   ServerConfig   `yaml:"server"`
}

// Default returns the built-in configuration tracking the Korean
// presidential race the service was set up for.
func Default() Config {
	return Config{
		News: NewsConfig{
			Provider: "gnews",
			Queries: []string{
				"이재명 대선",
				"김문수 대선",
				"이준석 대선",
				"대선 여론조사",
				"대통령 선거",
			},
			MaxResults: 20,
			Lang:       "ko",
			Country:    "kr",
		},
		Analyzer: AnalyzerConfig{
			Provider:      "openai",
			DailyLimit:    100,
			MaxAttempts:   3,
			MaxElapsed:    Duration(30 * time.Second),
			SummaryMaxLen: 200,
			PositiveWords: []string{"상승", "지지", "호재", "승리", "확대", "긍정"},
			NegativeWords: []string{"하락", "논란", "비판", "의혹", "사퇴", "위기"},
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     "analysis_cache",
			TTL:     Duration(24 * time.Hour),
		},
		Trend: TrendConfig{
			Candidates:  []string{"이재명", "김문수", "이준석"},
			Keywords:    []string{"대선", "선거", "후보", "정치", "여론조사", "지지율"},
			BatchSize:   50,
			MaxBatches:  5,
			MinArticles: 10,
			TopLimit:    30,
		},
		Pipeline: PipelineConfig{
			Mode:        "once",
			RunTimeout:  Duration(10 * time.Minute),
			Concurrency: 4,
		},
		Report: ReportConfig{
			Backend: "file",
			Dir:     "reports",
		},
		Server: ServerConfig{
			Port:        "8080",
			FrontendURL: "http://localhost:3000",
		},
	}
}

// Load builds the configuration from defaults, overlaid by the yaml
// file at path when it exists, overlaid by environment variables.
// Secrets only ever come from the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults only
		case err != nil:
			return cfg, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.News.APIKey = getEnv("GNEWS_API_KEY", c.News.APIKey)
	c.News.Provider = getEnv("NEWS_PROVIDER", c.News.Provider)
	c.Analyzer.Provider = getEnv("LLM_PROVIDER", c.Analyzer.Provider)
	c.Analyzer.Model = getEnv("LLM_MODEL", c.Analyzer.Model)
	c.Analyzer.DailyLimit = getEnvInt("LLM_DAILY_LIMIT", c.Analyzer.DailyLimit)
	c.Cache.Backend = getEnv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Dir = getEnv("CACHE_DIR", c.Cache.Dir)
	c.Report.Backend = getEnv("REPORT_BACKEND", c.Report.Backend)
	c.Report.Dir = getEnv("REPORT_DIR", c.Report.Dir)
	c.Pipeline.Mode = getEnv("PIPELINE_MODE", c.Pipeline.Mode)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.FrontendURL = getEnv("FRONTEND_URL", c.Server.FrontendURL)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
