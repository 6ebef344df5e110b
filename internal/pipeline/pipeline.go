package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pollpulse/internal/analyzer"
	"pollpulse/internal/model"
	"pollpulse/internal/report"
	"pollpulse/internal/trend"
	"pollpulse/pkg/news"
)

type Mode string

const (
	// ModeOnce runs the pipeline a single time per process lifetime.
	ModeOnce Mode = "once"
	// ModeDaily runs at most one pipeline run per calendar day.
	ModeDaily Mode = "daily"
	// ModeSchedule leaves triggering to an external scheduler; every
	// explicit Run call is accepted.
	ModeSchedule Mode = "schedule"
)

type State string

const (
	StateIdle        State = "idle"
	StateCollecting  State = "collecting"
	StateAnalyzing   State = "analyzing"
	StateAggregating State = "aggregating"
	StatePersisting  State = "persisting"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

var (
	ErrRunInProgress = errors.New("pipeline run already in progress")
	ErrCompleted     = errors.New("pipeline already completed its run")
	ErrRanToday      = errors.New("pipeline already ran today")
)

type Config struct {
	Mode        Mode
	Queries     []string
	RunTimeout  time.Duration
	Concurrency int
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeOnce
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 10 * time.Minute
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
}

// Status is a snapshot of the orchestrator for the serving layer.
type Status struct {
	State       State          `json:"state"`
	Completed   bool           `json:"completed"`
	LastRunDate string         `json:"last_run_date,omitempty"`
	LastError   string         `json:"last_error,omitempty"`
	Usage       analyzer.Usage `json:"usage"`
}

// Pipeline drives one collection run end to end: collect, analyze,
// aggregate, persist. A run never aborts halfway through on analysis
// errors; those degrade inside the analyzer and aggregator. Only the
// persistence step can fail the run, and even then the report is kept
// in memory so readers still see the freshest artifact.
type Pipeline struct {
	collector  *news.Collector
	analyzer   *analyzer.Analyzer
	aggregator *trend.Aggregator
	store      report.Store
	cfg        Config
	now        func() time.Time

	mu          sync.Mutex
	state       State
	running     bool
	completed   bool
	lastRunDate string
	lastErr     string
	lastReport  *model.TrendReport
}

func New(collector *news.Collector, an *analyzer.Analyzer, agg *trend.Aggregator, store report.Store, cfg Config) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{
		collector:  collector,
		analyzer:   an,
		aggregator: agg,
		store:      store,
		cfg:        cfg,
		now:        time.Now,
		state:      StateIdle,
	}
}

// Run executes one full pipeline run. It returns ErrCompleted,
// ErrRunInProgress or ErrRanToday without doing any work when the
// configured mode rejects another run.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.begin(); err != nil {
		return err
	}
	return p.run(ctx)
}

// Start checks the mode guards synchronously, then launches the run in
// the background. Callers get guard rejections immediately.
func (p *Pipeline) Start(ctx context.Context) error {
	if err := p.begin(); err != nil {
		return err
	}
	go func() {
		if err := p.run(ctx); err != nil {
			slog.Error("background pipeline run failed", "error", err)
		}
	}()
	return nil
}

func (p *Pipeline) run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.RunTimeout)
	defer cancel()

	started := p.now()
	slog.Info("pipeline run started", "mode", string(p.cfg.Mode), "queries", len(p.cfg.Queries))

	p.setState(StateCollecting)
	articles := p.collector.Collect(ctx, p.cfg.Queries)

	p.setState(StateAnalyzing)
	processed := p.analyze(ctx, articles)

	p.setState(StateAggregating)
	rep := p.aggregator.Aggregate(ctx, processed, started.Format("2006-01-02"))
	rep.GeneratedAt = p.now()
	if ctx.Err() != nil && rep.Status == model.StatusOK {
		// the run timed out partway; whatever was analyzed is still
		// worth persisting, flagged so readers can tell
		rep.Status = model.StatusDegraded
	}

	p.setState(StatePersisting)
	var runErr error
	if err := p.store.Save(&rep); err != nil {
		slog.Error("persisting report failed", "error", err)
		rep.Status = model.StatusDegraded
		runErr = err
	}

	p.finish(&rep, runErr)
	slog.Info("pipeline run finished",
		"articles", rep.TotalArticles,
		"status", string(rep.Status),
		"duration", p.now().Sub(started).String())
	return runErr
}

// analyze enriches collected articles with summaries and sentiment,
// at most cfg.Concurrency articles in flight at a time. Order is
// preserved.
func (p *Pipeline) analyze(ctx context.Context, articles []news.Article) []model.ProcessedArticle {
	processed := make([]model.ProcessedArticle, len(articles))
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, art := range articles {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, art news.Article) {
			defer wg.Done()
			defer func() { <-sem }()

			processed[i] = model.ProcessedArticle{
				ID:            art.ID,
				Title:         art.Title,
				Description:   art.Description,
				Summary:       p.analyzer.Summarize(ctx, art.ID, art.Title, art.Description),
				Sentiment:     p.analyzer.Sentiment(ctx, art.ID, art.Title, art.Description),
				URL:           art.URL,
				PublishedDate: art.PublishedDate,
				Source:        art.Source,
				Query:         art.Query,
			}
		}(i, art)
	}
	wg.Wait()
	return processed
}

func (p *Pipeline) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return ErrRunInProgress
	}
	if p.cfg.Mode == ModeOnce && p.completed {
		return ErrCompleted
	}
	if p.cfg.Mode == ModeDaily && p.lastRunDate == p.now().Format("2006-01-02") {
		return ErrRanToday
	}
	p.running = true
	p.state = StateCollecting
	p.lastErr = ""
	return nil
}

func (p *Pipeline) finish(rep *model.TrendReport, runErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = false
	p.completed = true
	p.lastRunDate = p.now().Format("2006-01-02")
	p.lastReport = rep
	if runErr != nil {
		p.state = StateFailed
		p.lastErr = runErr.Error()
	} else {
		p.state = StateCompleted
	}
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		State:       p.state,
		Completed:   p.completed,
		LastRunDate: p.lastRunDate,
		LastError:   p.lastErr,
		Usage:       p.analyzer.Usage(),
	}
}

// Latest prefers the in-memory report from the most recent run, falling
// back to the persisted store. The in-memory copy is what keeps readers
// served when persistence failed.
func (p *Pipeline) Latest() (*model.TrendReport, error) {
	p.mu.Lock()
	rep := p.lastReport
	p.mu.Unlock()
	if rep != nil {
		return rep, nil
	}
	return p.store.Latest()
}
