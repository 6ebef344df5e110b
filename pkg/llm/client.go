package llm

import "context"

// BatchItem is one article line fed to the batch narrative prompt.
type BatchItem struct {
	Title     string
	Sentiment string
}

// Client is the text-analysis surface the pipeline depends on. All calls
// may fail with a *ServiceError carrying a transient or fatal class.
type Client interface {
	// Summarize condenses a single article into 2-3 sentences.
	Summarize(ctx context.Context, title, description string) (string, error)
	// Sentiment labels a single article; the returned label is
	// normalized but not guaranteed to be in the valid domain.
	Sentiment(ctx context.Context, title, description string) (string, error)
	// BatchNarrative summarizes the political trend within one batch.
	BatchNarrative(ctx context.Context, items []BatchItem, batchNum, totalBatches int) (string, error)
	// ReduceNarrative synthesizes batch narratives into one final trend
	// summary for the given time range.
	ReduceNarrative(ctx context.Context, batchSummaries []string, timeRange string) (string, error)
	Name() string
}
