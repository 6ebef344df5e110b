package news

import (
	"context"
	"log/slog"
)

// Collector runs the configured queries against a search provider and
// merges the results into a unique-by-URL set. Order of first occurrence
// is preserved across the whole query sequence.
type Collector struct {
	client     SearchClient
	maxResults int
}

func NewCollector(client SearchClient, maxResults int) *Collector {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &Collector{client: client, maxResults: maxResults}
}

// Collect issues one search per query. A failed or empty query is logged
// and skipped; it never aborts the remaining queries.
func (c *Collector) Collect(ctx context.Context, queries []string) []Article {
	seen := make(map[string]bool)
	var collected []Article

	for _, query := range queries {
		articles, err := c.client.Search(ctx, query, c.maxResults)
		if err != nil {
			slog.Error("news search failed", "source", c.client.Name(), "query", query, "error", err)
			continue
		}
		if len(articles) == 0 {
			slog.Info("news search returned no results", "source", c.client.Name(), "query", query)
			continue
		}

		for _, a := range articles {
			if a.URL == "" || seen[a.URL] {
				continue
			}
			seen[a.URL] = true
			if a.ID == "" {
				a.ID = generateID(a.URL)
			}
			if a.Query == "" {
				a.Query = query
			}
			collected = append(collected, a)
		}
	}

	slog.Info("collection complete", "source", c.client.Name(), "queries", len(queries), "unique_articles", len(collected))
	return collected
}
