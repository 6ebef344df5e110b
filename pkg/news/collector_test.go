package news

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"
)

type fakeSearchClient struct {
	results map[string][]Article
	errs    map[string]error
	calls   []string
}

func (f *fakeSearchClient) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	f.calls = append(f.calls, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func (f *fakeSearchClient) Name() string {
	return "fake"
}

func article(url string) Article {
	return Article{Title: "t " + url, URL: url}
}

func TestCollect_DeduplicatesByURL(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]Article{
			"A": {article("u1"), article("u2")},
			"B": {article("u2"), article("u3")},
		},
	}
	c := NewCollector(client, 20)

	got := c.Collect(context.Background(), []string{"A", "B"})

	assert.Equal(t, 3, len(got))
	assert.Equal(t, "u1", got[0].URL)
	assert.Equal(t, "u2", got[1].URL)
	assert.Equal(t, "u3", got[2].URL)
	// u2 was first seen under query A
	assert.Equal(t, "A", got[1].Query)
}

func TestCollect_FailedQueryDoesNotAbort(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]Article{
			"B": {article("u1")},
		},
		errs: map[string]error{"A": errors.New("network down")},
	}
	c := NewCollector(client, 20)

	got := c.Collect(context.Background(), []string{"A", "B"})

	assert.Equal(t, 1, len(got))
	assert.Equal(t, []string{"A", "B"}, client.calls)
}

func TestCollect_Idempotent(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]Article{
			"A": {article("u1"), article("u1"), article("u2")},
		},
	}
	c := NewCollector(client, 20)

	first := c.Collect(context.Background(), []string{"A"})
	second := c.Collect(context.Background(), []string{"A"})

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].URL, second[i].URL)
	}
}

func TestCollect_AssignsStableIDs(t *testing.T) {
	client := &fakeSearchClient{
		results: map[string][]Article{"A": {article("https://example.com/1")}},
	}
	c := NewCollector(client, 20)

	got := c.Collect(context.Background(), []string{"A"})

	assert.Equal(t, 1, len(got))
	assert.Equal(t, generateID("https://example.com/1"), got[0].ID)
	assert.Equal(t, 16, len(got[0].ID))
}
