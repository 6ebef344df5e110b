package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
)

const googleRSSBaseURL = "https://news.google.com/rss/search"

// GoogleRSSClient searches the Google News RSS feed. It needs no API key,
// so it can stand in when no GNews key is available.
type GoogleRSSClient struct {
	language string
	country  string
	baseURL  string
	parser   *gofeed.Parser
}

func NewGoogleRSSClient(language, country string) *GoogleRSSClient {
	return &GoogleRSSClient{
		language: language,
		country:  country,
		baseURL:  googleRSSBaseURL,
		parser:   gofeed.NewParser(),
	}
}

func (c *GoogleRSSClient) Name() string {
	return "GoogleNewsRSS"
}

func (c *GoogleRSSClient) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", c.language)
	params.Set("gl", c.country)
	params.Set("ceid", c.country+":"+c.language)

	feed, err := c.parser.ParseURLWithContext(c.baseURL+"?"+params.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("google news rss fetch: %w", err)
	}

	articles := make([]Article, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}
		if item.Link == "" {
			continue
		}
		title, publisher := splitPublisher(item.Title)
		articles = append(articles, Article{
			ID:            generateID(item.Link),
			Title:         title,
			Description:   item.Description,
			URL:           item.Link,
			PublishedDate: item.Published,
			Source:        publisher,
			Query:         query,
		})
	}

	return articles, nil
}

// splitPublisher strips the " - Publisher" suffix Google News appends to
// item titles.
func splitPublisher(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx <= 0 {
		return title, ""
	}
	return title[:idx], title[idx+3:]
}
