package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const gnewsBaseURL = "https://gnews.io/api/v4"

type GNewsClient struct {
	apiKey     string
	language   string
	country    string
	baseURL    string
	httpClient *http.Client
}

func NewGNewsClient(apiKey, language, country string) *GNewsClient {
	return &GNewsClient{
		apiKey:     apiKey,
		language:   language,
		country:    country,
		baseURL:    gnewsBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GNewsClient) Name() string {
	return "GNews"
}

func (c *GNewsClient) Search(ctx context.Context, query string, limit int) ([]Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("lang", c.language)
	params.Set("country", c.country)
	params.Set("max", fmt.Sprintf("%d", limit))
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("gnews request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gnews fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gnews fetch: unexpected status %d", resp.StatusCode)
	}

	var raw gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("gnews decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Articles))
	for _, item := range raw.Articles {
		if item.URL == "" {
			continue
		}
		articles = append(articles, Article{
			ID:            generateID(item.URL),
			Title:         item.Title,
			Description:   item.Description,
			URL:           item.URL,
			PublishedDate: item.PublishedAt,
			Source:        item.Source.Name,
			Query:         query,
		})
	}

	return articles, nil
}

type gnewsResponse struct {
	TotalArticles int         `json:"totalArticles"`
	Articles      []gnewsItem `json:"articles"`
}

type gnewsItem struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	PublishedAt string      `json:"publishedAt"`
	Source      gnewsSource `json:"source"`
}

type gnewsSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
