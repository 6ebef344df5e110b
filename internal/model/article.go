package model

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment normalizes an analyzer label into one of the three
// supported values. The second return is false when the label is outside
// the expected domain.
func ParseSentiment(label string) (Sentiment, bool) {
	switch Sentiment(label) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(label), true
	}
	return SentimentNeutral, false
}

// ProcessedArticle is a collected article enriched with analysis results.
// The JSON field names are the external contract consumed by the serving
// layer and must not change.
type ProcessedArticle struct {
	ID              string    `json:"-"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Summary         string    `json:"summary"`
	Sentiment       Sentiment `json:"sentiment"`
	URL             string    `json:"url"`
	PublishedDate   string    `json:"published_date"`
	Source          string    `json:"source"`
	Query           string    `json:"query"`
	ImportanceScore int       `json:"importance_score"`
}
