package analyzer

import (
	"strings"
	"unicode/utf8"

	"pollpulse/internal/model"
)

func tooShort(title, description string, min int) bool {
	return utf8.RuneCountInString(title)+utf8.RuneCountInString(description) < min
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

// keywordSentiment scans the combined title and description against the
// configured positive and negative keyword sets. The label is whichever
// set scores more occurrences; ties are always neutral.
func (a *Analyzer) keywordSentiment(title, description string) model.Sentiment {
	text := strings.ToLower(title + " " + description)

	positive := countHits(text, a.cfg.PositiveWords)
	negative := countHits(text, a.cfg.NegativeWords)

	switch {
	case positive > negative:
		return model.SentimentPositive
	case negative > positive:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

func countHits(text string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		hits += strings.Count(text, kw)
	}
	return hits
}
