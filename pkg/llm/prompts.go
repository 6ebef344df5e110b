package llm

import (
	"fmt"
	"strings"
)

const summarizeSystemPrompt = `You are an election news editor. Summarize the article in 2-3 concise, neutral sentences covering only the key facts. Respond with the summary text only, no preamble.`

const sentimentSystemPrompt = `You are an election news sentiment analyst. Judge the overall tone of the article toward the candidates or parties it covers.

Classify it as exactly one of:
- positive: favorable or supportive coverage
- negative: critical or unfavorable coverage
- neutral: factual or balanced reporting

Respond with a single word: positive, negative or neutral. Nothing else.`

const batchSystemPrompt = `You are a political analyst. You will receive a numbered batch of election news headlines, each annotated with its sentiment label. Summarize the political situation and trends visible in this batch: the main issues, which candidates are mentioned, and the overall sentiment mix. Respond with 2-3 sentences only.`

const reduceSystemPrompt = `You are a political strategist. You will receive several batch-level analyses of election news coverage for one time range. Synthesize them into a single final summary of the overall trend: candidate trajectories, key issues, and the dominant sentiment. Respond with 3-4 sentences only.`

const maxBatchLines = 50

func formatArticlePrompt(title, description string) string {
	return fmt.Sprintf("Title: %s\nContent: %s", title, description)
}

func formatBatchPrompt(items []BatchItem, batchNum, totalBatches int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Batch %d of %d:\n", batchNum, totalBatches))
	for i, item := range items {
		if i >= maxBatchLines {
			break
		}
		sb.WriteString(fmt.Sprintf("- %s (%s)\n", item.Title, item.Sentiment))
	}
	return sb.String()
}

func formatReducePrompt(batchSummaries []string, timeRange string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Time range: %s\n\nBatch analyses:\n\n", timeRange))
	sb.WriteString(strings.Join(batchSummaries, "\n\n"))
	return sb.String()
}

// cleanLabel strips the decoration models occasionally wrap a one-word
// answer in (bullets, colons, quotes, trailing periods).
func cleanLabel(label string) string {
	label = strings.TrimSpace(label)
	label = strings.Trim(label, "-:.\"'` ")
	return strings.ToLower(label)
}
