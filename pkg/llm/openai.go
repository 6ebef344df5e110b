package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIClient{
		client:    &client,
		model:     model,
		modelName: model,
	}
}

func (c *OpenAIClient) Name() string {
	return c.modelName
}

func (c *OpenAIClient) Summarize(ctx context.Context, title, description string) (string, error) {
	return c.chat(ctx, summarizeSystemPrompt, formatArticlePrompt(title, description), 200)
}

func (c *OpenAIClient) Sentiment(ctx context.Context, title, description string) (string, error) {
	label, err := c.chat(ctx, sentimentSystemPrompt, formatArticlePrompt(title, description), 10)
	if err != nil {
		return "", err
	}
	return cleanLabel(label), nil
}

func (c *OpenAIClient) BatchNarrative(ctx context.Context, items []BatchItem, batchNum, totalBatches int) (string, error) {
	return c.chat(ctx, batchSystemPrompt, formatBatchPrompt(items, batchNum, totalBatches), 250)
}

func (c *OpenAIClient) ReduceNarrative(ctx context.Context, batchSummaries []string, timeRange string) (string, error) {
	return c.chat(ctx, reduceSystemPrompt, formatReducePrompt(batchSummaries, timeRange), 350)
}

func (c *OpenAIClient) chat(ctx context.Context, systemPrompt, userPrompt string, maxTokens int64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     c.model,
		MaxTokens: openai.Int(maxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})

	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus(apiErr.StatusCode, err)
		}
		return "", classifyTransport(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Class: ClassTransient, Err: fmt.Errorf("no response from openai")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
