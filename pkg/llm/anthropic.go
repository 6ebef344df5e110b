package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = string(anthropic.ModelClaude3_5HaikuLatest)
	}
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.Model(model),
		modelName: model,
	}
}

func (c *AnthropicClient) Name() string {
	return c.modelName
}

func (c *AnthropicClient) Summarize(ctx context.Context, title, description string) (string, error) {
	return c.chat(ctx, summarizeSystemPrompt, formatArticlePrompt(title, description), 200)
}

func (c *AnthropicClient) Sentiment(ctx context.Context, title, description string) (string, error) {
	label, err := c.chat(ctx, sentimentSystemPrompt, formatArticlePrompt(title, description), 10)
	if err != nil {
		return "", err
	}
	return cleanLabel(label), nil
}

func (c *AnthropicClient) BatchNarrative(ctx context.Context, items []BatchItem, batchNum, totalBatches int) (string, error) {
	return c.chat(ctx, batchSystemPrompt, formatBatchPrompt(items, batchNum, totalBatches), 250)
}

func (c *AnthropicClient) ReduceNarrative(ctx context.Context, batchSummaries []string, timeRange string) (string, error) {
	return c.chat(ctx, reduceSystemPrompt, formatReducePrompt(batchSummaries, timeRange), 350)
}

func (c *AnthropicClient) chat(ctx context.Context, systemPrompt, userPrompt string, maxTokens int64) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus(apiErr.StatusCode, err)
		}
		return "", classifyTransport(err)
	}

	if len(resp.Content) == 0 {
		return "", &ServiceError{Class: ClassTransient, Err: fmt.Errorf("no response from anthropic")}
	}

	return strings.TrimSpace(resp.Content[0].Text), nil
}
