// Package llm wraps the OpenAI API behind the two calls the engine needs:
// embeddings and chat completions. All outbound calls pass through a token
// bucket limiter so bulk ingestion stays under the API rate limits, and a
// circuit breaker so a failing API is backed off rather than hammered.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/kactuary/actuary-rag/engine/domain"
	"github.com/kactuary/actuary-rag/pkg/resilience"
)

// Defaults matching the existing index: ada-002 vectors, 1536 dims.
const (
	DefaultEmbedModel = string(openai.AdaEmbeddingV2)
	DefaultChatModel  = openai.GPT3Dot5Turbo
	DefaultEmbedDims  = 1536
)

// Config configures the client.
type Config struct {
	APIKey     string
	EmbedModel string
	ChatModel  string
	// RequestsPerSecond throttles outbound calls; zero means no throttle.
	RequestsPerSecond float64
}

// Client is a rate-limited OpenAI client.
type Client struct {
	api        *openai.Client
	embedModel openai.EmbeddingModel
	chatModel  string
	limiter    *rate.Limiter
	breaker    *resilience.Breaker
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key required")
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		api:        openai.NewClient(cfg.APIKey),
		embedModel: openai.EmbeddingModel(cfg.EmbedModel),
		chatModel:  cfg.ChatModel,
		limiter:    limiter,
		breaker:    resilience.NewBreaker(resilience.DefaultBreakerOpts),
	}, nil
}

// EmbedText embeds a single text.
func (c *Client) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one API call, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp openai.EmbeddingResponse
	err := c.breaker.Call(ctx, func(ctx context.Context) error {
		var apiErr error
		resp, apiErr = c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embedModel,
		})
		return apiErr
	})
	if err != nil {
		return nil, fmt.Errorf("llm: embed %d texts: %w", len(texts), err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("llm: embed: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

// Complete runs a chat completion over the given messages and returns the
// assistant's reply text.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage, temperature float32, maxTokens int) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	var resp openai.ChatCompletionResponse
	err := c.breaker.Call(ctx, func(ctx context.Context) error {
		var apiErr error
		resp, apiErr = c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.chatModel,
			Messages:    msgs,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		return apiErr
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
