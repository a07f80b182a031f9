// Package rag orchestrates retrieval-augmented answering: embed the
// question, search the vector store for candidate chunks, classify the
// question against topical keyword sets, allocate per-document context
// quotas, and call the language model with the assembled context plus
// conversation history.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// Embedder turns a query into a vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Searcher is the read side of the vector store.
type Searcher interface {
	Search(ctx context.Context, embedding []float32, limit int) ([]domain.Candidate, error)
}

// Completer produces a chat completion for a message sequence.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage, temperature float32, maxTokens int) (string, error)
}

// Options configures the retrieval pipeline.
type Options struct {
	TopK            int
	OverfetchFactor int
	MaxContexts     int
	SimilarityFloor float32
	HistoryWindow   int
	Temperature     float32
	MaxTokens       int
	Profiles        []domain.DocumentProfile
}

// DefaultOptions returns the standing pipeline configuration.
func DefaultOptions() Options {
	return Options{
		TopK:            5,
		OverfetchFactor: 4,
		MaxContexts:     5,
		SimilarityFloor: 0.5,
		HistoryWindow:   10,
		Temperature:     0.7,
		MaxTokens:       2000,
		Profiles:        domain.DefaultProfiles(),
	}
}

// Answer is the structured result of one answered question.
type Answer struct {
	Text     string         `json:"text"`
	Contexts []string       `json:"contexts"`
	Topics   []domain.Topic `json:"topics"`
}

// Service runs the retrieval pipeline.
type Service struct {
	embed  Embedder
	search Searcher
	chat   Completer
	opts   Options
	logger *slog.Logger
}

// New creates a Service.
func New(embed Embedder, search Searcher, chat Completer, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.OverfetchFactor <= 0 {
		opts.OverfetchFactor = 4
	}
	if opts.MaxContexts <= 0 {
		opts.MaxContexts = 5
	}
	if len(opts.Profiles) == 0 {
		opts.Profiles = domain.DefaultProfiles()
	}
	return &Service{
		embed:  embed,
		search: search,
		chat:   chat,
		opts:   opts,
		logger: logger,
	}
}

// Query answers one user question given the prior conversation turns.
// History holds earlier turns oldest first and must not include the
// current question. Embedding and search failures propagate; an empty
// candidate set is not an error and yields an answer grounded on an
// empty context block.
func (s *Service) Query(ctx context.Context, question string, history []domain.ChatMessage) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrEmptyQuestion
	}
	queriesTotal.Inc()

	topics := Classify(question)
	s.logger.Info("rag: query start", "question_len", len(question), "topics", len(topics))

	vector, err := s.embed.EmbedText(ctx, question)
	if err != nil {
		queryFailures.Inc()
		return nil, fmt.Errorf("rag: embed query: %w", err)
	}

	limit := s.opts.TopK * s.opts.OverfetchFactor
	candidates, err := s.search.Search(ctx, vector, limit)
	if err != nil {
		queryFailures.Inc()
		return nil, fmt.Errorf("rag: search: %w", err)
	}
	s.logger.Info("rag: search done", "candidates", len(candidates))

	contexts := allocate(s.opts.Profiles, topics, candidates, s.opts.MaxContexts, s.opts.SimilarityFloor)
	contextsReturned.Add(float64(len(contexts)))

	messages := buildMessages(contexts, history, question, s.opts.HistoryWindow)
	reply, err := s.chat.Complete(ctx, messages, s.opts.Temperature, s.opts.MaxTokens)
	if err != nil {
		queryFailures.Inc()
		return nil, fmt.Errorf("rag: complete: %w", err)
	}

	return &Answer{Text: reply, Contexts: contexts, Topics: topics}, nil
}
