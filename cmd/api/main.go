// Package main implements the actuarial chat API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kactuary/actuary-rag/engine/domain"
	"github.com/kactuary/actuary-rag/engine/rag"
	"github.com/kactuary/actuary-rag/engine/semantic"
	"github.com/kactuary/actuary-rag/pkg/llm"
	"github.com/kactuary/actuary-rag/pkg/mid"
)

// Config holds all environment-based configuration.
type Config struct {
	Port       string
	OpenAIKey  string
	EmbedModel string
	ChatModel  string
	QdrantURL  string
	Collection string
	CORSOrigin string
}

func loadConfig() Config {
	return Config{
		Port:       envOr("PORT", "8080"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		EmbedModel: envOr("EMBED_MODEL", llm.DefaultEmbedModel),
		ChatModel:  envOr("CHAT_MODEL", llm.DefaultChatModel),
		QdrantURL:  envOr("QDRANT_URL", "localhost:6334"),
		Collection: envOr("QDRANT_COLLECTION", "actuary-docs"),
		CORSOrigin: envOr("CORS_ORIGIN", "*"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := llm.New(llm.Config{
		APIKey:     cfg.OpenAIKey,
		EmbedModel: cfg.EmbedModel,
		ChatModel:  cfg.ChatModel,
	})
	if err != nil {
		return fmt.Errorf("openai client: %w", err)
	}

	vectorStore, err := semantic.New(cfg.QdrantURL, cfg.Collection)
	if err != nil {
		return fmt.Errorf("qdrant connect: %w", err)
	}
	defer vectorStore.Close()

	ragSvc := rag.New(client, vectorStore, client, rag.DefaultOptions(), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.Handle("POST /api/chat", handleChat(ragSvc, logger))
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.Metrics(),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("actuary-rag-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// queryService is the slice of rag.Service the handlers need.
type queryService interface {
	Query(ctx context.Context, question string, history []domain.ChatMessage) (*rag.Answer, error)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ChatRequest is the JSON body for POST /api/chat. History carries the
// prior turns oldest first, without the current question.
type ChatRequest struct {
	Question string               `json:"question"`
	History  []domain.ChatMessage `json:"history,omitempty"`
}

// ChatResponse is the JSON response for POST /api/chat.
type ChatResponse struct {
	Answer   string         `json:"answer"`
	Contexts []string       `json:"contexts"`
	Topics   []domain.Topic `json:"topics"`
}

func handleChat(svc queryService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Question == "" {
			http.Error(w, `{"error":"question is required"}`, http.StatusBadRequest)
			return
		}

		answer, err := svc.Query(r.Context(), req.Question, req.History)
		if err != nil {
			logger.Error("query failed", "err", err)
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatResponse{
			Answer:   answer.Text,
			Contexts: answer.Contexts,
			Topics:   answer.Topics,
		})
	}
}
