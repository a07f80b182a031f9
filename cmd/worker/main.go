// Command worker consumes ingestion jobs from NATS and runs each
// referenced PDF through the ingestion pipeline.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/kactuary/actuary-rag/engine/extract"
	"github.com/kactuary/actuary-rag/engine/ingest"
	"github.com/kactuary/actuary-rag/engine/semantic"
	"github.com/kactuary/actuary-rag/pkg/llm"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	natsURL := envOr("NATS_URL", nats.DefaultURL)
	qdrantAddr := envOr("QDRANT_URL", "localhost:6334")
	collection := envOr("QDRANT_COLLECTION", "actuary-docs")

	client, err := llm.New(llm.Config{APIKey: os.Getenv("OPENAI_API_KEY")})
	if err != nil {
		log.Error("openai client failed", "error", err)
		os.Exit(1)
	}

	store, err := semantic.New(qdrantAddr, collection)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.Error("nats connect failed", "url", natsURL, "error", err)
		os.Exit(1)
	}
	defer nc.Close()

	svc := ingest.New(ingest.Deps{
		Extractor: extract.NewPDF(log),
		Embedder:  client,
		Store:     store,
		Logger:    log,
	}, ingest.DefaultOptions())

	sub, err := ingest.StartConsumer(nc, svc, log)
	if err != nil {
		log.Error("subscribe failed", "error", err)
		os.Exit(1)
	}
	defer sub.Unsubscribe()

	log.Info("worker started", "subject", ingest.IngestSubject, "nats", natsURL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("worker shutting down")
}
