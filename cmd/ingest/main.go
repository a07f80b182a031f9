// Command ingest runs PDF documents through the ingestion pipeline into
// the vector store: extract pages, chunk, dedupe, embed, upsert.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/kactuary/actuary-rag/engine/extract"
	"github.com/kactuary/actuary-rag/engine/ingest"
	"github.com/kactuary/actuary-rag/engine/semantic"
	"github.com/kactuary/actuary-rag/pkg/llm"
)

func main() {
	var (
		dataDir      = flag.String("dir", "data/pdfs", "directory holding source PDFs")
		chunkSize    = flag.Int("chunk-size", 500, "chunk size in characters")
		chunkOverlap = flag.Int("overlap", 50, "chunk overlap in characters")
		batchSize    = flag.Int("batch", 100, "upsert batch size")
		qdrantAddr   = flag.String("qdrant", "localhost:6334", "Qdrant gRPC address")
		collection   = flag.String("collection", "actuary-docs", "Qdrant collection name")
	)
	flag.Parse()
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, err := llm.New(llm.Config{APIKey: os.Getenv("OPENAI_API_KEY")})
	if err != nil {
		log.Error("openai client failed", "error", err)
		os.Exit(1)
	}

	store, err := semantic.New(*qdrantAddr, *collection)
	if err != nil {
		log.Error("qdrant connect failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx, llm.DefaultEmbedDims); err != nil {
		log.Error("ensure collection failed", "error", err)
		os.Exit(1)
	}

	svc := ingest.New(ingest.Deps{
		Extractor: extract.NewPDF(log),
		Embedder:  client,
		Store:     store,
		Logger:    log,
	}, ingest.Options{
		ChunkSize:    *chunkSize,
		ChunkOverlap: *chunkOverlap,
		BatchSize:    *batchSize,
	})

	paths, err := filepath.Glob(filepath.Join(*dataDir, "*.pdf"))
	if err != nil {
		log.Error("glob failed", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		log.Warn("no PDF files found", "dir", *dataDir)
		return
	}
	sort.Strings(paths)

	// One file at a time; a failed file is logged and the run continues.
	var failed int
	for _, path := range paths {
		report, err := svc.IngestFile(ctx, path)
		if err != nil {
			log.Error("file failed", "path", path, "error", err)
			failed++
			continue
		}
		log.Info("file ingested",
			"file", report.File,
			"pages", report.Pages,
			"chunks", report.Chunks,
			"duplicates", report.Duplicates,
			"stored", report.Stored,
			"failed", report.Failed,
		)
	}

	log.Info("ingestion run complete", "files", len(paths), "files_failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
