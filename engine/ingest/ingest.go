// Package ingest turns source PDFs into stored vector records: extract
// pages, chunk, dedupe-and-identify, embed, batch upsert. The pipeline is
// sequential and per-file failures never abort a multi-file run.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kactuary/actuary-rag/engine/chunk"
	"github.com/kactuary/actuary-rag/engine/domain"
)

// PageExtractor yields the non-empty pages of a document.
type PageExtractor interface {
	Pages(ctx context.Context, path string) ([]domain.PageText, error)
}

// Embedder produces one vector per input text, in order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Deps holds the external collaborators of the pipeline.
type Deps struct {
	Extractor PageExtractor
	Embedder  Embedder
	Store     VectorWriter
	Logger    *slog.Logger
}

// Options configures pipeline behaviour.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
}

// DefaultOptions returns the standing pipeline configuration.
func DefaultOptions() Options {
	return Options{
		ChunkSize:    chunk.DefaultChunkSize,
		ChunkOverlap: chunk.DefaultOverlap,
		BatchSize:    DefaultBatchSize,
	}
}

// Report summarises one file's ingestion.
type Report struct {
	File       string
	Pages      int
	Chunks     int
	Duplicates int
	Stored     int
	Failed     int
}

// Service runs the ingestion pipeline.
type Service struct {
	deps     Deps
	opts     Options
	upserter *Upserter
}

// New creates a Service.
func New(deps Deps, opts Options) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunk.DefaultChunkSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Service{
		deps:     deps,
		opts:     opts,
		upserter: NewUpserter(deps.Store, opts.BatchSize, deps.Logger),
	}
}

// IngestFile runs one PDF through the full pipeline. Embedding failures
// skip the affected chunks and the run continues; only extraction of zero
// pages or a context cancellation is fatal to the file.
func (s *Service) IngestFile(ctx context.Context, path string) (Report, error) {
	log := s.deps.Logger
	fileName := filepath.Base(path)
	report := Report{File: fileName}
	start := time.Now()
	defer func() { ingestDuration.Observe(time.Since(start).Seconds()) }()

	pages, err := s.deps.Extractor.Pages(ctx, path)
	if err != nil {
		return report, fmt.Errorf("ingest: %s: %w", fileName, err)
	}
	report.Pages = len(pages)

	chunks, err := chunk.Split(fileName, pages, s.opts.ChunkSize, s.opts.ChunkOverlap)
	if err != nil {
		return report, fmt.Errorf("ingest: %s: %w", fileName, err)
	}
	report.Chunks = len(chunks)
	chunksProduced.Add(float64(len(chunks)))

	records, duplicates := DedupeAndIdentify(chunks, fileName, log)
	report.Duplicates = duplicates
	duplicatesSkipped.Add(float64(duplicates))

	embedded := s.embedRecords(ctx, records, &report)

	result := s.upserter.UpsertAll(ctx, embedded)
	report.Stored = result.Stored
	report.Failed += result.Failed

	filesIngested.Inc()
	log.Info("ingest: file done",
		"file", fileName,
		"pages", report.Pages,
		"chunks", report.Chunks,
		"duplicates", report.Duplicates,
		"stored", report.Stored,
		"failed", report.Failed,
	)
	return report, nil
}

// embedRecords fills in embeddings batch by batch. A failed embedding batch
// is logged, counted against the report, and skipped.
func (s *Service) embedRecords(ctx context.Context, records []domain.Record, report *Report) []domain.Record {
	embedded := make([]domain.Record, 0, len(records))
	for start := 0; start < len(records); start += s.opts.BatchSize {
		end := start + s.opts.BatchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		texts := make([]string, len(batch))
		for i, r := range batch {
			texts[i] = r.Text
		}

		vectors, err := s.deps.Embedder.EmbedBatch(ctx, texts)
		if err != nil {
			s.deps.Logger.Error("ingest: embedding batch failed, skipping chunks",
				"file", report.File, "records", len(batch), "error", err)
			report.Failed += len(batch)
			embedFailures.Inc()
			continue
		}
		for i, r := range batch {
			r.Embedding = vectors[i]
			embedded = append(embedded, r)
		}
	}
	return embedded
}
