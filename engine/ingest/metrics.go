package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_ingest_files_total",
		Help: "Files run through the ingestion pipeline.",
	})
	chunksProduced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_ingest_chunks_total",
		Help: "Chunks produced by the splitter.",
	})
	duplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_ingest_duplicates_skipped_total",
		Help: "Chunks dropped by in-run deduplication.",
	})
	embedFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_ingest_embed_failures_total",
		Help: "Embedding batches that failed and were skipped.",
	})
	upsertFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuary_ingest_upsert_failures_total",
		Help: "Records dropped after sub-batch upsert failure.",
	})
	ingestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "actuary_ingest_file_duration_seconds",
		Help:    "Per-file ingestion time.",
		Buckets: prometheus.DefBuckets,
	})
)
