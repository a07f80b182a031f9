package ingest

import (
	"context"
	"log/slog"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// DefaultBatchSize is how many records go into one upsert call.
const DefaultBatchSize = 100

// VectorWriter is the write side of the vector store.
type VectorWriter interface {
	Upsert(ctx context.Context, records []domain.Record) error
}

// UpsertResult reports how many records made it into storage.
type UpsertResult struct {
	Stored int
	Failed int
}

// Upserter groups records into bounded batches and flushes them with
// split-and-retry failure isolation. Delivery is best-effort: a failed
// sub-batch is logged and dropped, never aborting the run. Deterministic
// record ids keep re-runs safe.
type Upserter struct {
	store     VectorWriter
	batchSize int
	logger    *slog.Logger
}

// NewUpserter creates an Upserter. batchSize <= 0 falls back to the default.
func NewUpserter(store VectorWriter, batchSize int, logger *slog.Logger) *Upserter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Upserter{store: store, batchSize: batchSize, logger: logger}
}

// UpsertAll writes records in batches of the configured size, flushing the
// partial tail batch with the same retry policy.
func (u *Upserter) UpsertAll(ctx context.Context, records []domain.Record) UpsertResult {
	var result UpsertResult
	for start := 0; start < len(records); start += u.batchSize {
		end := start + u.batchSize
		if end > len(records) {
			end = len(records)
		}
		u.flush(ctx, records[start:end], &result)
	}
	return result
}

// flush writes one batch; on failure the batch is split into sub-batches of
// a fifth the configured size and each is retried independently.
func (u *Upserter) flush(ctx context.Context, batch []domain.Record, result *UpsertResult) {
	if len(batch) == 0 {
		return
	}
	err := u.store.Upsert(ctx, batch)
	if err == nil {
		result.Stored += len(batch)
		return
	}
	u.logger.Warn("ingest: batch upsert failed, retrying in sub-batches",
		"batch_size", len(batch), "error", err)

	subSize := u.batchSize / 5
	if subSize < 1 {
		subSize = 1
	}
	for start := 0; start < len(batch); start += subSize {
		end := start + subSize
		if end > len(batch) {
			end = len(batch)
		}
		sub := batch[start:end]
		if err := u.store.Upsert(ctx, sub); err != nil {
			u.logger.Error("ingest: sub-batch upsert failed, dropping records",
				"records", len(sub), "first_id", sub[0].ID, "error", err)
			result.Failed += len(sub)
			upsertFailures.Add(float64(len(sub)))
			continue
		}
		result.Stored += len(sub)
	}
}
