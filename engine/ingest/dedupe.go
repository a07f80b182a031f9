package ingest

import (
	"log/slog"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// DedupeAndIdentify drops chunks whose content hash was already seen earlier
// in this same call and assigns each survivor its storage identifier. The
// seen-set is scoped to one ingestion run: duplicates across previously
// ingested files are not detected here (the vectors maintenance tool covers
// that operationally). Input order is preserved.
func DedupeAndIdentify(chunks []domain.Chunk, fileName string, logger *slog.Logger) ([]domain.Record, int) {
	if logger == nil {
		logger = slog.Default()
	}

	seen := make(map[string]struct{}, len(chunks))
	records := make([]domain.Record, 0, len(chunks))
	duplicates := 0

	for _, c := range chunks {
		if _, dup := seen[c.Hash]; dup {
			duplicates++
			logger.Info("ingest: duplicate chunk skipped", "file", fileName, "page", c.Page)
			continue
		}
		seen[c.Hash] = struct{}{}
		records = append(records, domain.Record{
			ID:       domain.RecordID(fileName, c.Page, c.Hash),
			FileName: fileName,
			Page:     c.Page,
			Text:     c.Text,
		})
	}
	return records, duplicates
}
