// Package extract pulls per-page plain text out of source PDFs. Extraction
// mechanics are deliberately thin: one page in, one string out, unreadable
// pages skipped.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kactuary/actuary-rag/engine/domain"
)

// PageExtractor yields the non-empty pages of a document in order.
type PageExtractor interface {
	Pages(ctx context.Context, path string) ([]domain.PageText, error)
}

// PDFExtractor reads PDFs page by page.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDF creates a PDFExtractor.
func NewPDF(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

// Pages extracts text from every page of the PDF at path. A page whose text
// cannot be read is logged and skipped; the rest of the document still
// ingests. Whitespace-only pages are dropped.
func (e *PDFExtractor) Pages(ctx context.Context, path string) ([]domain.PageText, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: open %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]domain.PageText, 0, total)
	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("extract: unreadable page, skipping", "path", path, "page", num, "error", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, domain.PageText{Page: num, Text: text})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("extract: %s: %w", path, domain.ErrNoPages)
	}
	return pages, nil
}

var _ PageExtractor = (*PDFExtractor)(nil)
