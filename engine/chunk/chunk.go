// Package chunk splits extracted page text into overlapping segments ready
// for embedding. Splitting is page-wise: a chunk never spans two pages.
package chunk

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/kactuary/actuary-rag/engine/domain"
)

const (
	// DefaultChunkSize is the soft target chunk length in characters.
	DefaultChunkSize = 500
	// DefaultOverlap is how many trailing characters of one chunk reappear
	// at the start of the next chunk from the same page.
	DefaultOverlap = 50
)

// Split chunks every page of a document independently. The splitter prefers
// paragraph, then sentence, then word boundaries before hard character
// cuts, so chunk size is a soft target. Whitespace-only pages produce
// nothing.
func Split(fileName string, pages []domain.PageText, size, overlap int) ([]domain.Chunk, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
	)

	var chunks []domain.Chunk
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		pieces, err := splitter.SplitText(page.Text)
		if err != nil {
			return nil, fmt.Errorf("chunk: split page %d: %w", page.Page, err)
		}
		for _, piece := range pieces {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				FileName: fileName,
				Page:     page.Page,
				Text:     piece,
				Hash:     domain.ContentHash(piece),
			})
		}
	}
	return chunks, nil
}
