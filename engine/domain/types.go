// Package domain defines the core value types shared across the ingestion
// and retrieval pipelines: page text, chunks, stored records, search
// candidates, and the declared document profiles that drive context
// allocation.
package domain

// PageText is the extracted text of a single PDF page. Page numbers are
// 1-based and contiguous only within their own source document.
type PageText struct {
	Page int
	Text string
}

// Chunk is a bounded span of text belonging to exactly one (file, page)
// pair. Hash is the md5 hex digest of Text.
type Chunk struct {
	FileName string
	Page     int
	Text     string
	Hash     string
}

// Record is the unit persisted to the vector index. ID is a pure function
// of (file name, page, content hash), so re-ingesting unchanged content
// overwrites rather than duplicates.
type Record struct {
	ID        string
	FileName  string
	Page      int
	Text      string
	Embedding []float32
}

// Candidate is a stored record plus its similarity score, as returned by a
// single query-time search. It lives only for the duration of one query.
type Candidate struct {
	RecordID string
	FileName string
	Page     int
	Text     string
	Score    float32
}

// ChatMessage is one turn of a conversation, in OpenAI role/content shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
