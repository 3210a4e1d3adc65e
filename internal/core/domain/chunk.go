package domain

import "fmt"

// ChunkMetadata holds per-chunk details used by retrieval.
type ChunkMetadata struct {
	// Section names the document section this chunk came from, empty
	// for undifferentiated documents.
	Section string

	// Page is the source page number, 0 when unknown.
	Page int

	// Index is the chunk's position within its document. Indices are
	// dense, zero-based and unique per document.
	Index int

	// TokenCount is the approximate token count (content length / 4).
	TokenCount int
}

// Chunk is a token-bounded slice of a document. Content, including any
// overlap carried from the previous chunk, stays within the configured
// chunk size.
type Chunk struct {
	// ID is deterministic: "{documentID}-chunk-{index}".
	ID string

	// DocumentID is the owning document.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation, nil when embedding was
	// skipped or failed. Dimensionality is fixed once set.
	Embedding []float32

	// Metadata holds section, page, index and token count.
	Metadata ChunkMetadata
}

// ChunkID builds the deterministic chunk identifier for a document and
// chunk index.
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s-chunk-%d", documentID, index)
}

// EstimateTokens approximates the token count of text as its length in
// bytes divided by four, rounded up.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
