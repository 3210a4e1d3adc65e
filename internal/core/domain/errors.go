package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed indicates text extraction failed. Fatal to
	// that document's pipeline.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Chunks proceed without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorSearchUnavailable indicates the backing store has no
	// vector capability. Retrieval degrades to the lexical fallback.
	ErrVectorSearchUnavailable = errors.New("vector search unavailable")

	// ErrStoreFailed indicates a persistence write failed. Fatal to
	// that document's persistence stage.
	ErrStoreFailed = errors.New("store write failed")
)
