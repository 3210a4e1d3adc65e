package driven

import (
	"context"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// DocumentStore persists parsed resumes and chunks. Once written, the
// store owns the persisted copies; callers re-read for authoritative
// state.
type DocumentStore interface {
	// SaveResume stores or updates a parsed resume record.
	SaveResume(ctx context.Context, resume *domain.ParsedResume) error

	// GetResume retrieves a parsed resume by ID.
	GetResume(ctx context.Context, id string) (*domain.ParsedResume, error)

	// SaveChunks stores a batch of chunks. The batch either fully
	// commits or the caller sees an error.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for a document, ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// AllChunks returns every persisted chunk in storage order. Used
	// by the lexical fallback scan.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// DeleteResume removes a resume record and its chunks.
	DeleteResume(ctx context.Context, id string) error
}

// VectorSearcher is an optional capability a DocumentStore may provide.
// Retrieval asserts for it at runtime; absence triggers the lexical
// fallback rather than an error.
type VectorSearcher interface {
	// SearchVector scores every stored embedding against query by
	// cosine similarity and returns those above threshold, at most
	// limit, in SearchResult order.
	SearchVector(ctx context.Context, query []float32, limit int, threshold float64) ([]domain.SearchResult, error)
}
