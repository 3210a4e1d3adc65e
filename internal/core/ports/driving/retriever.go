package driving

import (
	"context"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// Retriever persists chunks and answers similarity queries.
type Retriever interface {
	// StoreChunks persists chunks in bounded batches. A batch failure
	// propagates as an error.
	StoreChunks(ctx context.Context, chunks []domain.Chunk) error

	// SearchSimilarChunks finds chunks similar to query. It never
	// fails: embedding or vector-store problems degrade to a lexical
	// substring scan, and the outcome's Mode records which path ran.
	SearchSimilarChunks(ctx context.Context, query string, limit int, threshold float64) domain.SearchOutcome
}
