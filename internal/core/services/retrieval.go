package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
	"github.com/talentstack/docpipe/internal/core/ports/driving"
	"github.com/talentstack/docpipe/internal/logger"
)

// DefaultStoreBatchSize bounds any single chunk write.
const DefaultStoreBatchSize = 100

// DefaultSearchLimit is used when callers pass a non-positive limit.
const DefaultSearchLimit = 10

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// RetrievalService persists chunks and answers similarity queries with
// graceful degradation: embedding or vector-store failures fall back to
// a lexical substring scan, never an error.
type RetrievalService struct {
	store     driven.DocumentStore
	embedder  driven.EmbeddingService
	batchSize int
}

// RetrievalOption configures the service.
type RetrievalOption func(*RetrievalService)

// WithStoreBatchSize sets the persistence batch size.
func WithStoreBatchSize(size int) RetrievalOption {
	return func(s *RetrievalService) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewRetrievalService creates a retrieval service. The embedder is
// optional; when nil, search always uses the lexical path.
func NewRetrievalService(store driven.DocumentStore, embedder driven.EmbeddingService, opts ...RetrievalOption) *RetrievalService {
	s := &RetrievalService{
		store:     store,
		embedder:  embedder,
		batchSize: DefaultStoreBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StoreChunks persists chunks in fixed-size batches. A batch failure
// propagates; there is no partial silent success.
func (s *RetrievalService) StoreChunks(ctx context.Context, chunks []domain.Chunk) error {
	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := s.store.SaveChunks(ctx, chunks[start:end]); err != nil {
			return fmt.Errorf("%w: batch %d-%d: %w", domain.ErrStoreFailed, start, end, err)
		}
	}
	return nil
}

// SearchSimilarChunks embeds the query and ranks stored chunks by
// cosine similarity. If embedding fails, the store has no vector
// capability, or anything else goes wrong, it degrades to the lexical
// fallback. It always returns an outcome, never an error.
func (s *RetrievalService) SearchSimilarChunks(ctx context.Context, query string, limit int, threshold float64) domain.SearchOutcome {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	if s.embedder == nil {
		logger.Debug("retrieval: %v, using lexical search", domain.ErrEmbeddingUnavailable)
		return s.lexicalSearch(ctx, query, limit)
	}

	vs, ok := s.store.(driven.VectorSearcher)
	if !ok {
		logger.Info("retrieval: %v, using lexical search", domain.ErrVectorSearchUnavailable)
		return s.lexicalSearch(ctx, query, limit)
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("retrieval: %v, using lexical search: %v", domain.ErrEmbeddingUnavailable, err)
		return s.lexicalSearch(ctx, query, limit)
	}

	results, err := vs.SearchVector(ctx, embedding, limit, threshold)
	if err != nil {
		logger.Warn("retrieval: %v, using lexical search: %v", domain.ErrVectorSearchUnavailable, err)
		return s.lexicalSearch(ctx, query, limit)
	}

	domain.SortResults(results)
	logger.Debug("retrieval: ranked search returned %d results", len(results))
	return domain.SearchOutcome{Mode: domain.SearchModeRanked, Results: results}
}

// lexicalSearch scans all persisted chunks for a case-insensitive
// substring match, keeping the first limit hits in storage order with
// the fixed sentinel similarity.
func (s *RetrievalService) lexicalSearch(ctx context.Context, query string, limit int) domain.SearchOutcome {
	outcome := domain.SearchOutcome{
		Mode:    domain.SearchModeLexical,
		Results: []domain.SearchResult{},
	}

	chunks, err := s.store.AllChunks(ctx)
	if err != nil {
		logger.Warn("retrieval: lexical scan failed, returning empty results: %v", err)
		return outcome
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return outcome
	}

	for _, chunk := range chunks {
		if !strings.Contains(strings.ToLower(chunk.Content), needle) {
			continue
		}
		outcome.Results = append(outcome.Results, domain.SearchResult{
			Chunk:      chunk,
			Similarity: domain.LexicalSimilarity,
		})
		if len(outcome.Results) == limit {
			break
		}
	}
	return outcome
}
