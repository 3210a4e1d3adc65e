// Package memory provides an in-memory document store. It backs tests
// and runs where persistence is disabled; data does not survive the
// process.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
)

// Ensure Store implements both the store and the vector search ports.
var (
	_ driven.DocumentStore  = (*Store)(nil)
	_ driven.VectorSearcher = (*Store)(nil)
)

// Store keeps resumes and chunks in process memory. Safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	resumes map[string]*domain.ParsedResume
	chunks  map[string][]domain.Chunk // document ID -> chunks
	order   []string                  // document IDs in first-save order
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		resumes: make(map[string]*domain.ParsedResume),
		chunks:  make(map[string][]domain.Chunk),
	}
}

// SaveResume stores a parsed resume, replacing any previous version.
func (s *Store) SaveResume(_ context.Context, resume *domain.ParsedResume) error {
	if resume == nil || resume.ID == "" {
		return fmt.Errorf("%w: resume must have an ID", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *resume
	s.resumes[resume.ID] = &copied
	return nil
}

// GetResume returns the resume with the given ID.
func (s *Store) GetResume(_ context.Context, id string) (*domain.ParsedResume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resume, ok := s.resumes[id]
	if !ok {
		return nil, fmt.Errorf("%w: resume %s", domain.ErrNotFound, id)
	}
	copied := *resume
	return &copied, nil
}

// SaveChunks stores chunks grouped under their document IDs. A chunk
// whose ID is already present replaces the stored one, matching the
// persistent store's upsert behaviour.
func (s *Store) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range chunks {
		if c.DocumentID == "" {
			return fmt.Errorf("%w: chunk %s has no document ID", domain.ErrInvalidInput, c.ID)
		}
		existing, ok := s.chunks[c.DocumentID]
		if !ok {
			s.order = append(s.order, c.DocumentID)
		}

		replaced := false
		for i := range existing {
			if existing[i].ID == c.ID {
				existing[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, c)
		}
		s.chunks[c.DocumentID] = existing
	}
	return nil
}

// GetChunks returns the chunks of one document in stored order.
func (s *Store) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunks, ok := s.chunks[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: chunks for document %s", domain.ErrNotFound, documentID)
	}
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// AllChunks returns every stored chunk in insertion order across
// documents.
func (s *Store) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Chunk
	for _, docID := range s.order {
		out = append(out, s.chunks[docID]...)
	}
	return out, nil
}

// DeleteResume removes a resume and its chunks.
func (s *Store) DeleteResume(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resumes[id]; !ok {
		if _, hasChunks := s.chunks[id]; !hasChunks {
			return fmt.Errorf("%w: resume %s", domain.ErrNotFound, id)
		}
	}
	delete(s.resumes, id)
	delete(s.chunks, id)
	for i, docID := range s.order {
		if docID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// SearchVector scans all embedded chunks and returns those whose cosine
// similarity to the query meets the threshold, best first, capped at
// limit.
func (s *Store) SearchVector(
	ctx context.Context, query []float32, limit int, threshold float64,
) ([]domain.SearchResult, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidInput)
	}

	chunks, err := s.AllChunks(ctx)
	if err != nil {
		return nil, err
	}

	var results []domain.SearchResult
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			continue
		}
		sim := domain.CosineSimilarity(query, c.Embedding)
		if sim >= threshold {
			results = append(results, domain.SearchResult{Chunk: c, Similarity: sim})
		}
	}

	domain.SortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
