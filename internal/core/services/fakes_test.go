package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// fakeExtractor returns canned text per file path.
type fakeExtractor struct {
	texts map[string]string
	err   error
}

func (f *fakeExtractor) Extract(_ context.Context, file domain.FileRef) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	text, ok := f.texts[file.Path]
	if !ok {
		return "", errors.New("no such file")
	}
	return text, nil
}

// fakeAnalyzer returns canned enrichment.
type fakeAnalyzer struct {
	entities []domain.Entity
	phrases  []string
	metrics  map[string]float64
	err      error
}

func (f *fakeAnalyzer) Entities(context.Context, string) ([]domain.Entity, error) {
	return f.entities, f.err
}

func (f *fakeAnalyzer) KeyPhrases(context.Context, string) ([]string, error) {
	return f.phrases, f.err
}

func (f *fakeAnalyzer) Complexity(context.Context, string) (map[string]float64, error) {
	return f.metrics, f.err
}

// fakeEmbedder produces deterministic three-dimensional vectors; texts
// sharing a first word embed identically.
type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		first := ""
		if fields := strings.Fields(text); len(fields) > 0 {
			first = fields[0]
		}
		var sum float32
		for _, r := range first {
			sum += float32(r)
		}
		vecs[i] = []float32{sum, 1, 0}
	}
	return vecs, nil
}

func (f *fakeEmbedder) Dimensions() int { return 3 }

func (f *fakeEmbedder) ModelName() string { return "fake-embedder" }

// countingStore wraps chunk persistence with call accounting and has no
// vector capability.
type countingStore struct {
	mu        sync.Mutex
	resumes   map[string]*domain.ParsedResume
	chunks    []domain.Chunk
	saveCalls []int
	failSaves bool
	failReads bool
}

func newCountingStore() *countingStore {
	return &countingStore{resumes: make(map[string]*domain.ParsedResume)}
}

func (s *countingStore) SaveResume(_ context.Context, resume *domain.ParsedResume) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaves {
		return errors.New("save failed")
	}
	s.resumes[resume.ID] = resume
	return nil
}

func (s *countingStore) GetResume(_ context.Context, id string) (*domain.ParsedResume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, errors.New("read failed")
	}
	resume, ok := s.resumes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return resume, nil
}

func (s *countingStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSaves {
		return errors.New("save failed")
	}
	s.saveCalls = append(s.saveCalls, len(chunks))
	s.chunks = append(s.chunks, chunks...)
	return nil
}

func (s *countingStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Chunk
	for _, c := range s.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *countingStore) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads {
		return nil, errors.New("read failed")
	}
	return s.chunks, nil
}

func (s *countingStore) DeleteResume(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resumes, id)
	return nil
}
