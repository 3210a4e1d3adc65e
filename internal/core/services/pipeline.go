package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
	"github.com/talentstack/docpipe/internal/core/ports/driving"
	"github.com/talentstack/docpipe/internal/logger"
)

// DefaultMaxConcurrent bounds in-flight pipelines during batch runs.
const DefaultMaxConcurrent = 3

// Coarse confidence figures for documents without a structured parse.
const (
	confidenceWithEntities = 80
	confidenceBare         = 60
)

// Ensure PipelineService implements the interface.
var _ driving.Processor = (*PipelineService)(nil)

// PipelineService coordinates the end-to-end document pipeline:
// extraction, structured parsing, NLP enrichment, chunking, embedding
// and persistence. Stages run strictly in that order.
type PipelineService struct {
	extractor driven.TextExtractor
	parser    driven.ResumeParser
	analyzer  driven.Analyzer
	chunker   driven.Chunker
	embedder  driven.EmbeddingService
	store     driven.DocumentStore
	retriever driving.Retriever
}

// NewPipelineService creates a pipeline service. The analyzer and
// embedder are optional (can be nil); their stages degrade gracefully.
func NewPipelineService(
	extractor driven.TextExtractor,
	resumeParser driven.ResumeParser,
	analyzer driven.Analyzer,
	chunkEngine driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.DocumentStore,
	retriever driving.Retriever,
) *PipelineService {
	return &PipelineService{
		extractor: extractor,
		parser:    resumeParser,
		analyzer:  analyzer,
		chunker:   chunkEngine,
		embedder:  embedder,
		store:     store,
		retriever: retriever,
	}
}

// ProcessDocument runs the pipeline for one file. Extraction and store
// failures are fatal; embedding and analyzer failures degrade with a
// log line.
func (s *PipelineService) ProcessDocument(
	ctx context.Context, file domain.FileRef, ownerID string, opts domain.ProcessOptions,
) (*domain.ProcessResult, error) {
	start := time.Now()
	report := progressReporter(opts.Progress)

	report(fmt.Sprintf("Extracting text from %s", file.Name))
	text, err := s.extractor.Extract(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, file.Name, err)
	}

	result := &domain.ProcessResult{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		RawText:   text,
		WordCount: len(strings.Fields(text)),
	}

	if s.parser.LooksLikeResume(file.Name, text) {
		report(fmt.Sprintf("Parsing resume structure from %s", file.Name))
		resume := s.parser.Parse(text, file.Name)
		resume.ID = result.ID
		result.Resume = resume
	}

	if opts.EnableNLP && s.analyzer != nil {
		report("Analyzing content")
		s.analyze(ctx, text, result)
	}

	if opts.EnableRetrieval {
		report("Building retrieval chunks")
		if result.Resume != nil {
			result.Chunks = s.chunker.SemanticChunks(resumeSections(result.Resume), result.ID)
		} else {
			result.Chunks = s.chunker.Chunks(text, result.ID)
		}

		if s.embedder != nil && len(result.Chunks) > 0 {
			report(fmt.Sprintf("Generating embeddings for %d chunks", len(result.Chunks)))
			result.Chunks = s.embedChunks(ctx, result.Chunks)
		}
	}

	if opts.EnablePersistence {
		report("Persisting document")
		if result.Resume != nil {
			if err := s.store.SaveResume(ctx, result.Resume); err != nil {
				return nil, fmt.Errorf("%w: resume %s: %w", domain.ErrStoreFailed, result.ID, err)
			}
		}
		if len(result.Chunks) > 0 {
			if err := s.retriever.StoreChunks(ctx, result.Chunks); err != nil {
				return nil, fmt.Errorf("store chunks for %s: %w", result.ID, err)
			}
		}
	}

	switch {
	case result.Resume != nil:
		result.Confidence = result.Resume.Metadata.Confidence
	case len(result.Entities) > 0:
		result.Confidence = confidenceWithEntities
	default:
		result.Confidence = confidenceBare
	}

	result.Elapsed = time.Since(start)
	report(fmt.Sprintf("Finished %s in %s", file.Name, result.Elapsed.Round(time.Millisecond)))
	return result, nil
}

// BatchProcess partitions files into groups of at most MaxConcurrent
// and awaits each group fully before starting the next. Completion
// order within a group is unspecified; results keep input order. One
// file's failure fails the batch.
func (s *PipelineService) BatchProcess(
	ctx context.Context, files []domain.FileRef, ownerID string, opts domain.ProcessOptions,
) ([]*domain.ProcessResult, error) {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	results := make([]*domain.ProcessResult, len(files))
	for groupStart := 0; groupStart < len(files); groupStart += maxConcurrent {
		groupEnd := groupStart + maxConcurrent
		if groupEnd > len(files) {
			groupEnd = len(files)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := groupStart; i < groupEnd; i++ {
			i := i
			g.Go(func() error {
				res, err := s.ProcessDocument(gctx, files[i], ownerID, opts)
				if err != nil {
					return fmt.Errorf("process %s: %w", files[i].Name, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// analyze runs the NLP collaborators. Analyzer failures degrade: the
// result simply carries no enrichment for the failed call.
func (s *PipelineService) analyze(ctx context.Context, text string, result *domain.ProcessResult) {
	entities, err := s.analyzer.Entities(ctx, text)
	if err != nil {
		logger.Warn("pipeline: entity extraction failed for %s: %v", result.ID, err)
	} else {
		result.Entities = entities
	}

	phrases, err := s.analyzer.KeyPhrases(ctx, text)
	if err != nil {
		logger.Warn("pipeline: key phrase extraction failed for %s: %v", result.ID, err)
	} else {
		result.KeyPhrases = phrases
	}

	complexity, err := s.analyzer.Complexity(ctx, text)
	if err != nil {
		logger.Warn("pipeline: complexity analysis failed for %s: %v", result.ID, err)
	} else {
		result.Complexity = complexity
	}
}

// embedChunks batches all chunk contents into one embedding request.
// Failure is soft: the chunks come back unmodified and the pipeline
// proceeds without embeddings.
func (s *PipelineService) embedChunks(ctx context.Context, chunks []domain.Chunk) []domain.Chunk {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("pipeline: embedding failed, storing chunks without embeddings: %v", err)
		return chunks
	}
	if len(embeddings) != len(chunks) {
		logger.Warn("pipeline: embedding count mismatch (%d vs %d chunks), skipping", len(embeddings), len(chunks))
		return chunks
	}

	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}
	return chunks
}

// resumeSections lays out a parsed resume as named sections for
// semantic chunking, preserving topical coherence.
func resumeSections(r *domain.ParsedResume) []driven.Section {
	return []driven.Section{
		{Name: "contact", Content: renderContact(r.Contact)},
		{Name: "summary", Content: r.Summary},
		{Name: "skills", Content: strings.Join(r.Skills, ", ")},
		{Name: "experience", Content: joinRawBlocks(experienceBlocks(r.Experience))},
		{Name: "education", Content: joinRawBlocks(educationBlocks(r.Education))},
	}
}

func renderContact(c domain.ContactInfo) string {
	var lines []string
	if c.Name != "" {
		lines = append(lines, c.Name)
	}
	lines = append(lines, c.Emails...)
	lines = append(lines, c.Phones...)
	lines = append(lines, c.Locations...)
	for _, u := range []string{c.LinkedIn, c.GitHub, c.Portfolio} {
		if u != "" {
			lines = append(lines, u)
		}
	}
	lines = append(lines, c.OtherURLs...)
	return strings.Join(lines, "\n")
}

func experienceBlocks(entries []domain.WorkExperience) []string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, e.Raw)
	}
	return blocks
}

func educationBlocks(entries []domain.Education) []string {
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, e.Raw)
	}
	return blocks
}

func joinRawBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}

// progressReporter wraps the caller's callback so reporting stays
// best-effort: a panicking callback is logged, never fatal.
func progressReporter(fn domain.ProgressFunc) func(string) {
	return func(stage string) {
		if fn == nil {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("pipeline: progress callback panicked: %v", r)
			}
		}()
		fn(stage)
	}
}
