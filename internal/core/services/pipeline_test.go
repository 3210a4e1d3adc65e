package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentstack/docpipe/internal/chunker"
	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
	"github.com/talentstack/docpipe/internal/parser"
)

const pipelineResumeText = `Jane Doe
jane.doe@example.com
(555) 123-4567

Summary
Software engineer with years of experience in distributed systems.

Experience
Engineer at Acme Corp
2018 - 2022
Built event pipelines in Go.

Education
Bachelor of Science, Stanford University, 2018

Skills
Go, Python, Docker
`

func newTestPipeline(extractor *fakeExtractor, analyzer *fakeAnalyzer,
	embedder *fakeEmbedder, store *countingStore) *PipelineService {
	// Keep nil fakes as nil interfaces so the optional-stage checks
	// in the pipeline see them as absent.
	var emb driven.EmbeddingService
	if embedder != nil {
		emb = embedder
	}
	var nlp driven.Analyzer
	if analyzer != nil {
		nlp = analyzer
	}
	retriever := NewRetrievalService(store, emb)
	return NewPipelineService(extractor, parser.New(nil), nlp,
		chunker.New(), emb, store, retriever)
}

func allOptions() domain.ProcessOptions {
	return domain.ProcessOptions{
		EnableNLP:         true,
		EnableRetrieval:   true,
		EnablePersistence: true,
	}
}

func TestProcessDocumentResume(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/jane_resume.txt": pipelineResumeText}}
	analyzer := &fakeAnalyzer{
		entities: []domain.Entity{{Type: "skill", Text: "Go"}},
		phrases:  []string{"distributed systems"},
		metrics:  map[string]float64{"word_count": 40},
	}
	store := newCountingStore()
	svc := newTestPipeline(extractor, analyzer, &fakeEmbedder{}, store)

	result, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "jane_resume.txt", Path: "/in/jane_resume.txt"},
		"owner-1", allOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "owner-1", result.OwnerID)
	assert.Greater(t, result.WordCount, 10)

	require.NotNil(t, result.Resume)
	assert.Equal(t, result.ID, result.Resume.ID)
	assert.Equal(t, "Jane Doe", result.Resume.Contact.Name)

	assert.Equal(t, analyzer.entities, result.Entities)
	assert.Equal(t, analyzer.phrases, result.KeyPhrases)

	require.NotEmpty(t, result.Chunks)
	sections := make(map[string]bool)
	for _, c := range result.Chunks {
		sections[c.Metadata.Section] = true
		assert.Equal(t, result.ID, c.DocumentID)
		assert.NotEmpty(t, c.Embedding)
	}
	assert.True(t, sections["skills"])
	assert.True(t, sections["experience"])

	// Persisted through the store and retriever.
	saved, err := store.GetResume(context.Background(), result.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Resume.Contact.Name, saved.Contact.Name)
	assert.Len(t, store.chunks, len(result.Chunks))

	assert.Equal(t, result.Resume.Metadata.Confidence, result.Confidence)
}

func TestProcessDocumentNonResume(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/report.txt": "quarterly report\n\nrevenue grew modestly this period"}}
	analyzer := &fakeAnalyzer{entities: []domain.Entity{{Type: "organization", Text: "Acme Inc"}}}
	store := newCountingStore()
	svc := newTestPipeline(extractor, analyzer, nil, store)

	result, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "report.txt", Path: "/in/report.txt"}, "", allOptions())
	require.NoError(t, err)

	assert.Nil(t, result.Resume)
	require.NotEmpty(t, result.Chunks)
	assert.Empty(t, result.Chunks[0].Metadata.Section)
	// Entities present but no structured parse.
	assert.Equal(t, 80, result.Confidence)
}

func TestProcessDocumentBareConfidence(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/report.txt": "plain text with nothing notable"}}
	store := newCountingStore()
	svc := newTestPipeline(extractor, nil, nil, store)

	opts := allOptions()
	opts.EnableNLP = false
	result, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "report.txt", Path: "/in/report.txt"}, "", opts)
	require.NoError(t, err)

	assert.Empty(t, result.Entities)
	assert.Equal(t, 60, result.Confidence)
}

func TestProcessDocumentExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: assert.AnError}
	store := newCountingStore()
	svc := newTestPipeline(extractor, nil, nil, store)

	_, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "x.txt", Path: "/x.txt"}, "", allOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestProcessDocumentEmbeddingFailureIsSoft(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/jane_resume.txt": pipelineResumeText}}
	store := newCountingStore()
	svc := newTestPipeline(extractor, nil, &fakeEmbedder{err: assert.AnError}, store)

	result, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "jane_resume.txt", Path: "/in/jane_resume.txt"}, "", allOptions())
	require.NoError(t, err)

	require.NotEmpty(t, result.Chunks)
	for _, c := range result.Chunks {
		assert.Nil(t, c.Embedding)
	}
	// Chunks are still persisted without embeddings.
	assert.Len(t, store.chunks, len(result.Chunks))
}

func TestProcessDocumentPersistenceFailureIsFatal(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/jane_resume.txt": pipelineResumeText}}
	store := newCountingStore()
	store.failSaves = true
	svc := newTestPipeline(extractor, nil, nil, store)

	_, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "jane_resume.txt", Path: "/in/jane_resume.txt"}, "", allOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreFailed)
}

func TestProcessDocumentStagesCanBeDisabled(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/jane_resume.txt": pipelineResumeText}}
	store := newCountingStore()
	svc := newTestPipeline(extractor, &fakeAnalyzer{}, &fakeEmbedder{}, store)

	result, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "jane_resume.txt", Path: "/in/jane_resume.txt"}, "",
		domain.ProcessOptions{})
	require.NoError(t, err)

	assert.Empty(t, result.Chunks)
	assert.Empty(t, result.Entities)
	assert.Empty(t, store.chunks)
	assert.Empty(t, store.resumes)
}

func TestBatchProcessKeepsInputOrder(t *testing.T) {
	texts := make(map[string]string)
	var files []domain.FileRef
	for i := 0; i < 7; i++ {
		name := "file" + string(rune('a'+i)) + ".txt"
		path := "/in/" + name
		texts[path] = "document body number " + string(rune('a'+i))
		files = append(files, domain.FileRef{Name: name, Path: path})
	}
	extractor := &fakeExtractor{texts: texts}
	store := newCountingStore()
	svc := newTestPipeline(extractor, nil, nil, store)

	var mu sync.Mutex
	reported := make(map[string]bool)
	opts := allOptions()
	opts.MaxConcurrent = 3
	opts.Progress = func(stage string) {
		if name, ok := strings.CutPrefix(stage, "Extracting text from "); ok {
			mu.Lock()
			reported[name] = true
			mu.Unlock()
		}
	}

	results, err := svc.BatchProcess(context.Background(), files, "owner", opts)
	require.NoError(t, err)

	require.Len(t, results, len(files))
	for i, result := range results {
		require.NotNil(t, result)
		assert.Equal(t, texts[files[i].Path], result.RawText)
	}

	// Every file reported progress.
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, len(files))
	for _, f := range files {
		assert.True(t, reported[f.Name], "no progress callback for %s", f.Name)
	}
}

func TestBatchProcessFailurePropagates(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/good.txt": "fine content here"}}
	store := newCountingStore()
	svc := newTestPipeline(extractor, nil, nil, store)

	files := []domain.FileRef{
		{Name: "good.txt", Path: "/in/good.txt"},
		{Name: "missing.txt", Path: "/in/missing.txt"},
	}
	results, err := svc.BatchProcess(context.Background(), files, "", allOptions())
	require.Error(t, err)
	assert.Nil(t, results)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestProgressReporting(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/jane_resume.txt": pipelineResumeText}}
	store := newCountingStore()
	svc := newTestPipeline(extractor, nil, nil, store)

	var mu sync.Mutex
	var stages []string
	opts := allOptions()
	opts.Progress = func(stage string) {
		mu.Lock()
		defer mu.Unlock()
		stages = append(stages, stage)
	}

	_, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "jane_resume.txt", Path: "/in/jane_resume.txt"}, "", opts)
	require.NoError(t, err)

	require.NotEmpty(t, stages)
	assert.True(t, strings.HasPrefix(stages[0], "Extracting text"))
}

func TestProgressCallbackPanicIsRecovered(t *testing.T) {
	extractor := &fakeExtractor{texts: map[string]string{"/in/jane_resume.txt": pipelineResumeText}}
	store := newCountingStore()
	svc := newTestPipeline(extractor, nil, nil, store)

	opts := allOptions()
	opts.Progress = func(string) { panic("listener bug") }

	result, err := svc.ProcessDocument(context.Background(),
		domain.FileRef{Name: "jane_resume.txt", Path: "/in/jane_resume.txt"}, "", opts)
	require.NoError(t, err)
	assert.NotNil(t, result)
}
