package domain

import "time"

// ProgressFunc receives human-readable stage descriptions during
// processing. Reporting is best-effort: a panicking callback is
// recovered and never aborts the pipeline.
type ProgressFunc func(stage string)

// ProcessOptions selects which pipeline stages run for a document.
type ProcessOptions struct {
	// EnableNLP runs the entity/key-phrase/complexity analyzers.
	EnableNLP bool

	// EnableRetrieval builds chunks and requests embeddings.
	EnableRetrieval bool

	// EnablePersistence writes the parsed record and chunks to the
	// store.
	EnablePersistence bool

	// MaxConcurrent bounds in-flight pipelines during batch
	// processing. Zero means the default of 3.
	MaxConcurrent int

	// Progress receives stage descriptions. May be nil.
	Progress ProgressFunc
}

// ProcessResult bundles everything a single-document pipeline produced.
type ProcessResult struct {
	// ID is the generated document identifier.
	ID string

	// OwnerID identifies who the document was processed for.
	OwnerID string

	// RawText is the extracted text.
	RawText string

	// Resume is the structured parse, nil for non-resume documents.
	Resume *ParsedResume

	// Entities, KeyPhrases and Complexity come from the analyzers and
	// are empty when NLP was disabled or unavailable.
	Entities   []Entity
	KeyPhrases []string
	Complexity map[string]float64

	// Chunks are the retrieval units built for this document.
	Chunks []Chunk

	// WordCount is the whitespace-token count of the raw text.
	WordCount int

	// Elapsed is wall-clock pipeline time.
	Elapsed time.Duration

	// Confidence is the parser confidence when a structured parse
	// exists, otherwise a coarse heuristic figure.
	Confidence int
}
