// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// Processor runs the end-to-end document pipeline:
// extraction, parsing, NLP enrichment, chunking, embedding, persistence.
type Processor interface {
	// ProcessDocument runs the pipeline for one file.
	ProcessDocument(ctx context.Context, file domain.FileRef, ownerID string, opts domain.ProcessOptions) (*domain.ProcessResult, error)

	// BatchProcess runs the pipeline for a list of files with bounded
	// concurrency. Results are returned in input order. A failing
	// file's error propagates for the whole batch.
	BatchProcess(ctx context.Context, files []domain.FileRef, ownerID string, opts domain.ProcessOptions) ([]*domain.ProcessResult, error)
}
