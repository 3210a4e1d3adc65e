// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// TextExtractor turns a file into plain text. Raw byte-level handling
// of PDF/Word formats lives behind this boundary; the pipeline only
// sees text.
type TextExtractor interface {
	// Extract returns the plain text content of the file.
	Extract(ctx context.Context, file domain.FileRef) (string, error)
}
