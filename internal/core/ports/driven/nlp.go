package driven

import (
	"context"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// Analyzer provides NLP enrichment over raw text. Implementations are
// black boxes to the pipeline; results are carried through unmodified.
type Analyzer interface {
	// Entities extracts typed entities from text.
	Entities(ctx context.Context, text string) ([]domain.Entity, error)

	// KeyPhrases extracts the most significant phrases from text.
	KeyPhrases(ctx context.Context, text string) ([]string, error)

	// Complexity computes named numeric metrics over text.
	Complexity(ctx context.Context, text string) (map[string]float64, error)
}
