package driving

import (
	"context"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// Matcher scores a stored parsed resume against job requirements text.
type Matcher interface {
	MatchResumeToJob(ctx context.Context, resumeID, jobText string) (*domain.MatchResult, error)
}
