package parser

import (
	"math"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// confidenceRubricSize is the total number of rubric points: four for
// contact completeness, four for content completeness.
const confidenceRubricSize = 8

// minSummaryLen is the summary length that counts as substantial.
const minSummaryLen = 50

// CalculateConfidence scores 0-100 how many expected structural fields
// were populated. It is a pure function of the parsed structure; the
// score is never settable independently.
func CalculateConfidence(r *domain.ParsedResume) int {
	points := 0

	// Contact completeness.
	if r.Contact.Name != "" {
		points++
	}
	if len(r.Contact.Emails) > 0 {
		points++
	}
	if len(r.Contact.Phones) > 0 {
		points++
	}
	if r.Contact.LinkedIn != "" || r.Contact.GitHub != "" {
		points++
	}

	// Content completeness.
	if len(r.Skills) > 0 {
		points++
	}
	if len(r.Experience) > 0 {
		points++
	}
	if len(r.Education) > 0 {
		points++
	}
	if len(r.Summary) > minSummaryLen {
		points++
	}

	return int(math.Round(float64(points) / confidenceRubricSize * 100))
}
