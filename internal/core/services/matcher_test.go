package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentstack/docpipe/internal/core/domain"
)

func storedResume(t *testing.T, store *countingStore, resume *domain.ParsedResume) {
	t.Helper()
	require.NoError(t, store.SaveResume(context.Background(), resume))
}

func TestMatchResumeToJobSkillOverlap(t *testing.T) {
	store := newCountingStore()
	storedResume(t, store, &domain.ParsedResume{
		ID:     "r1",
		Skills: []string{"Go", "Python"},
		Experience: []domain.WorkExperience{
			{Dates: "2015 - 2020"},
		},
	})
	analyzer := &fakeAnalyzer{entities: []domain.Entity{
		{Type: "skill", Text: "Go"},
		{Type: "skill", Text: "Python"},
		{Type: "skill", Text: "Kafka"},
		{Type: "degree", Text: "Bachelor"}, // non-skill entities ignored
	}}
	svc := NewMatchService(analyzer, store)

	result, err := svc.MatchResumeToJob(context.Background(), "r1", "3 years building Go and Python services with Kafka")
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "python"}, result.MatchedSkills)
	assert.Equal(t, []string{"kafka"}, result.MissingSkills)
	assert.InDelta(t, 2.0/3.0, result.SkillScore, 1e-9)
}

func TestMatchResumeToJobNoRequiredSkills(t *testing.T) {
	store := newCountingStore()
	storedResume(t, store, &domain.ParsedResume{ID: "r1", Skills: []string{"Go"}})
	svc := NewMatchService(&fakeAnalyzer{}, store)

	result, err := svc.MatchResumeToJob(context.Background(), "r1", "a friendly team player wanted")
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.SkillScore)
	assert.Empty(t, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
}

func TestMatchResumeToJobUnknownResume(t *testing.T) {
	svc := NewMatchService(&fakeAnalyzer{}, newCountingStore())

	_, err := svc.MatchResumeToJob(context.Background(), "absent", "any job")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name    string
		resume  *domain.ParsedResume
		jobText string
		want    float64
	}{
		{
			name:    "no experience",
			resume:  &domain.ParsedResume{},
			jobText: "5 years required",
			want:    0,
		},
		{
			name: "meets stated requirement",
			resume: &domain.ParsedResume{Experience: []domain.WorkExperience{
				{Dates: "2015 - 2020"},
			}},
			jobText: "3+ years of experience",
			want:    1,
		},
		{
			name: "below stated requirement",
			resume: &domain.ParsedResume{Experience: []domain.WorkExperience{
				{Dates: "2015 - 2020"},
			}},
			jobText: "10 years of experience",
			want:    0.5,
		},
		{
			name: "baseline when unstated",
			resume: &domain.ParsedResume{Experience: []domain.WorkExperience{
				{Dates: "2018 - 2019"},
			}},
			jobText: "an exciting role",
			want:    0.2, // 1 year against the baseline of 5
		},
		{
			name: "dateless experience counts one year",
			resume: &domain.ParsedResume{Experience: []domain.WorkExperience{
				{Title: "Engineer"},
			}},
			jobText: "1 year needed",
			want:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, experienceScore(tt.resume, tt.jobText), 1e-9)
		})
	}
}

func TestExperienceScoreOngoingRole(t *testing.T) {
	resume := &domain.ParsedResume{Experience: []domain.WorkExperience{
		{Dates: "2015 - Present"},
	}}
	// Span reaches the current year, far past the requirement, and the
	// score is capped at 1.
	assert.Equal(t, 1.0, experienceScore(resume, "2 years wanted"))
}

func TestEducationScore(t *testing.T) {
	tests := []struct {
		name    string
		resume  *domain.ParsedResume
		jobText string
		want    float64
	}{
		{
			name:    "no stated requirement",
			resume:  &domain.ParsedResume{},
			jobText: "come work here",
			want:    1,
		},
		{
			name: "meets requirement exactly",
			resume: &domain.ParsedResume{Education: []domain.Education{
				{Degree: "Bachelor of Science"},
			}},
			jobText: "Bachelor's degree required",
			want:    1,
		},
		{
			name: "exceeds requirement",
			resume: &domain.ParsedResume{Education: []domain.Education{
				{Degree: "Master of Science"},
			}},
			jobText: "Bachelor's degree required",
			want:    1,
		},
		{
			name: "below requirement",
			resume: &domain.ParsedResume{Education: []domain.Education{
				{Degree: "Associate"},
			}},
			jobText: "Bachelor's degree required",
			want:    0.5,
		},
		{
			name:    "no degree at all",
			resume:  &domain.ParsedResume{},
			jobText: "Master's degree required",
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, educationScore(tt.resume, tt.jobText), 1e-9)
		})
	}
}

func TestOverallScoreWeighting(t *testing.T) {
	store := newCountingStore()
	storedResume(t, store, &domain.ParsedResume{
		ID:     "r1",
		Skills: []string{"Go"},
		Experience: []domain.WorkExperience{
			{Dates: "2010 - 2020"},
		},
		Education: []domain.Education{{Degree: "PhD"}},
	})
	analyzer := &fakeAnalyzer{entities: []domain.Entity{{Type: "skill", Text: "Go"}}}
	svc := NewMatchService(analyzer, store)

	result, err := svc.MatchResumeToJob(context.Background(), "r1",
		"5 years of Go, Bachelor's degree required")
	require.NoError(t, err)

	// Every sub-score is 1, so the weights must sum to the overall.
	assert.InDelta(t, 1.0, result.SkillScore, 1e-9)
	assert.InDelta(t, 1.0, result.ExperienceScore, 1e-9)
	assert.InDelta(t, 1.0, result.EducationScore, 1e-9)
	assert.InDelta(t, 1.0, result.OverallScore, 1e-9)
}

func TestOverallScoreMonotonicInSkills(t *testing.T) {
	store := newCountingStore()
	storedResume(t, store, &domain.ParsedResume{ID: "weak", Skills: []string{"Go"}})
	storedResume(t, store, &domain.ParsedResume{ID: "strong", Skills: []string{"Go", "Kafka"}})

	analyzer := &fakeAnalyzer{entities: []domain.Entity{
		{Type: "skill", Text: "Go"},
		{Type: "skill", Text: "Kafka"},
	}}
	svc := NewMatchService(analyzer, store)

	weak, err := svc.MatchResumeToJob(context.Background(), "weak", "Go and Kafka")
	require.NoError(t, err)
	strong, err := svc.MatchResumeToJob(context.Background(), "strong", "Go and Kafka")
	require.NoError(t, err)

	assert.Greater(t, strong.OverallScore, weak.OverallScore)
}
