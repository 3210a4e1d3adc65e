package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/talentstack/docpipe/internal/core/domain"
	"github.com/talentstack/docpipe/internal/core/ports/driven"
	"github.com/talentstack/docpipe/internal/core/ports/driving"
	"github.com/talentstack/docpipe/internal/logger"
)

// Overall score weights. Skill match dominates because it is the only
// directly observable intersection; experience and education are
// coarser heuristics.
const (
	skillWeight      = 0.5
	experienceWeight = 0.3
	educationWeight  = 0.2
)

// baselineExperienceYears scales the experience score when the job
// text states no explicit requirement.
const baselineExperienceYears = 5

// entityTypeSkill is the analyzer entity type the matcher consumes.
const entityTypeSkill = "skill"

var (
	requiredYearsPattern = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*years?`)
	experienceYearToken  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	ongoingToken         = regexp.MustCompile(`(?i)\b(?:Present|Current)\b`)
)

// Ensure MatchService implements the interface.
var _ driving.Matcher = (*MatchService)(nil)

// MatchService scores a stored parsed resume against job requirements
// text along skill, experience and education dimensions.
type MatchService struct {
	analyzer driven.Analyzer
	store    driven.DocumentStore
}

// NewMatchService creates a match service.
func NewMatchService(analyzer driven.Analyzer, store driven.DocumentStore) *MatchService {
	return &MatchService{analyzer: analyzer, store: store}
}

// MatchResumeToJob extracts required skills from the job text, diffs
// them against the candidate's skill set, and combines skill,
// experience and education sub-scores into a weighted overall figure.
func (m *MatchService) MatchResumeToJob(ctx context.Context, resumeID, jobText string) (*domain.MatchResult, error) {
	entities, err := m.analyzer.Entities(ctx, jobText)
	if err != nil {
		return nil, fmt.Errorf("analyze job requirements: %w", err)
	}

	required := requiredSkills(entities)

	resume, err := m.store.GetResume(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("get resume %s: %w", resumeID, err)
	}

	candidate := make(map[string]bool, len(resume.Skills))
	for _, s := range resume.Skills {
		candidate[strings.ToLower(s)] = true
	}

	var matched, missing []string
	for _, skill := range required {
		if candidate[skill] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	result := &domain.MatchResult{
		SkillScore:      skillScore(len(matched), len(required)),
		ExperienceScore: experienceScore(resume, jobText),
		EducationScore:  educationScore(resume, jobText),
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}
	result.OverallScore = skillWeight*result.SkillScore +
		experienceWeight*result.ExperienceScore +
		educationWeight*result.EducationScore

	logger.Debug("match: resume %s vs job: skill=%.2f exp=%.2f edu=%.2f overall=%.2f",
		resumeID, result.SkillScore, result.ExperienceScore, result.EducationScore, result.OverallScore)
	return result, nil
}

// requiredSkills filters analyzer entities down to lower-cased,
// deduplicated skill terms.
func requiredSkills(entities []domain.Entity) []string {
	seen := make(map[string]bool)
	var skills []string
	for _, e := range entities {
		if e.Type != entityTypeSkill {
			continue
		}
		term := strings.ToLower(strings.TrimSpace(e.Text))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		skills = append(skills, term)
	}
	return skills
}

func skillScore(matched, required int) float64 {
	if required == 0 {
		return 1
	}
	return float64(matched) / float64(required)
}

// experienceScore compares the candidate's detected experience span
// with the years the job text asks for, or a baseline when it asks for
// none.
func experienceScore(resume *domain.ParsedResume, jobText string) float64 {
	if len(resume.Experience) == 0 {
		return 0
	}

	span := experienceYearSpan(resume)

	required := 0
	if m := requiredYearsPattern.FindStringSubmatch(jobText); m != nil {
		required, _ = strconv.Atoi(m[1])
	}
	if required <= 0 {
		required = baselineExperienceYears
	}

	score := float64(span) / float64(required)
	if score > 1 {
		return 1
	}
	return score
}

// experienceYearSpan estimates total years of experience from the date
// tokens across all experience entries. Any experience at all counts
// for at least one year.
func experienceYearSpan(resume *domain.ParsedResume) int {
	minYear, maxYear := 0, 0
	for _, exp := range resume.Experience {
		for _, tok := range experienceYearToken.FindAllString(exp.Dates, -1) {
			year, err := strconv.Atoi(tok)
			if err != nil {
				continue
			}
			if minYear == 0 || year < minYear {
				minYear = year
			}
			if year > maxYear {
				maxYear = year
			}
		}
		if ongoingToken.MatchString(exp.Dates) {
			now := time.Now().Year()
			if now > maxYear {
				maxYear = now
			}
		}
	}

	span := maxYear - minYear
	if span < 1 {
		return 1
	}
	return span
}

// degreeRanks orders degree levels for comparison. Checked in order so
// "doctor" outranks the "master" substring checks.
var degreeRanks = []struct {
	keyword string
	rank    int
}{
	{"ph.d", 4},
	{"phd", 4},
	{"doctor", 4},
	{"master", 3},
	{"mba", 3},
	{"m.s", 3},
	{"msc", 3},
	{"bachelor", 2},
	{"b.s", 2},
	{"bsc", 2},
	{"b.a", 2},
	{"associate", 1},
	{"diploma", 1},
}

// educationScore compares the candidate's highest degree rank with the
// highest degree rank the job text mentions. No stated requirement
// scores full marks.
func educationScore(resume *domain.ParsedResume, jobText string) float64 {
	requiredRank := degreeRank(jobText)
	if requiredRank == 0 {
		return 1
	}

	candidateRank := 0
	for _, edu := range resume.Education {
		if r := degreeRank(edu.Degree); r > candidateRank {
			candidateRank = r
		}
	}

	if candidateRank >= requiredRank {
		return 1
	}
	return float64(candidateRank) / float64(requiredRank)
}

func degreeRank(text string) int {
	lower := strings.ToLower(text)
	best := 0
	for _, dr := range degreeRanks {
		if dr.rank > best && strings.Contains(lower, dr.keyword) {
			best = dr.rank
		}
	}
	return best
}
