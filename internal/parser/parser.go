// Package parser turns unstructured resume text into a structured
// record via heuristic section splitting and pattern-table extraction.
// Parsing is best-effort and never fails: unrecognisable input yields
// near-empty fields and a low confidence score.
package parser

import (
	"strings"
	"time"

	"github.com/talentstack/docpipe/internal/core/domain"
)

// minResumeIndicators is how many indicator keywords unnamed content
// needs before it is treated as resume-shaped.
const minResumeIndicators = 4

// maxFallbackSummaryLines bounds the no-section summary fallback.
const maxFallbackSummaryLines = 5

// Parser composes the section splitter, entity extractors and
// confidence scorer. All lookup tables come from the injected
// vocabulary and are compiled once at construction.
type Parser struct {
	vocab            *Vocabulary
	sectionRules     []sectionRule
	skillPatterns    []skillPattern
	degreePatterns   []degreePattern
	indicatorPattern []skillPattern
}

// New creates a parser from a vocabulary. Pass nil for the built-in
// defaults.
func New(vocab *Vocabulary) *Parser {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	indicators := make([]skillPattern, 0, len(vocab.ResumeIndicators))
	for _, kw := range vocab.ResumeIndicators {
		indicators = append(indicators, skillPattern{
			skill: kw,
			re:    wordBoundedPattern(kw),
		})
	}
	return &Parser{
		vocab:            vocab,
		sectionRules:     compileSectionRules(vocab),
		skillPatterns:    compileSkillPatterns(vocab),
		degreePatterns:   compileDegreePatterns(vocab),
		indicatorPattern: indicators,
	}
}

// Parse produces a structured record from raw text. The confidence
// score is computed from the result and never set independently.
func (p *Parser) Parse(text, sourceFile string) *domain.ParsedResume {
	sections := p.SplitSections(text)

	r := &domain.ParsedResume{
		Contact:        ExtractContact(text),
		Summary:        p.extractSummary(text, sections),
		Skills:         p.ExtractSkills(text, sections),
		Experience:     ExtractExperience(sections[SectionExperience]),
		Education:      p.ExtractEducation(sections[SectionEducation]),
		Certifications: ExtractCertifications(text, sections),
		RawText:        text,
		Metadata: domain.DocumentMetadata{
			SourceFile: sourceFile,
			ParsedAt:   time.Now().UTC(),
		},
	}
	r.Metadata.Confidence = CalculateConfidence(r)
	return r
}

// LooksLikeResume decides whether content is resume-shaped: the file
// name mentions a resume, or enough indicator keywords appear in the
// text.
func (p *Parser) LooksLikeResume(fileName, text string) bool {
	name := strings.ToLower(fileName)
	if strings.Contains(name, "resume") ||
		strings.Contains(name, "cv") ||
		strings.Contains(name, "curriculum") {
		return true
	}

	hits := 0
	for _, ind := range p.indicatorPattern {
		if ind.re.MatchString(text) {
			hits++
			if hits >= minResumeIndicators {
				return true
			}
		}
	}
	return false
}

// extractSummary returns the summary section verbatim if present,
// otherwise the first few non-empty lines that carry no contact
// patterns, joined by spaces.
func (p *Parser) extractSummary(text string, sections map[string]string) string {
	if s, ok := sections[SectionSummary]; ok && s != "" {
		return s
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || containsContactPattern(line) {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxFallbackSummaryLines {
			break
		}
	}
	return strings.Join(lines, " ")
}
